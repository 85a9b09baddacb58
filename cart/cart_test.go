package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyIgnoresExtraOrder(t *testing.T) {
	extras := []Extra{
		{Name: "Cheese", Price: 1.5, Calories: 90},
		{Name: "Bacon", Price: 2.0, Calories: 120},
		{Name: "Avocado", Price: 2.5, Calories: 80},
	}
	permuted := []Extra{extras[2], extras[0], extras[1]}

	assert.Equal(t, Key(7, extras), Key(7, permuted))
}

func TestKeyDistinguishesExtras(t *testing.T) {
	a := []Extra{{Name: "Cheese", Price: 1.5}}
	b := []Extra{{Name: "Cheese", Price: 2.0}}

	assert.NotEqual(t, Key(7, a), Key(7, b), "same name but different price must differ")
	assert.NotEqual(t, Key(7, a), Key(7, nil))
	assert.Equal(t, Key(7, nil), Key(7, []Extra{}))
}

func TestAddItemMergesSameVariant(t *testing.T) {
	s := NewStore()
	extras := []Extra{{Name: "Cheese", Price: 1.5}, {Name: "Bacon", Price: 2.0}}

	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: extras})
	// Same set of extras, supplied in the opposite order
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: []Extra{extras[1], extras[0]}})

	items := s.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItemKeepsDistinctVariants(t *testing.T) {
	s := NewStore()

	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10})
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: []Extra{{Name: "Cheese", Price: 1.5}}})

	items := s.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 2, s.TotalItems())
}

func TestRemoveItemIsCoarse(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10})
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: []Extra{{Name: "Cheese", Price: 1.5}}})
	s.AddItem(Item{ID: 2, Title: "Fries", Price: 4})

	// Without extras every variant of the item goes
	s.RemoveItem(1)

	items := s.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].ID)
}

func TestRemoveVariantIsExact(t *testing.T) {
	s := NewStore()
	cheese := []Extra{{Name: "Cheese", Price: 1.5}}
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10})
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: cheese})

	s.RemoveVariant(1, cheese)

	items := s.Items()
	assert.Len(t, items, 1)
	assert.Empty(t, items[0].SelectedExtras)

	// No-op on a missing variant
	s.RemoveVariant(1, cheese)
	assert.Len(t, s.Items(), 1)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	s := NewStore()
	cheese := []Extra{{Name: "Cheese", Price: 1.5}}
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: cheese})

	s.UpdateVariantQuantity(1, 0, cheese)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
}

func TestUpdateQuantityFirstMatchOnly(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10})
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: []Extra{{Name: "Cheese", Price: 1.5}}})

	s.UpdateQuantity(1, 5)

	items := s.Items()
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestUpdateVariantQuantity(t *testing.T) {
	s := NewStore()
	cheese := []Extra{{Name: "Cheese", Price: 1.5}}
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10})
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: cheese})

	s.UpdateVariantQuantity(1, 3, cheese)

	items := s.Items()
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 3, items[1].Quantity)
}

func TestTotalPriceClampsNegatives(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: 1, Title: "Broken", Price: -5, SelectedExtras: []Extra{
		{Name: "Bad", Price: -2},
		{Name: "Cheese", Price: 1.5},
	}})
	s.AddItem(Item{ID: 2, Title: "Fries", Price: 4})

	// negative components clamp to zero per line, never below
	assert.Equal(t, 1.5+4.0, s.TotalPrice())
	assert.GreaterOrEqual(t, s.TotalPrice(), 0.0)
}

func TestTotalPriceMultipliesQuantity(t *testing.T) {
	s := NewStore()
	cheese := []Extra{{Name: "Cheese", Price: 1.5}}
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: cheese})
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: cheese})
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10, SelectedExtras: cheese})

	assert.Equal(t, 3, s.TotalItems())
	assert.InDelta(t, 34.5, s.TotalPrice(), 1e-9)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: 1, Title: "Burger", Price: 10})
	s.AddItem(Item{ID: 2, Title: "Fries", Price: 4})

	s.Clear()

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
	assert.Equal(t, 0.0, s.TotalPrice())
}

func TestManagerSessions(t *testing.T) {
	m := NewManager()

	a := m.Get("session-a")
	b := m.Get("session-b")
	a.AddItem(Item{ID: 1, Title: "Burger", Price: 10})

	assert.Equal(t, 1, m.Get("session-a").TotalItems())
	assert.Equal(t, 0, b.TotalItems())

	m.Drop("session-a")
	assert.Equal(t, 0, m.Get("session-a").TotalItems())
}
