package cart

import (
	"encoding/json"
	"sort"
	"strconv"
	"sync"
)

// Extra is a customer-selected add-on attached to a menu item.
type Extra struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Calories float64 `json:"calories"`
}

type KitchenSection struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Item is one cart entry. Two entries with the same menu ID coexist only
// when their selected extras differ.
type Item struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Price           float64         `json:"price"`
	Image           string          `json:"image,omitempty"`
	Quantity        int             `json:"quantity"`
	SelectedExtras  []Extra         `json:"selected_extras,omitempty"`
	BaseCalories    float64         `json:"base_calories,omitempty"`
	PreparationTime int             `json:"preparation_time,omitempty"`
	Allergies       []string        `json:"allergies,omitempty"`
	KitchenSection  *KitchenSection `json:"kitchen_section,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// Key builds the composite identity for a cart entry from the menu ID and
// the selected extras. Extras are conceptually an unordered set, so they
// are name-sorted (stable, preserving relative order of name ties) before
// serialization; any permutation of the same extras yields the same key.
func Key(id uint, extras []Extra) string {
	if len(extras) == 0 {
		return strconv.FormatUint(uint64(id), 10)
	}

	sorted := make([]Extra, len(extras))
	copy(sorted, extras)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	data, err := json.Marshal(sorted)
	if err != nil {
		// Extra is a plain value struct, Marshal cannot fail on it
		return strconv.FormatUint(uint64(id), 10)
	}
	return strconv.FormatUint(uint64(id), 10) + "|" + string(data)
}

// Store is an in-memory cart: an ordered collection of (item, extras)-keyed
// entries with quantities. All operations are total, none perform I/O.
type Store struct {
	mu    sync.Mutex
	items []Item
}

func NewStore() *Store {
	return &Store{}
}

// AddItem merges the item into the cart. An existing entry with the same
// composite key has its quantity incremented by one; otherwise the item is
// appended with quantity 1. The item's own Quantity field is ignored.
func (s *Store) AddItem(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(item.ID, item.SelectedExtras)
	for i := range s.items {
		if Key(s.items[i].ID, s.items[i].SelectedExtras) == key {
			s.items[i].Quantity++
			return
		}
	}

	item.Quantity = 1
	s.items = append(s.items, item)
}

// RemoveItem removes every entry with the given menu ID regardless of
// extras. This coarse form predates extras and is kept for single-variant
// callers; variant-aware callers should use RemoveVariant.
func (s *Store) RemoveItem(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// RemoveVariant removes only the entry matching the exact (id, extras)
// composite key. No-op if there is no match.
func (s *Store) RemoveVariant(id uint, extras []Extra) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(id, extras)
	for i := range s.items {
		if Key(s.items[i].ID, s.items[i].SelectedExtras) == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of the first entry with the given menu
// ID. A quantity of zero or less removes all entries with that ID. Kept for
// single-variant callers; variant-aware callers should use
// UpdateVariantQuantity.
func (s *Store) UpdateQuantity(id uint, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(id)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			return
		}
	}
}

// UpdateVariantQuantity sets the quantity of the entry matching the exact
// (id, extras) key. A quantity of zero or less removes that entry. No-op if
// there is no match.
func (s *Store) UpdateVariantQuantity(id uint, quantity int, extras []Extra) {
	if quantity <= 0 {
		s.RemoveVariant(id, extras)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(id, extras)
	for i := range s.items {
		if Key(s.items[i].ID, s.items[i].SelectedExtras) == key {
			s.items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the entries in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems is the sum of all entry quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice sums the per-line totals. Negative prices are clamped to zero
// per component before multiplication so malformed upstream data can never
// drive the total below zero.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, it := range s.items {
		line := clampPrice(it.Price)
		for _, ex := range it.SelectedExtras {
			line += clampPrice(ex.Price)
		}
		total += line * float64(it.Quantity)
	}
	return total
}

func clampPrice(p float64) float64 {
	if p < 0 {
		return 0
	}
	return p
}
