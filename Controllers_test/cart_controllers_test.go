package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nuxrewards/loyalty-app/cart"
	"github.com/nuxrewards/loyalty-app/controllers"
	"github.com/nuxrewards/loyalty-app/utils"
)

func setupCartRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	cartCtrl := controllers.NewCartController(cart.NewManager())
	router.GET("/cart", cartCtrl.GetCart)
	router.POST("/cart/items", cartCtrl.AddItem)
	router.DELETE("/cart/items", cartCtrl.RemoveItem)
	router.PATCH("/cart/items", cartCtrl.UpdateQuantity)
	router.DELETE("/cart", cartCtrl.ClearCart)
	return router
}

func cartRequest(t *testing.T, router *gin.Engine, method, path, session string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		buf = bytes.NewBuffer(payload)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-Key", session)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cartData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	assert.True(t, ok)
	return data
}

func TestCartSessionFlow(t *testing.T) {
	utils.InitLogger()
	router := setupCartRouter()

	item := map[string]interface{}{
		"id":    1,
		"title": "Burger",
		"price": 10.0,
		"selected_extras": []map[string]interface{}{
			{"name": "Cheese", "price": 1.5, "calories": 90},
		},
	}

	// Add twice -> one entry, quantity 2
	w := cartRequest(t, router, "POST", "/cart/items", "sess-1", item)
	assert.Equal(t, http.StatusOK, w.Code)
	w = cartRequest(t, router, "POST", "/cart/items", "sess-1", item)
	assert.Equal(t, http.StatusOK, w.Code)

	data := cartData(t, w)
	assert.Equal(t, float64(2), data["total_items"])
	assert.InDelta(t, 23.0, data["total_price"].(float64), 1e-9)

	w = cartRequest(t, router, "GET", "/cart", "sess-1", nil)
	data = cartData(t, w)
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)

	// Another session is independent
	w = cartRequest(t, router, "GET", "/cart", "sess-2", nil)
	data = cartData(t, w)
	assert.Equal(t, float64(0), data["total_items"])

	// Quantity zero removes the variant
	w = cartRequest(t, router, "PATCH", "/cart/items", "sess-1", map[string]interface{}{
		"id":       1,
		"quantity": 0,
		"selected_extras": []map[string]interface{}{
			{"name": "Cheese", "price": 1.5, "calories": 90},
		},
	})
	data = cartData(t, w)
	assert.Equal(t, float64(0), data["total_items"])
}

func TestCartRequiresSessionKey(t *testing.T) {
	utils.InitLogger()
	router := setupCartRouter()

	w := cartRequest(t, router, "GET", "/cart", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartCoarseRemove(t *testing.T) {
	utils.InitLogger()
	router := setupCartRouter()

	plain := map[string]interface{}{"id": 1, "title": "Burger", "price": 10.0}
	cheese := map[string]interface{}{
		"id": 1, "title": "Burger", "price": 10.0,
		"selected_extras": []map[string]interface{}{{"name": "Cheese", "price": 1.5}},
	}
	cartRequest(t, router, "POST", "/cart/items", "sess-3", plain)
	cartRequest(t, router, "POST", "/cart/items", "sess-3", cheese)

	// No extras in the body -> every variant of id 1 goes
	w := cartRequest(t, router, "DELETE", "/cart/items", "sess-3", map[string]interface{}{"id": 1})
	data := cartData(t, w)
	assert.Equal(t, float64(0), data["total_items"])
}

func TestCartClear(t *testing.T) {
	utils.InitLogger()
	router := setupCartRouter()

	cartRequest(t, router, "POST", "/cart/items", "sess-4", map[string]interface{}{"id": 2, "title": "Fries", "price": 4.0})
	w := cartRequest(t, router, "DELETE", "/cart", "sess-4", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = cartRequest(t, router, "GET", "/cart", "sess-4", nil)
	data := cartData(t, w)
	assert.Equal(t, float64(0), data["total_items"])
}
