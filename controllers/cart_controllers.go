package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nuxrewards/loyalty-app/cart"
	"github.com/nuxrewards/loyalty-app/utils"
)

// CartController exposes the session cart. Carts are keyed by the
// X-Session-Key header and live in memory only.
type CartController struct {
	Carts *cart.Manager
}

func NewCartController(carts *cart.Manager) *CartController {
	return &CartController{Carts: carts}
}

var errNoSessionKey = errors.New("X-Session-Key header is required")

func (cc *CartController) sessionCart(c *gin.Context) (*cart.Store, bool) {
	key := c.GetHeader("X-Session-Key")
	if key == "" {
		utils.RespondError(c, http.StatusBadRequest, errNoSessionKey)
		return nil, false
	}
	return cc.Carts.Get(key), true
}

// GetCart -> entries plus derived totals
func (cc *CartController) GetCart(c *gin.Context) {
	store, ok := cc.sessionCart(c)
	if !ok {
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart", gin.H{
		"items":       store.Items(),
		"total_items": store.TotalItems(),
		"total_price": store.TotalPrice(),
	})
}

// AddItem -> merge one item into the cart
func (cc *CartController) AddItem(c *gin.Context) {
	store, ok := cc.sessionCart(c)
	if !ok {
		return
	}

	var item cart.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if item.ID == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("item id is required"))
		return
	}

	store.AddItem(item)

	utils.RespondJSON(c, http.StatusOK, "Item added", gin.H{
		"total_items": store.TotalItems(),
		"total_price": store.TotalPrice(),
	})
}

// RemoveItem -> exact variant when extras are supplied, otherwise every
// entry with the item id
func (cc *CartController) RemoveItem(c *gin.Context) {
	store, ok := cc.sessionCart(c)
	if !ok {
		return
	}

	type reqBody struct {
		ID     uint          `json:"id" binding:"required"`
		Extras *[]cart.Extra `json:"selected_extras"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Extras != nil {
		store.RemoveVariant(req.ID, *req.Extras)
	} else {
		store.RemoveItem(req.ID)
	}

	utils.RespondJSON(c, http.StatusOK, "Item removed", gin.H{
		"total_items": store.TotalItems(),
		"total_price": store.TotalPrice(),
	})
}

// UpdateQuantity -> quantity of zero removes the matching entries
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	store, ok := cc.sessionCart(c)
	if !ok {
		return
	}

	type reqBody struct {
		ID       uint          `json:"id" binding:"required"`
		Quantity int           `json:"quantity"`
		Extras   *[]cart.Extra `json:"selected_extras"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Extras != nil {
		store.UpdateVariantQuantity(req.ID, req.Quantity, *req.Extras)
	} else {
		store.UpdateQuantity(req.ID, req.Quantity)
	}

	utils.RespondJSON(c, http.StatusOK, "Quantity updated", gin.H{
		"total_items": store.TotalItems(),
		"total_price": store.TotalPrice(),
	})
}

// ClearCart
func (cc *CartController) ClearCart(c *gin.Context) {
	store, ok := cc.sessionCart(c)
	if !ok {
		return
	}

	store.Clear()
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}
