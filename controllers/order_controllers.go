package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nuxrewards/loyalty-app/cart"
	"github.com/nuxrewards/loyalty-app/models"
	"github.com/nuxrewards/loyalty-app/realtime"
	"github.com/nuxrewards/loyalty-app/utils"
)

type OrderController struct {
	DB    *gorm.DB
	Carts *cart.Manager
	Hub   *realtime.Hub
}

func NewOrderController(db *gorm.DB, carts *cart.Manager, hub *realtime.Hub) *OrderController {
	return &OrderController{DB: db, Carts: carts, Hub: hub}
}

// CreateOrder -> snapshots the session cart into an order, clears the
// cart and notifies staff
func (oc *OrderController) CreateOrder(c *gin.Context) {
	sessionKey := c.GetHeader("X-Session-Key")
	if sessionKey == "" {
		utils.RespondError(c, http.StatusBadRequest, errNoSessionKey)
		return
	}

	type reqBody struct {
		RestaurantID uint  `json:"restaurant_id" binding:"required"`
		TableID      *uint `json:"table_id"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	store := oc.Carts.Get(sessionKey)
	items := store.Items()
	if len(items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cart is empty"))
		return
	}

	order := models.Order{
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		SessionKey:   sessionKey,
		Total:        store.TotalPrice(),
	}
	for _, item := range items {
		extras := ""
		if len(item.SelectedExtras) > 0 {
			if data, err := json.Marshal(item.SelectedExtras); err == nil {
				extras = string(data)
			}
		}
		order.Items = append(order.Items, models.OrderItem{
			MenuID:   item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			Extras:   extras,
			Notes:    item.Notes,
		})
	}

	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// The cart is dropped once the order is in; a new browsing session
	// starts from an empty cart.
	oc.Carts.Drop(sessionKey)

	oc.Hub.BroadcastOrderNew(order)
	utils.InfoLogger.Printf("Order %d created for restaurant %d (%d items)", order.ID, order.RestaurantID, len(order.Items))

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders -> staff/admin view
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("Items")
	if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All orders", orders)
}

// UpdateOrderStatus
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	type reqBody struct {
		Status string `json:"status" binding:"required"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	order.Status = req.Status
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}
