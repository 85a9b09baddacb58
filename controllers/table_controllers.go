package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/nuxrewards/loyalty-app/models"
	"github.com/nuxrewards/loyalty-app/realtime"
	"github.com/nuxrewards/loyalty-app/utils"
)

type TableController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewTableController(db *gorm.DB, hub *realtime.Hub) *TableController {
	return &TableController{DB: db, Hub: hub}
}

// menuLinkPayload builds the deep-link encoded into a table's QR code.
func menuLinkPayload(restaurantQR string, tableNumber int) string {
	base := os.Getenv("APP_BASE_URL")
	if base == "" {
		base = "https://app.nuxrewards.example"
	}
	return fmt.Sprintf("%s/menu/%s?table=%d", base, restaurantQR, tableNumber)
}

// GetAllTables -> optionally filtered by restaurant_id
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Model(&models.Table{})
	if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable
func (tc *TableController) CreateTable(c *gin.Context) {
	type reqBody struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		TableNumber  int    `json:"table_number" binding:"required"`
		Name         string `json:"name"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.TableNumber <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table_number must be positive"))
		return
	}

	var restaurant models.Restaurant
	if err := tc.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	table := models.Table{
		RestaurantID: req.RestaurantID,
		TableNumber:  req.TableNumber,
		Name:         req.Name,
	}
	if table.Name == "" {
		table.Name = fmt.Sprintf("Table %d", req.TableNumber)
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Table created", gin.H{
		"table":   table,
		"qr_link": menuLinkPayload(restaurant.QRCode, table.TableNumber),
	})
}

// GetTableQR -> PNG image of the table's menu deep-link
func (tc *TableController) GetTableQR(c *gin.Context) {
	idStr := c.Param("table_id")
	id, _ := strconv.Atoi(idStr)

	var table models.Table
	if err := tc.DB.Preload("Restaurant").First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	payload := menuLinkPayload(table.Restaurant.QRCode, table.TableNumber)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// UpdateTableStatus
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	idStr := c.Param("table_id")
	id, _ := strconv.Atoi(idStr)

	type reqBody struct {
		Status string `json:"status" binding:"required"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	table.Status = req.Status
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable
func (tc *TableController) DeleteTable(c *gin.Context) {
	idStr := c.Param("table_id")
	id, _ := strconv.Atoi(idStr)

	if err := tc.DB.Delete(&models.Table{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"table_id": id})
}

// RequestWaiter -> customer-facing service call, surfaced live to staff
func (tc *TableController) RequestWaiter(c *gin.Context) {
	idStr := c.Param("table_id")
	id, _ := strconv.Atoi(idStr)

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	event := realtime.WaiterRequestEvent{
		TableNumber: table.TableNumber,
		TableID:     table.ID,
		TableName:   table.Name,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	tc.Hub.BroadcastWaiterRequest(event)

	utils.InfoLogger.Printf("Waiter requested at table %d (%s)", table.TableNumber, table.Name)

	utils.RespondJSON(c, http.StatusOK, "Waiter requested", event)
}
