package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nuxrewards/loyalty-app/models"
	"github.com/nuxrewards/loyalty-app/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetMenusByQRCode -> public menu browse, entered via a scanned menu link
func (mc *MenuController) GetMenusByQRCode(c *gin.Context) {
	code := c.Query("qr_code")
	if code == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("qr_code is required"))
		return
	}

	var restaurant models.Restaurant
	if err := mc.DB.Where("qr_code = ?", code).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("unknown restaurant code"))
		return
	}

	var menus []models.Menu
	if err := mc.DB.Preload("Category").Preload("Extras").
		Where("restaurant_id = ?", restaurant.ID).Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menus", gin.H{
		"restaurant": restaurant,
		"menus":      menus,
	})
}

// GetAllMenus -> optionally filtered by restaurant_id / category_id
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	query := mc.DB.Preload("Category").Preload("Extras")
	if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}
	if cid := c.Query("category_id"); cid != "" {
		query = query.Where("category_id = ?", cid)
	}

	var menus []models.Menu
	if err := query.Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menus", menus)
}

// CreateMenu -> menu item with optional extras
func (mc *MenuController) CreateMenu(c *gin.Context) {
	type extraBody struct {
		Name     string  `json:"name" binding:"required"`
		Price    float64 `json:"price"`
		Calories float64 `json:"calories"`
	}
	type reqBody struct {
		RestaurantID    uint        `json:"restaurant_id" binding:"required"`
		CategoryID      uint        `json:"category_id" binding:"required"`
		Name            string      `json:"name" binding:"required"`
		Price           float64     `json:"price" binding:"required"`
		Description     string      `json:"description"`
		BaseCalories    float64     `json:"base_calories"`
		PreparationTime int         `json:"preparation_time"`
		Allergies       string      `json:"allergies"`
		Extras          []extraBody `json:"extras"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu := models.Menu{
		RestaurantID:    req.RestaurantID,
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Price:           req.Price,
		Description:     req.Description,
		BaseCalories:    req.BaseCalories,
		PreparationTime: req.PreparationTime,
		Allergies:       req.Allergies,
	}
	for _, ex := range req.Extras {
		menu.Extras = append(menu.Extras, models.MenuExtra{
			Name:     ex.Name,
			Price:    ex.Price,
			Calories: ex.Calories,
		})
	}

	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	var menu models.Menu
	if err := mc.DB.Preload("Category").Preload("Extras").First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// UpdateMenu -> partial update
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
		CategoryID  *uint    `json:"category_id"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.Price != nil {
		menu.Price = *req.Price
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.CategoryID != nil {
		menu.CategoryID = *req.CategoryID
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	if err := mc.DB.Delete(&models.Menu{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}
