package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nuxrewards/loyalty-app/models"
	"github.com/nuxrewards/loyalty-app/utils"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// GetAllRestaurants
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

// CreateRestaurant -> issues the restaurant's loyalty QR code
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	type reqBody struct {
		Name           string  `json:"name" binding:"required"`
		Description    string  `json:"description"`
		Latitude       float64 `json:"latitude" binding:"required"`
		Longitude      float64 `json:"longitude" binding:"required"`
		ClaimRadiusM   float64 `json:"claim_radius_m"`
		PointsPerClaim int     `json:"points_per_claim"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant := models.Restaurant{
		Name:           req.Name,
		Description:    req.Description,
		QRCode:         uuid.NewString(),
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		ClaimRadiusM:   req.ClaimRadiusM,
		PointsPerClaim: req.PointsPerClaim,
	}
	if restaurant.ClaimRadiusM <= 0 {
		restaurant.ClaimRadiusM = 150
	}
	if restaurant.PointsPerClaim <= 0 {
		restaurant.PointsPerClaim = 10
	}

	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant created: %s (qr=%s)", restaurant.Name, restaurant.QRCode)

	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// GetRestaurantByID
func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	idStr := c.Param("restaurant_id")
	id, _ := strconv.Atoi(idStr)

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// UpdateRestaurant -> partial update of profile and claim settings
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	idStr := c.Param("restaurant_id")
	id, _ := strconv.Atoi(idStr)

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		Name           *string  `json:"name"`
		Description    *string  `json:"description"`
		Latitude       *float64 `json:"latitude"`
		Longitude      *float64 `json:"longitude"`
		ClaimRadiusM   *float64 `json:"claim_radius_m"`
		PointsPerClaim *int     `json:"points_per_claim"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Description != nil {
		restaurant.Description = *req.Description
	}
	if req.Latitude != nil {
		restaurant.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		restaurant.Longitude = *req.Longitude
	}
	if req.ClaimRadiusM != nil && *req.ClaimRadiusM > 0 {
		restaurant.ClaimRadiusM = *req.ClaimRadiusM
	}
	if req.PointsPerClaim != nil && *req.PointsPerClaim > 0 {
		restaurant.PointsPerClaim = *req.PointsPerClaim
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// DeleteRestaurant
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	idStr := c.Param("restaurant_id")
	id, _ := strconv.Atoi(idStr)

	if err := rc.DB.Delete(&models.Restaurant{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"restaurant_id": id})
}
