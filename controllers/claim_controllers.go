package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nuxrewards/loyalty-app/geo"
	"github.com/nuxrewards/loyalty-app/models"
	"github.com/nuxrewards/loyalty-app/realtime"
	"github.com/nuxrewards/loyalty-app/utils"
)

// claimCooldown prevents the same code from being farmed by one user.
const claimCooldown = 24 * time.Hour

var (
	ErrUnknownCode     = &CustomError{"Unknown loyalty code"}
	ErrNotAtRestaurant = &CustomError{"You must be at the restaurant location to claim points"}
	ErrAlreadyClaimed  = &CustomError{"Points for this restaurant were already claimed today"}
)

type ClaimController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewClaimController(db *gorm.DB, hub *realtime.Hub) *ClaimController {
	return &ClaimController{DB: db, Hub: hub}
}

// SubmitClaim -> redeem a scanned loyalty code for points, gated by
// physical presence at the restaurant
func (cc *ClaimController) SubmitClaim(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	userID := userIDInterface.(uint)

	type reqBody struct {
		QRCode    string   `json:"qr_code" binding:"required"`
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var restaurant models.Restaurant
	if err := cc.DB.Where("qr_code = ?", req.QRCode).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrUnknownCode)
		return
	}

	device := geo.Position{Latitude: *req.Latitude, Longitude: *req.Longitude}
	site := geo.Position{Latitude: restaurant.Latitude, Longitude: restaurant.Longitude}
	if geo.Distance(device, site) > restaurant.ClaimRadiusM {
		utils.RespondError(c, http.StatusForbidden, ErrNotAtRestaurant)
		return
	}

	var recent int64
	cc.DB.Model(&models.Claim{}).
		Where("user_id = ? AND restaurant_id = ? AND created_at > ?",
			userID, restaurant.ID, time.Now().Add(-claimCooldown)).
		Count(&recent)
	if recent > 0 {
		utils.RespondError(c, http.StatusConflict, ErrAlreadyClaimed)
		return
	}

	claim := models.Claim{
		UserID:       userID,
		RestaurantID: restaurant.ID,
		QRCode:       req.QRCode,
		Latitude:     device.Latitude,
		Longitude:    device.Longitude,
		Points:       restaurant.PointsPerClaim,
	}

	var balance models.LoyaltyBalance
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&claim).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).First(&balance).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			balance = models.LoyaltyBalance{UserID: userID}
		}
		balance.Points += claim.Points
		return tx.Save(&balance).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	title := "Points claimed"
	notif := models.Notification{
		UserID:  &claim.UserID,
		Title:   &title,
		Message: fmt.Sprintf("You earned %d points at %s", claim.Points, restaurant.Name),
		Type:    "claim",
	}
	if err := cc.DB.Create(&notif).Error; err == nil {
		cc.Hub.BroadcastNotification(realtime.NotificationEvent{
			ID:    notif.ID,
			Title: title,
			Body:  notif.Message,
			Type:  notif.Type,
		})
	}

	utils.InfoLogger.Printf("User %d claimed %d points at %s", userID, claim.Points, restaurant.Name)

	utils.RespondJSON(c, http.StatusOK, "Points claimed", gin.H{
		"points":  claim.Points,
		"balance": balance.Points,
	})
}

// GetBalance -> the authenticated user's current point balance
func (cc *ClaimController) GetBalance(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	userID := userIDInterface.(uint)

	var balance models.LoyaltyBalance
	if err := cc.DB.Where("user_id = ?", userID).First(&balance).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		balance = models.LoyaltyBalance{UserID: userID}
	}

	utils.RespondJSON(c, http.StatusOK, "Balance", gin.H{
		"points": balance.Points,
	})
}

// GetClaimHistory -> the authenticated user's past claims
func (cc *ClaimController) GetClaimHistory(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	userID := userIDInterface.(uint)

	var claims []models.Claim
	if err := cc.DB.Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&claims).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Claim history", claims)
}
