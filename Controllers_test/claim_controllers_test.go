package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nuxrewards/loyalty-app/controllers"
	"github.com/nuxrewards/loyalty-app/middlewares"
	"github.com/nuxrewards/loyalty-app/models"
	"github.com/nuxrewards/loyalty-app/realtime"
	"github.com/nuxrewards/loyalty-app/utils"
)

const restaurantQR = "a1b2c3d4-0000-0000-0000-000000000000"

func setupTestDBForClaims(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Claim{},
		&models.LoyaltyBalance{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatal(err)
	}

	db.Create(&models.User{Name: "Tester", Email: "tester@example.com", Password: "x", Role: "customer"})
	db.Create(&models.Restaurant{
		Name:           "Bistro Nord",
		QRCode:         restaurantQR,
		Latitude:       48.8584,
		Longitude:      2.2945,
		ClaimRadiusM:   150,
		PointsPerClaim: 10,
	})
	return db
}

func setupClaimRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	claimCtrl := controllers.NewClaimController(db, realtime.NewHub())
	authed := router.Group("/")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.POST("/claims", claimCtrl.SubmitClaim)
		authed.GET("/balance", claimCtrl.GetBalance)
		authed.GET("/claims", claimCtrl.GetClaimHistory)
	}
	return router
}

func postClaim(t *testing.T, router *gin.Engine, token string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/claims", bytes.NewBuffer(payload))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClaimFlow(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForClaims(t)
	router := setupClaimRouter(db)

	token, err := utils.GenerateToken(1, "customer")
	assert.NoError(t, err)

	// At the restaurant -> points credited
	w := postClaim(t, router, token, map[string]interface{}{
		"qr_code":   restaurantQR,
		"latitude":  48.8584,
		"longitude": 2.2945,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["points"])
	assert.Equal(t, float64(10), data["balance"])

	// Same code again inside the cooldown -> conflict
	w = postClaim(t, router, token, map[string]interface{}{
		"qr_code":   restaurantQR,
		"latitude":  48.8584,
		"longitude": 2.2945,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Balance reflects the single claim
	req, _ := http.NewRequest("GET", "/balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["points"])
}

func TestClaimTooFarAway(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForClaims(t)
	router := setupClaimRouter(db)

	token, err := utils.GenerateToken(1, "customer")
	assert.NoError(t, err)

	// A few kilometers off
	w := postClaim(t, router, token, map[string]interface{}{
		"qr_code":   restaurantQR,
		"latitude":  48.90,
		"longitude": 2.35,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "restaurant location")
}

func TestClaimUnknownCode(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForClaims(t)
	router := setupClaimRouter(db)

	token, err := utils.GenerateToken(1, "customer")
	assert.NoError(t, err)

	w := postClaim(t, router, token, map[string]interface{}{
		"qr_code":   "LOYALTY-NOPE",
		"latitude":  48.8584,
		"longitude": 2.2945,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClaimRequiresAuth(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForClaims(t)
	router := setupClaimRouter(db)

	w := postClaim(t, router, "", map[string]interface{}{
		"qr_code":   restaurantQR,
		"latitude":  48.8584,
		"longitude": 2.2945,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
