package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nuxrewards/loyalty-app/cart"
	"github.com/nuxrewards/loyalty-app/controllers"
	"github.com/nuxrewards/loyalty-app/middlewares"
	"github.com/nuxrewards/loyalty-app/realtime"
)

func SetupRouter(db *gorm.DB, hub *realtime.Hub, carts *cart.Manager) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	tableCtrl := controllers.NewTableController(db, hub)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	cartCtrl := controllers.NewCartController(carts)
	orderCtrl := controllers.NewOrderController(db, carts, hub)
	claimCtrl := controllers.NewClaimController(db, hub)
	notificationCtrl := controllers.NewNotificationController(db, hub)
	realtimeCtrl := controllers.NewRealtimeController(hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limited login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (no auth) --
	// Menu browsing, entered via a scanned menu deep-link
	r.GET("/menu", menuCtrl.GetMenusByQRCode)
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)

	// Session cart
	r.GET("/cart", cartCtrl.GetCart)
	r.POST("/cart/items", cartCtrl.AddItem)
	r.DELETE("/cart/items", cartCtrl.RemoveItem)
	r.PATCH("/cart/items", cartCtrl.UpdateQuantity)
	r.DELETE("/cart", cartCtrl.ClearCart)

	// Order submission (customer does not need to log in)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// Waiter call, surfaced live to staff
	r.POST("/tables/:table_id/waiter-request", tableCtrl.RequestWaiter)

	// ----------------------------------------------------------------
	//                    AUTHENTICATED CUSTOMER ROUTES
	// ----------------------------------------------------------------
	authed := r.Group("/")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.POST("/claims", claimCtrl.SubmitClaim)
		authed.GET("/claims", claimCtrl.GetClaimHistory)
		authed.GET("/balance", claimCtrl.GetBalance)
		authed.POST("/logout", userCtrl.Logout)
	}

	// ----------------------------------------------------------------
	//                      ADMIN / STAFF ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	// RESTAURANTS
	auth.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	auth.POST("/restaurants", restaurantCtrl.CreateRestaurant)
	auth.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	auth.PATCH("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)
	auth.DELETE("/restaurants/:restaurant_id", restaurantCtrl.DeleteRestaurant)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id/qr", tableCtrl.GetTableQR)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
	auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// MENU CATEGORIES
	auth.POST("/categories", categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	// MENUS
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.POST("/menus", menuCtrl.CreateMenu)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id", orderCtrl.UpdateOrderStatus)

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetAllNotifications)
	auth.POST("/notifications", notificationCtrl.CreateNotification)
	auth.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	auth.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	// Staff websocket
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", realtimeCtrl.Handler)
	}

	return r
}
