package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dineqr/table-order/controllers"
	"github.com/dineqr/table-order/middlewares"
	"github.com/dineqr/table-order/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Attached before any route registers so it applies everywhere.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	cartSvc := services.NewCartService(db)
	orderSvc := services.NewOrderService(db, cartSvc)
	services.RegisterFeed(orderSvc)

	userCtrl := controllers.NewUserController(db)
	menuCtrl := controllers.NewMenuController(db)
	tableCtrl := controllers.NewTableController(db)
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES (diners)
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Catalog
	r.GET("/categories", menuCtrl.GetCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/by-category", menuCtrl.GetMenusByCategory)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)

	// Cart and orders, scoped by the viewer identity headers
	customer := r.Group("/")
	customer.Use(middlewares.IdentityMiddleware())
	{
		customer.GET("/cart", cartCtrl.GetCart)
		customer.POST("/cart/lines", cartCtrl.AddCartLine)
		customer.PATCH("/cart/lines/:line_id", cartCtrl.UpdateCartLine)
		customer.DELETE("/cart/lines/:line_id", cartCtrl.RemoveCartLine)
		customer.DELETE("/cart", cartCtrl.ClearCart)

		customer.POST("/orders", orderCtrl.SubmitOrder)
		customer.GET("/orders", orderCtrl.GetMyOrders)
		customer.GET("/orders/:order_id", orderCtrl.GetOrderByID)

		// Live feed: snapshots pushed on every order change
		customer.GET("/ws/orders", controllers.CustomerFeedHandler)
	}

	// Printed on the physical tables
	r.GET("/tables/:table_id/qr", tableCtrl.GetTableQR)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/admin")
	staff.Use(middlewares.AuthMiddleware())
	staff.Use(middlewares.RequireRoles("admin", "staff"))
	{
		staff.GET("/profile", userCtrl.GetProfile)

		staff.GET("/orders", orderCtrl.GetAllOrders)
		staff.GET("/orders/stats", orderCtrl.GetOrderStats)
		staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		staff.POST("/orders/:order_id/preparing", orderCtrl.MarkPreparing)
		staff.POST("/orders/:order_id/complete", orderCtrl.MarkCompleted)
		staff.POST("/orders/:order_id/pay", orderCtrl.MarkPaid)

		staff.GET("/tables", tableCtrl.GetAllTables)
		staff.POST("/tables", tableCtrl.CreateTable)
		staff.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		staff.POST("/menus", menuCtrl.CreateMenu)
		staff.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		staff.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		staff.GET("/ws/orders", controllers.StaffFeedHandler)
	}

	return r
}
