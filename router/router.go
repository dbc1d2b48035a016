package router

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/controllers"
	"github.com/yeremiapane/resto-pos/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// File gambar menu yang diupload
	r.Static("/uploads", filepath.Join("public", "uploads"))

	// Hanya izinkan akses file gambar di direktori uploads
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			lower := strings.ToLower(c.Request.URL.Path)
			if !strings.HasSuffix(lower, ".jpg") &&
				!strings.HasSuffix(lower, ".jpeg") &&
				!strings.HasSuffix(lower, ".png") &&
				!strings.HasSuffix(lower, ".webp") {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		c.Next()
	})

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	materialCtrl := controllers.NewMaterialController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	adminCtrl := controllers.NewAdminController(db)
	uploadCtrl := controllers.NewUploadController()

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Katalog untuk halaman pemesanan (tanpa auth)
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus/available", menuCtrl.GetAvailableMenus)
	r.GET("/menus/:menu_id/availability", menuCtrl.CheckAvailability)

	// Cek status order dari tiket
	r.GET("/orders/:order_id/status", orderCtrl.GetOrderStatus)
	r.GET("/orders/:order_id/qr", orderCtrl.GetOrderQR)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := r.Group("/")
	authed.Use(middlewares.AuthMiddleware())

	authed.GET("/profile", userCtrl.GetProfile)

	// CUSTOMER
	customer := authed.Group("/")
	customer.Use(middlewares.RequireRole("customer"))
	{
		customer.POST("/orders/customer", orderCtrl.CreateCustomerOrder)
		customer.GET("/orders/my-orders", orderCtrl.GetMyOrders)
	}

	// CASHIER
	cashier := authed.Group("/")
	cashier.Use(middlewares.RequireRole("cashier"))
	{
		cashier.POST("/orders/cashier", orderCtrl.CreateCashierOrder)
		cashier.POST("/orders/:order_id/process", orderCtrl.ProcessOrder)
		cashier.GET("/orders/pending", orderCtrl.GetPendingOrders)
		cashier.GET("/orders/history", orderCtrl.GetOrderHistory)
	}

	// ADMIN
	admin := authed.Group("/admin")
	admin.Use(middlewares.RequireRole("admin"))
	{
		admin.GET("/users", userCtrl.GetAllUsers)

		// MATERIALS
		admin.GET("/materials", materialCtrl.GetAllMaterials)
		admin.POST("/materials", materialCtrl.CreateMaterial)
		admin.GET("/materials/low-stock", materialCtrl.GetLowStockMaterials)
		admin.GET("/materials/:material_id", materialCtrl.GetMaterialByID)
		admin.PUT("/materials/:material_id", materialCtrl.UpdateMaterial)
		admin.DELETE("/materials/:material_id", materialCtrl.DeleteMaterial)
		admin.POST("/materials/:material_id/restock", materialCtrl.RestockMaterial)
		admin.GET("/materials/:material_id/history", materialCtrl.GetMaterialHistory)

		// CATEGORIES
		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
		admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		// MENUS
		admin.GET("/menus", menuCtrl.GetAllMenus)
		admin.POST("/menus", menuCtrl.CreateMenu)
		admin.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
		admin.PUT("/menus/:menu_id", menuCtrl.UpdateMenu)
		admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		// DASHBOARD & REPORTS
		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
		admin.GET("/reports/sales", adminCtrl.GetSalesReport)
		admin.GET("/reports/export", adminCtrl.ExportData)
		admin.GET("/reports/export-pdf", adminCtrl.ExportPDF)

		// UPLOAD
		admin.POST("/upload", uploadCtrl.UploadImage)
	}

	// WebSocket untuk antrian kasir / dashboard admin
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.EventsHandler)
	}

	return r
}
