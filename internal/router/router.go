// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cellcare/pos-backend/internal/config"
	"github.com/cellcare/pos-backend/internal/handlers"
	"github.com/cellcare/pos-backend/internal/middleware"
	"github.com/cellcare/pos-backend/internal/models"
	"github.com/cellcare/pos-backend/internal/services"
	"github.com/cellcare/pos-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services. The stock guard is shared by every service that
	// mutates stock so all deductions serialize on the same locks.
	stockGuard := services.NewStockGuard()
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage service")
	}

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db, stockGuard)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db, stockGuard, cartService)
	saleService := services.NewSaleService(db, stockGuard, cfg.Store)
	reportService := services.NewReportService(db)
	categoryService := services.NewCategoryService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	saleHandler := handlers.NewSaleHandler(saleService)
	reportHandler := handlers.NewReportHandler(reportService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Product routes (store staff)
		products := v1.Group("/products")
		products.Use(middleware.AuthRequired())
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/available", productHandler.GetAvailableProducts)
			products.GET("/:id", productHandler.GetProduct)

			staff := products.Group("")
			staff.Use(middleware.RoleRequired(models.UserRoleCashier))
			{
				staff.POST("", productHandler.CreateProduct)
				staff.PUT("/:id", productHandler.UpdateProduct)
				staff.DELETE("/:id", productHandler.DeleteProduct)
				staff.POST("/:id/adjust-stock", productHandler.AdjustStock)
				staff.POST("/upload-images", middleware.UploadRateLimit(), productHandler.UploadImages)
			}
		}

		// Cart routes (customers)
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserRoleCustomer))
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddToCart)
			cart.PUT("/items/:productId", cartHandler.UpdateCartItem)
			cart.DELETE("/items/:productId", cartHandler.RemoveFromCart)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", middleware.RoleRequired(models.UserRoleCustomer), middleware.CheckoutRateLimit(), orderHandler.CreateOrder)
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", middleware.AdminRequired(), orderHandler.UpdateOrderStatus)
		}

		// Sale routes (counter sales, store staff only)
		sales := v1.Group("/sales")
		sales.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserRoleCashier))
		{
			sales.POST("", middleware.CheckoutRateLimit(), saleHandler.CreateSale)
			sales.GET("", saleHandler.GetSales)
			sales.GET("/:id", saleHandler.GetSale)
			sales.GET("/:id/receipt", saleHandler.GetReceipt)
			sales.GET("/:id/receipt/print", saleHandler.PrintReceipt)
		}

		// Report routes (store staff)
		reports := v1.Group("/reports")
		reports.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserRoleCashier))
		{
			reports.GET("/overview", reportHandler.GetOverview)
			reports.GET("/daily", reportHandler.GetDailyReport)
			reports.GET("/monthly", reportHandler.GetMonthlyReport)
			reports.GET("/products", reportHandler.GetProductReport)
			reports.GET("/range", reportHandler.GetSalesByDateRange)
			reports.GET("/inventory-analysis", reportHandler.GetInventoryAnalysis)
			reports.GET("/analytics", reportHandler.GetAnalytics)
		}

		// Category routes (store staff)
		categories := v1.Group("/categories")
		categories.Use(middleware.AuthRequired())
		{
			categories.GET("", categoryHandler.GetCategoryTree)

			staff := categories.Group("")
			staff.Use(middleware.RoleRequired(models.UserRoleCashier))
			{
				staff.POST("", categoryHandler.CreateCategory)
				staff.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
