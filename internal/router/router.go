// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/cache"
	"github.com/soukhub/marketplace-backend/internal/config"
	"github.com/soukhub/marketplace-backend/internal/events"
	"github.com/soukhub/marketplace-backend/internal/handlers"
	"github.com/soukhub/marketplace-backend/internal/middleware"
	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/services"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, cacheClient *cache.Cache, publisher *events.Publisher) *gin.Engine {
	// Services
	notificationService := services.NewNotificationService(cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg, notificationService)
	userService := services.NewUserService(db)
	cartService := services.NewCartService(db, cacheClient)
	couponService := services.NewCouponService(db)
	orderService := services.NewOrderService(db, cfg, cacheClient, publisher, notificationService)
	productService := services.NewProductService(db)
	sellerService := services.NewSellerService(db)
	reviewService := services.NewReviewService(db)
	adminService := services.NewAdminService(db, notificationService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storageService)
	cartHandler := handlers.NewCartHandler(cartService, couponService)
	orderHandler := handlers.NewOrderHandler(orderService)
	productHandler := handlers.NewProductHandler(productService, reviewService, storageService)
	sellerHandler := handlers.NewSellerHandler(sellerService, reviewService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	courierHandler := handlers.NewCourierHandler(orderService)
	adminHandler := handlers.NewAdminHandler(adminService, authService, couponService)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/v1")
	{
		// Authentication
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Account
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/password", userHandler.ChangePassword)
			users.POST("/avatar", middleware.UploadRateLimit(), userHandler.UploadAvatar)
		}

		// Storefront browsing (public)
		sellers := v1.Group("/sellers")
		{
			sellers.GET("", sellerHandler.Browse)
			sellers.GET("/:id", sellerHandler.Get)
			sellers.GET("/:id/reviews", sellerHandler.Reviews)

			clientOnly := sellers.Group("")
			clientOnly.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserTypeClient))
			{
				clientOnly.POST("/:id/favourite", sellerHandler.ToggleFavourite)
				clientOnly.POST("/:id/reviews", reviewHandler.ReviewSeller)
			}
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.Browse)
			products.GET("/:id", productHandler.Get)
			products.GET("/:id/reviews", productHandler.Reviews)

			clientOnly := products.Group("")
			clientOnly.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserTypeClient))
			{
				clientOnly.POST("/:id/reviews", reviewHandler.ReviewProduct)
				clientOnly.DELETE("/:id/reviews", reviewHandler.DeleteProductReview)
			}
		}

		// Client shopping
		client := v1.Group("")
		client.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserTypeClient))
		{
			client.GET("/cart", cartHandler.List)
			client.GET("/cart/count", cartHandler.Count)
			client.POST("/cart/items", cartHandler.AddItem)
			client.PUT("/cart/items/:id", cartHandler.UpdateItem)
			client.DELETE("/cart/items/:id", cartHandler.RemoveItem)
			client.DELETE("/cart", cartHandler.Clear)
			client.POST("/cart/coupon/validate", cartHandler.ValidateCoupon)

			client.POST("/orders/checkout", orderHandler.Checkout)
			client.GET("/orders", orderHandler.History)
			client.GET("/favourites", sellerHandler.ListFavourites)
		}

		// Order reads and cancellation (participant-checked in the handler)
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.Cancel)
		}

		// Seller back office
		seller := v1.Group("/seller")
		seller.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserTypeSeller))
		{
			seller.GET("/products", productHandler.SellerProducts)
			seller.POST("/products", productHandler.Create)
			seller.PUT("/products/:id", productHandler.Update)
			seller.DELETE("/products/:id", productHandler.Delete)
			seller.POST("/products/:id/restock", productHandler.Restock)
			seller.POST("/products/images", middleware.UploadRateLimit(), productHandler.UploadImage)

			seller.GET("/orders", orderHandler.SellerOrders)
			seller.PUT("/profile", sellerHandler.UpdateProfile)
			seller.GET("/stats", sellerHandler.Stats)
		}

		// Courier operations
		courier := v1.Group("/courier")
		courier.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserTypeCourier))
		{
			courier.GET("/orders/pending", courierHandler.PendingOrders)
			courier.GET("/orders", courierHandler.ActiveOrders)
			courier.GET("/orders/history", courierHandler.History)
			courier.POST("/orders/:id/advance", courierHandler.AdvanceStatus)
			courier.GET("/stats", courierHandler.Stats)
		}

		// Administration
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)

			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.RegisterStaff)
			admin.POST("/users/:id/toggle-suspend", adminHandler.ToggleSuspend)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.DELETE("/orders/:id", adminHandler.DeleteOrder)

			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
			admin.POST("/coupons/:id/toggle", adminHandler.ToggleCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)
		}
	}

	// Static file serving for locally stored uploads
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
