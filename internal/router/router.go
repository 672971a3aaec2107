package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tuffwear/tuff-backend/config"
	"github.com/tuffwear/tuff-backend/internal/app/controller"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	productController   *controller.ProductController
	cartController      *controller.CartController
	orderController     *controller.OrderController
	couponController    *controller.CouponController
	customerController  *controller.CustomerController
	settingsController  *controller.SettingsController
	dashboardController *controller.DashboardController
	uploadController    *controller.UploadController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	couponController *controller.CouponController,
	customerController *controller.CustomerController,
	settingsController *controller.SettingsController,
	dashboardController *controller.DashboardController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		productController:   productController,
		cartController:      cartController,
		orderController:     orderController,
		couponController:    couponController,
		customerController:  customerController,
		settingsController:  settingsController,
		dashboardController: dashboardController,
		uploadController:    uploadController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "TUFF API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddToCart)
			cart.PUT("/items", r.cartController.UpdateLine)
			cart.DELETE("/items/:productID", r.cartController.RemoveLine)
			cart.DELETE("", r.cartController.ClearCart)
		}

		// Checkout works for guests; a valid token attaches the order to
		// the account.
		v1.POST("/checkout", r.authMiddleware.OptionalAuthenticate(), r.orderController.Checkout)

		orders := v1.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetMyOrder)
		}

		coupons := v1.Group("/coupons")
		{
			coupons.POST("/validate", r.couponController.ValidateCoupon)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("", r.settingsController.GetSettings)
			settings.GET("/:key", r.settingsController.GetSetting)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireAdmin(),
		)
		// Destructive operations are closed to staff.
		elevated := r.authMiddleware.RequireRole(model.RoleSuperAdmin, model.RoleManager)
		{
			admin.GET("/dashboard", r.dashboardController.GetStats)
			admin.GET("/dashboard/alerts", r.dashboardController.ListInventoryAlerts)

			adminProducts := admin.Group("/products")
			{
				adminProducts.GET("", r.productController.AdminListProducts)
				adminProducts.POST("", r.productController.CreateProduct)
				adminProducts.PUT("/:id", r.productController.UpdateProduct)
				adminProducts.DELETE("/:id", elevated, r.productController.DeleteProduct)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", r.orderController.AdminListOrders)
				adminOrders.GET("/export", r.orderController.ExportOrders)
				adminOrders.GET("/:id", r.orderController.AdminGetOrder)
				adminOrders.PUT("/:id/status", elevated, r.orderController.UpdateOrderStatus)
				adminOrders.PUT("/:id/payment", elevated, r.orderController.UpdatePaymentStatus)
			}

			adminCoupons := admin.Group("/coupons")
			{
				adminCoupons.GET("", r.couponController.AdminListCoupons)
				adminCoupons.POST("", r.couponController.CreateCoupon)
				adminCoupons.PUT("/:id", r.couponController.UpdateCoupon)
				adminCoupons.PUT("/:id/active", r.couponController.SetCouponActive)
				adminCoupons.DELETE("/:id", elevated, r.couponController.DeleteCoupon)
			}

			adminCustomers := admin.Group("/customers")
			{
				adminCustomers.GET("", r.customerController.ListCustomers)
				adminCustomers.GET("/:id", r.customerController.GetCustomer)
				adminCustomers.PUT("/:id/vip", r.customerController.SetVIP)
				adminCustomers.PUT("/:id/blocked", elevated, r.customerController.SetBlocked)
			}

			admin.PUT("/settings/:key", r.settingsController.UpdateSetting)
			admin.POST("/uploads/presign", r.uploadController.PresignUpload)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Cart-Token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Cart-Token, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
