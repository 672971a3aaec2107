package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuffwear/tuff-backend/config"
	"github.com/tuffwear/tuff-backend/internal/app/controller"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/internal/app/service"
	"github.com/tuffwear/tuff-backend/internal/db"
	"github.com/tuffwear/tuff-backend/internal/middleware"
	"github.com/tuffwear/tuff-backend/internal/router"
	"github.com/tuffwear/tuff-backend/internal/scheduler"
	"github.com/tuffwear/tuff-backend/internal/storage"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"github.com/tuffwear/tuff-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting TUFF Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed default site settings
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize session store
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to connect to redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	couponRepo := repository.NewCouponRepository(db.GetDB())
	alertRepo := repository.NewInventoryAlertRepository(db.GetDB())
	settingRepo := repository.NewSiteSettingRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(redis.GetClient(), cfg.Shop.CartTTL)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo, alertRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	couponService := service.NewCouponService(couponRepo)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		productRepo,
		couponRepo,
		couponService,
		cfg.Shop,
		db.GetDB(),
	)
	customerService := service.NewCustomerService(userRepo)
	settingsService := service.NewSettingsService(settingRepo)
	dashboardService := service.NewDashboardService(orderRepo, productRepo, userRepo, alertRepo)
	inventoryService := service.NewInventoryService(productRepo, alertRepo, cfg.Shop.LowStockThreshold)

	// Initialize controllers
	s3Storage := storage.NewS3Storage(&cfg.S3)
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService, orderService)
	orderController := controller.NewOrderController(orderService)
	couponController := controller.NewCouponController(couponService)
	customerController := controller.NewCustomerController(customerService)
	settingsController := controller.NewSettingsController(settingsService)
	dashboardController := controller.NewDashboardController(dashboardService, inventoryService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start low stock sweeps
	inventoryScheduler := scheduler.NewInventoryScheduler(inventoryService)
	if err := inventoryScheduler.Start(); err != nil {
		logger.Fatal("Failed to start inventory scheduler", err)
	}
	defer inventoryScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		couponController,
		customerController,
		settingsController,
		dashboardController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
