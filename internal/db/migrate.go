package db

import (
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.UserRole{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Coupon{},
		&model.InventoryAlert{},
		&model.SiteSetting{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	logger.Info("Seeding initial data...")

	if err := seedSiteSettings(); err != nil {
		logger.Error("Failed to seed site settings", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedSiteSettings creates the settings rows the storefront expects so the
// back office settings screen always has something to edit.
func seedSiteSettings() error {
	defaults := []model.SiteSetting{
		{Key: "store_name", Value: `"TUFF"`},
		{Key: "hero_tagline", Value: `"Tuff and show the world your style"`},
		{Key: "contact_email", Value: `"hello@tuff.shop"`},
		{Key: "social_links", Value: `{"instagram":"","twitter":""}`},
	}

	for _, setting := range defaults {
		var count int64
		if err := DB.Model(&model.SiteSetting{}).
			Where("key = ?", setting.Key).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&setting).Error; err != nil {
			return err
		}
	}

	return nil
}
