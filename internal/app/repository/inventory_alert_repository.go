package repository

import (
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
)

type InventoryAlertRepository interface {
	Create(alert *model.InventoryAlert) error
	FindUnresolved() ([]model.InventoryAlert, error)
	HasUnresolvedForProduct(productID uint) (bool, error)
	CountUnresolved() (int64, error)
	ResolveForProduct(productID uint) error
}

type inventoryAlertRepository struct {
	db *gorm.DB
}

func NewInventoryAlertRepository(db *gorm.DB) InventoryAlertRepository {
	return &inventoryAlertRepository{db: db}
}

func (r *inventoryAlertRepository) Create(alert *model.InventoryAlert) error {
	if err := r.db.Create(alert).Error; err != nil {
		logger.Error("Failed to create inventory alert", err, map[string]interface{}{
			"product_id": alert.ProductID,
		})
		return err
	}
	return nil
}

func (r *inventoryAlertRepository) FindUnresolved() ([]model.InventoryAlert, error) {
	var alerts []model.InventoryAlert
	err := r.db.Where("is_resolved = ?", false).
		Preload("Product").
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		logger.Error("Failed to list unresolved inventory alerts", err, nil)
		return nil, err
	}
	return alerts, nil
}

func (r *inventoryAlertRepository) HasUnresolvedForProduct(productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.InventoryAlert{}).
		Where("product_id = ? AND is_resolved = ?", productID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *inventoryAlertRepository) CountUnresolved() (int64, error) {
	var count int64
	err := r.db.Model(&model.InventoryAlert{}).
		Where("is_resolved = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *inventoryAlertRepository) ResolveForProduct(productID uint) error {
	err := r.db.Model(&model.InventoryAlert{}).
		Where("product_id = ? AND is_resolved = ?", productID, false).
		Update("is_resolved", true).Error
	if err != nil {
		logger.Error("Failed to resolve inventory alerts", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	return nil
}
