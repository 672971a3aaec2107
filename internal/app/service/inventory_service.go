package service

import (
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/pkg/logger"
)

type InventoryService interface {
	Sweep() error
	ListAlerts() ([]model.InventoryAlert, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	alertRepo   repository.InventoryAlertRepository
	threshold   int
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	alertRepo repository.InventoryAlertRepository,
	threshold int,
) InventoryService {
	return &inventoryService{
		productRepo: productRepo,
		alertRepo:   alertRepo,
		threshold:   threshold,
	}
}

// Sweep raises an alert for each product whose stock has dropped below the
// threshold, and resolves alerts for products that have recovered. At most
// one unresolved alert exists per product.
func (s *inventoryService) Sweep() error {
	low, err := s.productRepo.FindBelowStock(s.threshold)
	if err != nil {
		logger.Error("Inventory sweep failed to list low stock products", err, nil)
		return err
	}

	var raised int
	for _, product := range low {
		exists, err := s.alertRepo.HasUnresolvedForProduct(product.ID)
		if err != nil {
			logger.Error("Failed to check existing alert", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return err
		}
		if exists {
			continue
		}
		alert := &model.InventoryAlert{
			ProductID: product.ID,
			Threshold: s.threshold,
		}
		if err := s.alertRepo.Create(alert); err != nil {
			logger.Error("Failed to create inventory alert", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return err
		}
		raised++
		logger.Warn("Low stock alert raised", map[string]interface{}{
			"product_id": product.ID,
			"sku":        product.SKU,
			"inventory":  product.InventoryCount,
			"threshold":  s.threshold,
		})
	}

	unresolved, err := s.alertRepo.FindUnresolved()
	if err != nil {
		logger.Error("Inventory sweep failed to list alerts", err, nil)
		return err
	}

	var resolved int
	for _, alert := range unresolved {
		if alert.Product.ID == 0 || alert.Product.InventoryCount < s.threshold {
			continue
		}
		if err := s.alertRepo.ResolveForProduct(alert.ProductID); err != nil {
			logger.Error("Failed to resolve inventory alert", err, map[string]interface{}{
				"product_id": alert.ProductID,
			})
			return err
		}
		resolved++
	}

	logger.Info("Inventory sweep completed", map[string]interface{}{
		"low_stock": len(low),
		"raised":    raised,
		"resolved":  resolved,
	})
	return nil
}

func (s *inventoryService) ListAlerts() ([]model.InventoryAlert, error) {
	alerts, err := s.alertRepo.FindUnresolved()
	if err != nil {
		logger.Error("Failed to list inventory alerts", err, nil)
		return nil, err
	}
	return alerts, nil
}
