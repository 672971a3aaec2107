package service

import (
	"errors"

	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSKUAlreadyExists = errors.New("sku already exists")
	ErrInvalidProduct   = errors.New("invalid product data")
)

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(id uint, updated *model.Product) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	alertRepo   repository.InventoryAlertRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	alertRepo repository.InventoryAlertRepository,
) ProductService {
	return &productService{
		productRepo: productRepo,
		alertRepo:   alertRepo,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"category": filter.Category,
			"search":   filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products listed", map[string]interface{}{
		"count":    len(products),
		"category": filter.Category,
	})
	return products, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	if product.Name == "" || product.SKU == "" || product.Price < 0 {
		return ErrInvalidProduct
	}

	existing, err := s.productRepo.FindBySKU(product.SKU)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing SKU", err, map[string]interface{}{
			"sku": product.SKU,
		})
		return err
	}
	if existing != nil {
		logger.Warn("Product creation failed: duplicate SKU", map[string]interface{}{
			"sku": product.SKU,
		})
		return ErrSKUAlreadyExists
	}

	product.SoldOut = product.InventoryCount <= 0

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
			"sku":  product.SKU,
		})
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	return nil
}

func (s *productService) UpdateProduct(id uint, updated *model.Product) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product update failed: not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for update", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	if updated.SKU != "" && updated.SKU != product.SKU {
		existing, err := s.productRepo.FindBySKU(updated.SKU)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrSKUAlreadyExists
		}
		product.SKU = updated.SKU
	}

	if updated.Name != "" {
		product.Name = updated.Name
	}
	product.Description = updated.Description
	if updated.Price >= 0 {
		product.Price = updated.Price
	}
	if updated.Category != "" {
		product.Category = updated.Category
	}
	product.Images = updated.Images
	product.Sizes = updated.Sizes
	product.Colors = updated.Colors
	product.InventoryCount = updated.InventoryCount
	product.IsActive = updated.IsActive
	product.IsNew = updated.IsNew
	product.SoldOut = product.InventoryCount <= 0

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	// Restocking clears any standing low-stock alert.
	if product.InventoryCount > 0 {
		if err := s.alertRepo.ResolveForProduct(product.ID); err != nil {
			logger.Warn("Failed to resolve inventory alerts after restock", map[string]interface{}{
				"product_id": product.ID,
				"error":      err.Error(),
			})
		}
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
		"inventory":  product.InventoryCount,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
