package service

import (
	"context"
	"errors"

	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductUnavailable = errors.New("product is not available")
	ErrInvalidSize        = errors.New("size not offered for this product")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

type CartService interface {
	GetCart(ctx context.Context, token string) (*model.Cart, error)
	AddToCart(ctx context.Context, token string, productID uint, size string, quantity int) (*model.Cart, error)
	UpdateQuantity(ctx context.Context, token string, productID uint, size string, quantity int) (*model.Cart, error)
	RemoveFromCart(ctx context.Context, token string, productID uint, size string) (*model.Cart, error)
	ClearCart(ctx context.Context, token string) (*model.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// persist writes the cart through to the session store. A failed write is
// logged and swallowed: the in-memory cart returned to the caller stays
// authoritative for the current request, and the next successful write
// catches the store up.
func (s *cartService) persist(ctx context.Context, token string, cart *model.Cart) {
	if err := s.cartRepo.Save(ctx, token, cart); err != nil {
		logger.Warn("Failed to persist cart, continuing with in-memory state", map[string]interface{}{
			"cart_token": token,
			"error":      err.Error(),
		})
	}
}

func (s *cartService) GetCart(ctx context.Context, token string) (*model.Cart, error) {
	cart, err := s.cartRepo.Load(ctx, token)
	if err != nil {
		logger.Error("Failed to load cart", err, map[string]interface{}{
			"cart_token": token,
		})
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddToCart(ctx context.Context, token string, productID uint, size string, quantity int) (*model.Cart, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Add to cart failed: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for cart", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	if !product.IsActive || product.SoldOut {
		logger.Warn("Add to cart failed: product unavailable", map[string]interface{}{
			"product_id": productID,
			"is_active":  product.IsActive,
			"sold_out":   product.SoldOut,
		})
		return nil, ErrProductUnavailable
	}

	if !product.HasSize(size) {
		logger.Warn("Add to cart failed: invalid size", map[string]interface{}{
			"product_id": productID,
			"size":       size,
		})
		return nil, ErrInvalidSize
	}

	cart, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		quantity = 1
	}

	requested := quantity
	if existing := cart.Find(model.CartLineKey(productID, size)); existing != nil {
		requested += existing.Quantity
	}
	if product.InventoryCount < requested {
		logger.Warn("Add to cart failed: insufficient stock", map[string]interface{}{
			"product_id": productID,
			"requested":  requested,
			"available":  product.InventoryCount,
		})
		return nil, ErrInsufficientStock
	}

	var image string
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	cart.AddLine(model.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     image,
		Category:  product.Category,
		Size:      size,
		Quantity:  quantity,
	})

	s.persist(ctx, token, cart)

	logger.Info("Item added to cart", map[string]interface{}{
		"cart_token": token,
		"product_id": productID,
		"size":       size,
		"quantity":   quantity,
		"item_count": cart.ItemCount(),
	})
	return cart, nil
}

// UpdateQuantity sets the quantity of an existing line. Zero and negative
// values remove the line. Updating a line that is not in the cart is a
// no-op rather than an error.
func (s *cartService) UpdateQuantity(ctx context.Context, token string, productID uint, size string, quantity int) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}

	key := model.CartLineKey(productID, size)
	if quantity > 0 {
		if line := cart.Find(key); line != nil {
			product, err := s.productRepo.FindByID(productID)
			if err == nil && product.InventoryCount < quantity {
				logger.Warn("Quantity update failed: insufficient stock", map[string]interface{}{
					"product_id": productID,
					"requested":  quantity,
					"available":  product.InventoryCount,
				})
				return nil, ErrInsufficientStock
			}
		}
	}
	cart.SetQuantity(key, quantity)

	s.persist(ctx, token, cart)

	logger.Debug("Cart quantity updated", map[string]interface{}{
		"cart_token": token,
		"product_id": productID,
		"size":       size,
		"quantity":   quantity,
	})
	return cart, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, token string, productID uint, size string) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}

	cart.RemoveLine(model.CartLineKey(productID, size))
	s.persist(ctx, token, cart)

	logger.Debug("Cart line removed", map[string]interface{}{
		"cart_token": token,
		"product_id": productID,
		"size":       size,
	})
	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, token string) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}

	cart.Clear()
	s.persist(ctx, token, cart)

	logger.Info("Cart cleared", map[string]interface{}{
		"cart_token": token,
	})
	return cart, nil
}
