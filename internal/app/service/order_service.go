package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tuffwear/tuff-backend/config"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"github.com/tuffwear/tuff-backend/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrMissingAddress     = errors.New("shipping address is required")
)

// Address is a checkout address. It is stored on the order as a JSON
// document so historical orders survive address format changes.
type Address struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CheckoutInput carries everything needed to turn a session cart into an
// order. UserID is nil for guest checkout.
type CheckoutInput struct {
	UserID          *uint
	PaymentMethod   string
	CouponCode      string
	Notes           string
	ShippingAddress Address
	BillingAddress  *Address // nil means same as shipping
}

type OrderService interface {
	Checkout(ctx context.Context, cartToken string, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	ListOrders(limit, offset int) ([]model.Order, int64, error)
	GetOrder(orderID uint) (*model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
	UpdatePaymentStatus(orderID uint, paymentStatus string) error
	ShippingFee(subtotal float64) float64
}

type orderService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	productRepo   repository.ProductRepository
	couponRepo    repository.CouponRepository
	couponService CouponService
	shop          config.ShopConfig
	db            *gorm.DB

	// overridable so collision handling is testable
	newOrderNumber func() string
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	couponService CouponService,
	shop config.ShopConfig,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		couponRepo:    couponRepo,
		couponService: couponService,
		shop:          shop,
		db:            db,

		newOrderNumber: util.GenerateOrderNumber,
	}
}

// ShippingFee returns 0 when the subtotal strictly exceeds the free
// shipping threshold, otherwise the flat fee. A subtotal exactly at the
// threshold still pays shipping.
func (s *orderService) ShippingFee(subtotal float64) float64 {
	if subtotal > s.shop.FreeShippingThreshold {
		return 0
	}
	return s.shop.FlatShippingFee
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func (s *orderService) Checkout(ctx context.Context, cartToken string, input CheckoutInput) (*model.Order, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"cart_token":  cartToken,
		"user_id":     input.UserID,
		"coupon_code": input.CouponCode,
	})

	if input.ShippingAddress.Street == "" || input.ShippingAddress.City == "" {
		return nil, ErrMissingAddress
	}

	cart, err := s.cartRepo.Load(ctx, cartToken)
	if err != nil {
		logger.Error("Failed to load cart for checkout", err, map[string]interface{}{
			"cart_token": cartToken,
		})
		return nil, err
	}
	if cart.IsEmpty() {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"cart_token": cartToken,
		})
		return nil, ErrEmptyCart
	}

	subtotal := cart.TotalPrice()
	shippingFee := s.ShippingFee(subtotal)

	var (
		coupon   *model.Coupon
		discount float64
	)
	if input.CouponCode != "" {
		coupon, discount, err = s.couponService.Validate(input.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}
	totalAmount := subtotal - discount + shippingFee

	shippingJSON, err := json.Marshal(input.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billing := input.BillingAddress
	if billing == nil {
		billing = &input.ShippingAddress
	}
	billingJSON, err := json.Marshal(billing)
	if err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during checkout, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"cart_token": cartToken,
			})
		}
	}()

	orderItems := make([]model.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, line.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product disappeared before checkout", map[string]interface{}{
					"cart_token": cartToken,
					"product_id": line.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product during checkout", err, map[string]interface{}{
				"product_id": line.ProductID,
			})
			return nil, err
		}

		if !product.IsActive {
			tx.Rollback()
			logger.Warn("Checkout failed: product no longer active", map[string]interface{}{
				"cart_token": cartToken,
				"product_id": product.ID,
			})
			return nil, ErrProductUnavailable
		}

		if product.InventoryCount < line.Quantity {
			tx.Rollback()
			logger.Warn("Checkout failed: insufficient stock", map[string]interface{}{
				"cart_token": cartToken,
				"product_id": product.ID,
				"requested":  line.Quantity,
				"available":  product.InventoryCount,
			})
			return nil, ErrInsufficientStock
		}

		// Billed at the price captured when the line was added; item
		// snapshots must sum to the order subtotal.
		productID := product.ID
		orderItems = append(orderItems, model.OrderItem{
			ProductID:   &productID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   line.Price,
		})

		updates := map[string]interface{}{
			"inventory_count": gorm.Expr("inventory_count - ?", line.Quantity),
		}
		if product.InventoryCount-line.Quantity <= 0 {
			updates["sold_out"] = true
		}
		if err := tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Updates(updates).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement stock", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return nil, err
		}
	}

	if coupon != nil {
		if err := s.couponRepo.IncrementUsage(tx, coupon.ID); err != nil {
			tx.Rollback()
			logger.Error("Failed to record coupon usage", err, map[string]interface{}{
				"coupon_id": coupon.ID,
			})
			return nil, err
		}
	}

	order := &model.Order{
		UserID:          input.UserID,
		Status:          model.OrderStatusPending,
		PaymentStatus:   "unpaid",
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        subtotal,
		ShippingFee:     shippingFee,
		DiscountAmount:  discount,
		TotalAmount:     totalAmount,
		ShippingAddress: string(shippingJSON),
		BillingAddress:  string(billingJSON),
		Notes:           input.Notes,
		OrderItems:      orderItems,
	}
	if coupon != nil {
		code := coupon.Code
		order.CouponCode = &code
	}

	// Order numbers are random; retry a few times on the rare collision.
	// The insert runs under a savepoint because postgres aborts the whole
	// transaction on a failed statement.
	for attempt := 0; ; attempt++ {
		order.OrderNumber = s.newOrderNumber()
		if err = tx.SavePoint("order_insert").Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to set savepoint", err, map[string]interface{}{
				"cart_token": cartToken,
			})
			return nil, err
		}
		err = tx.Create(order).Error
		if err == nil {
			break
		}
		if isDuplicateKeyError(err) && attempt < 3 {
			if err := tx.RollbackTo("order_insert").Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			logger.Warn("Order number collision, retrying", map[string]interface{}{
				"order_number": order.OrderNumber,
				"attempt":      attempt + 1,
			})
			continue
		}
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"cart_token":   cartToken,
			"total_amount": totalAmount,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit checkout transaction", err, map[string]interface{}{
			"cart_token": cartToken,
		})
		return nil, err
	}

	// The cart is only cleared once the order is durable. A failed delete
	// leaves a stale cart behind; the TTL reaps it.
	if err := s.cartRepo.Delete(ctx, cartToken); err != nil {
		logger.Warn("Failed to clear cart after checkout", map[string]interface{}{
			"cart_token": cartToken,
			"order_id":   order.ID,
			"error":      err.Error(),
		})
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"subtotal":     subtotal,
		"shipping_fee": shippingFee,
		"discount":     discount,
		"total_amount": totalAmount,
		"item_count":   len(orderItems),
	})

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID == nil || *order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(limit, offset int) ([]model.Order, int64, error) {
	orders, err := s.orderRepo.FindAll(limit, offset)
	if err != nil {
		logger.Error("Failed to list orders", err, nil)
		return nil, 0, err
	}
	total, err := s.orderRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *orderService) GetOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	if !model.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id":   orderID,
			"new_status": status,
		})
		return err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return nil
}

func (s *orderService) UpdatePaymentStatus(orderID uint, paymentStatus string) error {
	if err := s.orderRepo.UpdatePaymentStatus(orderID, paymentStatus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		logger.Error("Failed to update payment status", err, map[string]interface{}{
			"order_id":   orderID,
			"new_status": paymentStatus,
		})
		return err
	}

	logger.Info("Payment status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   paymentStatus,
	})
	return nil
}
