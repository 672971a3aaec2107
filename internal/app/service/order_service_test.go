package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuffwear/tuff-backend/config"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/internal/db"
	"gorm.io/gorm"
)

var testShopConfig = config.ShopConfig{
	FreeShippingThreshold: 50000,
	FlatShippingFee:       2500,
	CartTTL:               time.Hour,
	LowStockThreshold:     5,
}

type orderServiceFixture struct {
	orderService OrderService
	cartRepo     *memoryCartRepository
	couponRepo   repository.CouponRepository
	db           *gorm.DB
	user         *model.User
	hoodie       *model.Product
	cap          *model.Product
}

func testAddress() Address {
	return Address{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada@example.com",
		Phone:     "+2348012345678",
		Street:    "14 Broad Street",
		City:      "Lagos",
		State:     "Lagos",
	}
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		FullName:     "Test Shopper",
	}
	require.NoError(t, testDB.Create(user).Error)

	hoodie := &model.Product{
		Name:           "Oversized Hoodie",
		Price:          15000,
		SKU:            "TUFF-HD-001",
		Category:       "hoodies",
		Sizes:          pq.StringArray{"S", "M", "L"},
		InventoryCount: 10,
		IsActive:       true,
	}
	require.NoError(t, testDB.Create(hoodie).Error)

	cap := &model.Product{
		Name:           "Logo Cap",
		Price:          5000,
		SKU:            "TUFF-CP-001",
		Category:       "accessories",
		InventoryCount: 3,
		IsActive:       true,
	}
	require.NoError(t, testDB.Create(cap).Error)

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	couponRepo := repository.NewCouponRepository(testDB)
	cartRepo := newMemoryCartRepository()
	couponService := NewCouponService(couponRepo)
	orderService := NewOrderService(orderRepo, cartRepo, productRepo, couponRepo, couponService, testShopConfig, testDB)

	return &orderServiceFixture{
		orderService: orderService,
		cartRepo:     cartRepo,
		couponRepo:   couponRepo,
		db:           testDB,
		user:         user,
		hoodie:       hoodie,
		cap:          cap,
	}
}

func (f *orderServiceFixture) fillCart(t *testing.T, token string, lines ...model.CartLine) {
	cart := model.NewCart()
	for _, line := range lines {
		cart.AddLine(line)
	}
	require.NoError(t, f.cartRepo.Save(context.Background(), token, cart))
}

func (f *orderServiceFixture) checkoutInput() CheckoutInput {
	return CheckoutInput{
		UserID:          &f.user.ID,
		PaymentMethod:   "card",
		ShippingAddress: testAddress(),
	}
}

func TestOrderService_ShippingFee(t *testing.T) {
	f := setupOrderServiceTest(t)

	assert.Equal(t, float64(2500), f.orderService.ShippingFee(0))
	assert.Equal(t, float64(2500), f.orderService.ShippingFee(49999))
	// Exactly at the threshold still pays shipping.
	assert.Equal(t, float64(2500), f.orderService.ShippingFee(50000))
	assert.Equal(t, float64(0), f.orderService.ShippingFee(50001))
}

func TestOrderService_Checkout_Success(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.hoodie.ID, Name: f.hoodie.Name, Price: f.hoodie.Price, Size: "M", Quantity: 2},
		model.CartLine{ProductID: f.cap.ID, Name: f.cap.Name, Price: f.cap.Price, Quantity: 1},
	)

	order, err := f.orderService.Checkout(context.Background(), "tok", f.checkoutInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "TUFF-"))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "unpaid", order.PaymentStatus)
	assert.Equal(t, float64(35000), order.Subtotal)
	assert.Equal(t, float64(2500), order.ShippingFee)
	assert.Equal(t, float64(37500), order.TotalAmount)
	require.NotNil(t, order.UserID)
	assert.Equal(t, f.user.ID, *order.UserID)

	// Items are denormalized snapshots.
	require.Len(t, order.OrderItems, 2)
	assert.Equal(t, f.hoodie.SKU, order.OrderItems[0].ProductSKU)
	assert.Equal(t, "M", order.OrderItems[0].Size)
	assert.Equal(t, float64(15000), order.OrderItems[0].UnitPrice)

	// Stock was decremented.
	var hoodie model.Product
	require.NoError(t, f.db.First(&hoodie, f.hoodie.ID).Error)
	assert.Equal(t, 8, hoodie.InventoryCount)
	assert.False(t, hoodie.SoldOut)

	// The session cart is gone.
	cart, err := f.cartRepo.Load(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestOrderService_Checkout_BillsCartSnapshotPrice(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.hoodie.ID, Name: f.hoodie.Name, Price: f.hoodie.Price, Size: "M", Quantity: 2},
	)

	// Price rises after the line was added; the shopper pays what the cart
	// showed them.
	require.NoError(t, f.db.Model(&model.Product{}).
		Where("id = ?", f.hoodie.ID).
		Update("price", 20000).Error)

	order, err := f.orderService.Checkout(context.Background(), "tok", f.checkoutInput())
	require.NoError(t, err)

	assert.Equal(t, float64(30000), order.Subtotal)
	assert.Equal(t, float64(32500), order.TotalAmount)

	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, float64(15000), order.OrderItems[0].UnitPrice)

	var itemsTotal float64
	for _, item := range order.OrderItems {
		itemsTotal += item.UnitPrice * float64(item.Quantity)
	}
	assert.Equal(t, order.Subtotal, itemsTotal)
}

func TestOrderService_Checkout_OrderNumberCollisionRetries(t *testing.T) {
	f := setupOrderServiceTest(t)

	taken := "TUFF-20260831-AAAAAA"
	impl := f.orderService.(*orderService)
	impl.newOrderNumber = func() string { return taken }

	f.fillCart(t, "first",
		model.CartLine{ProductID: f.cap.ID, Name: f.cap.Name, Price: f.cap.Price, Quantity: 1},
	)
	_, err := f.orderService.Checkout(context.Background(), "first", f.checkoutInput())
	require.NoError(t, err)

	// The generator hands out the taken number twice before a fresh one.
	numbers := []string{taken, taken, "TUFF-20260831-BBBBBB"}
	impl.newOrderNumber = func() string {
		next := numbers[0]
		if len(numbers) > 1 {
			numbers = numbers[1:]
		}
		return next
	}

	f.fillCart(t, "second",
		model.CartLine{ProductID: f.cap.ID, Name: f.cap.Name, Price: f.cap.Price, Quantity: 1},
	)
	order, err := f.orderService.Checkout(context.Background(), "second", f.checkoutInput())
	require.NoError(t, err)
	assert.Equal(t, "TUFF-20260831-BBBBBB", order.OrderNumber)

	var count int64
	f.db.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestOrderService_Checkout_FreeShippingAboveThreshold(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.hoodie.ID, Name: f.hoodie.Name, Price: f.hoodie.Price, Size: "M", Quantity: 4},
	)

	order, err := f.orderService.Checkout(context.Background(), "tok", f.checkoutInput())
	require.NoError(t, err)

	assert.Equal(t, float64(60000), order.Subtotal)
	assert.Equal(t, float64(0), order.ShippingFee)
	assert.Equal(t, float64(60000), order.TotalAmount)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.orderService.Checkout(context.Background(), "tok", f.checkoutInput())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_Checkout_InsufficientStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.cap.ID, Name: f.cap.Name, Price: f.cap.Price, Quantity: 4},
	)

	_, err := f.orderService.Checkout(context.Background(), "tok", f.checkoutInput())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was committed.
	var count int64
	f.db.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var cap model.Product
	require.NoError(t, f.db.First(&cap, f.cap.ID).Error)
	assert.Equal(t, 3, cap.InventoryCount)

	// The cart survives a failed checkout.
	cart, err := f.cartRepo.Load(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestOrderService_Checkout_MarksSoldOut(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.cap.ID, Name: f.cap.Name, Price: f.cap.Price, Quantity: 3},
	)

	_, err := f.orderService.Checkout(context.Background(), "tok", f.checkoutInput())
	require.NoError(t, err)

	var cap model.Product
	require.NoError(t, f.db.First(&cap, f.cap.ID).Error)
	assert.Equal(t, 0, cap.InventoryCount)
	assert.True(t, cap.SoldOut)
}

func TestOrderService_Checkout_WithCoupon(t *testing.T) {
	f := setupOrderServiceTest(t)
	now := time.Now()
	coupon := &model.Coupon{
		Code:      "TUFF10",
		Type:      model.CouponTypePercentage,
		Value:     10,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}
	require.NoError(t, f.couponRepo.Create(coupon))

	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.hoodie.ID, Name: f.hoodie.Name, Price: f.hoodie.Price, Size: "M", Quantity: 2},
	)

	input := f.checkoutInput()
	input.CouponCode = "tuff10" // codes are case-insensitive
	order, err := f.orderService.Checkout(context.Background(), "tok", input)
	require.NoError(t, err)

	assert.Equal(t, float64(30000), order.Subtotal)
	assert.Equal(t, float64(3000), order.DiscountAmount)
	assert.Equal(t, float64(29500), order.TotalAmount)
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, "TUFF10", *order.CouponCode)

	// Redemption was recorded.
	updated, err := f.couponRepo.FindByID(coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.UsedCount)
}

func TestOrderService_Checkout_CouponBelowMinimum(t *testing.T) {
	f := setupOrderServiceTest(t)
	now := time.Now()
	require.NoError(t, f.couponRepo.Create(&model.Coupon{
		Code:        "BIGSPEND",
		Type:        model.CouponTypeFixed,
		Value:       5000,
		MinPurchase: 100000,
		StartDate:   now.Add(-time.Hour),
		EndDate:     now.Add(time.Hour),
		IsActive:    true,
	}))

	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.hoodie.ID, Name: f.hoodie.Name, Price: f.hoodie.Price, Size: "M", Quantity: 1},
	)

	input := f.checkoutInput()
	input.CouponCode = "BIGSPEND"
	_, err := f.orderService.Checkout(context.Background(), "tok", input)
	assert.ErrorIs(t, err, ErrCouponMinPurchase)
}

func TestOrderService_Checkout_GuestOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.cap.ID, Name: f.cap.Name, Price: f.cap.Price, Quantity: 1},
	)

	input := f.checkoutInput()
	input.UserID = nil
	order, err := f.orderService.Checkout(context.Background(), "tok", input)
	require.NoError(t, err)

	assert.Nil(t, order.UserID)
}

func TestOrderService_GetOrderByID_OwnershipEnforced(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.cap.ID, Name: f.cap.Name, Price: f.cap.Price, Quantity: 1},
	)

	order, err := f.orderService.Checkout(context.Background(), "tok", f.checkoutInput())
	require.NoError(t, err)

	found, err := f.orderService.GetOrderByID(f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)

	_, err = f.orderService.GetOrderByID(f.user.ID+1, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.fillCart(t, "tok",
		model.CartLine{ProductID: f.cap.ID, Name: f.cap.Name, Price: f.cap.Price, Quantity: 1},
	)
	order, err := f.orderService.Checkout(context.Background(), "tok", f.checkoutInput())
	require.NoError(t, err)

	require.NoError(t, f.orderService.UpdateOrderStatus(order.ID, model.OrderStatusShipped))

	updated, err := f.orderService.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)

	assert.ErrorIs(t, f.orderService.UpdateOrderStatus(order.ID, "teleported"), ErrInvalidOrderStatus)
	assert.ErrorIs(t, f.orderService.UpdateOrderStatus(9999, model.OrderStatusShipped), ErrOrderNotFound)
}
