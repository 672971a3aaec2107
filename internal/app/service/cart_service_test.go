package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/internal/db"
	"gorm.io/gorm"
)

// memoryCartRepository stands in for the redis-backed store. Save round
// trips through JSON so the stored cart is a snapshot, matching the real
// repository's whole-value writes.
type memoryCartRepository struct {
	carts    map[string][]byte
	failSave bool
	saves    int
}

func newMemoryCartRepository() *memoryCartRepository {
	return &memoryCartRepository{carts: map[string][]byte{}}
}

func (r *memoryCartRepository) Load(_ context.Context, token string) (*model.Cart, error) {
	payload, ok := r.carts[token]
	if !ok {
		return model.NewCart(), nil
	}
	var cart model.Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *memoryCartRepository) Save(_ context.Context, token string, cart *model.Cart) error {
	if r.failSave {
		return errors.New("store unavailable")
	}
	cart.Version = model.CartPayloadVersion
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	r.carts[token] = payload
	r.saves++
	return nil
}

func (r *memoryCartRepository) Delete(_ context.Context, token string) error {
	delete(r.carts, token)
	return nil
}

func setupCartServiceTest(t *testing.T) (CartService, *memoryCartRepository, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	product := &model.Product{
		Name:           "Oversized Hoodie",
		Price:          15000,
		SKU:            "TUFF-HD-001",
		Category:       "hoodies",
		Sizes:          pq.StringArray{"S", "M", "L"},
		InventoryCount: 10,
		IsActive:       true,
	}
	require.NoError(t, testDB.Create(product).Error)

	cartRepo := newMemoryCartRepository()
	productRepo := repository.NewProductRepository(testDB)
	return NewCartService(cartRepo, productRepo), cartRepo, product, testDB
}

func TestCartService_AddToCart_Success(t *testing.T) {
	cartService, cartRepo, product, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cart, err := cartService.AddToCart(ctx, "tok", product.ID, "M", 2)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, product.Name, cart.Lines[0].Name)
	assert.Equal(t, product.Price, cart.Lines[0].Price)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 1, cartRepo.saves)

	// Same size merges.
	cart, err = cartService.AddToCart(ctx, "tok", product.ID, "M", 1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	// Different size is a new line.
	cart, err = cartService.AddToCart(ctx, "tok", product.ID, "L", 1)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, _, _, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(context.Background(), "tok", 9999, "M", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_InactiveProduct(t *testing.T) {
	cartService, _, product, testDB := setupCartServiceTest(t)
	require.NoError(t, testDB.Model(product).Update("is_active", false).Error)

	_, err := cartService.AddToCart(context.Background(), "tok", product.ID, "M", 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartService_AddToCart_InvalidSize(t *testing.T) {
	cartService, _, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(context.Background(), "tok", product.ID, "XXL", 1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	// A sized product rejects the empty size too.
	_, err = cartService.AddToCart(context.Background(), "tok", product.ID, "", 1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestCartService_AddToCart_InsufficientStock(t *testing.T) {
	cartService, _, product, _ := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(ctx, "tok", product.ID, "M", 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The cap counts what is already in the cart.
	_, err = cartService.AddToCart(ctx, "tok", product.ID, "M", 6)
	require.NoError(t, err)
	_, err = cartService.AddToCart(ctx, "tok", product.ID, "M", 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddToCart_PersistFailureIsSwallowed(t *testing.T) {
	cartService, cartRepo, product, _ := setupCartServiceTest(t)
	cartRepo.failSave = true

	cart, err := cartService.AddToCart(context.Background(), "tok", product.ID, "M", 2)
	require.NoError(t, err)

	// The returned in-memory cart is intact even though nothing was
	// stored.
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Empty(t, cartRepo.carts)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	cartService, _, product, _ := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(ctx, "tok", product.ID, "M", 2)
	require.NoError(t, err)

	cart, err := cartService.UpdateQuantity(ctx, "tok", product.ID, "M", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Lines[0].Quantity)

	// Zero removes the line.
	cart, err = cartService.UpdateQuantity(ctx, "tok", product.ID, "M", 0)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	// Updating an absent line is a no-op.
	cart, err = cartService.UpdateQuantity(ctx, "tok", product.ID, "M", 3)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_UpdateQuantity_RespectsStock(t *testing.T) {
	cartService, _, product, _ := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(ctx, "tok", product.ID, "M", 2)
	require.NoError(t, err)

	_, err = cartService.UpdateQuantity(ctx, "tok", product.ID, "M", 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	cartService, _, product, _ := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(ctx, "tok", product.ID, "M", 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(ctx, "tok", product.ID, "L", 1)
	require.NoError(t, err)

	cart, err := cartService.RemoveFromCart(ctx, "tok", product.ID, "M")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "L", cart.Lines[0].Size)

	cart, err = cartService.ClearCart(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	// The cleared state was persisted.
	cart, err = cartService.GetCart(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_GetCart_UnknownTokenIsEmpty(t *testing.T) {
	cartService, _, _, _ := setupCartServiceTest(t)

	cart, err := cartService.GetCart(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, model.CartPayloadVersion, cart.Version)
}
