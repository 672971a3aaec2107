package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/pkg/logger"
)

// CartRepository persists session carts keyed by the opaque cart token the
// storefront carries. Carts are whole-value writes: the last writer for a
// token wins, there is no cross-client merge.
type CartRepository interface {
	Load(ctx context.Context, token string) (*model.Cart, error)
	Save(ctx context.Context, token string, cart *model.Cart) error
	Delete(ctx context.Context, token string) error
}

type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &cartRepository{client: client, ttl: ttl}
}

func cartKey(token string) string {
	return fmt.Sprintf("cart:%s", token)
}

// Load fetches and decodes the cart for a token. A missing key yields an
// empty cart, not an error.
func (r *cartRepository) Load(ctx context.Context, token string) (*model.Cart, error) {
	payload, err := r.client.Get(ctx, cartKey(token)).Bytes()
	if err == redis.Nil {
		return model.NewCart(), nil
	}
	if err != nil {
		logger.Error("Failed to load cart from redis", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}

	cart, err := decodeCartPayload(payload)
	if err != nil {
		// An undecodable cart is discarded rather than bricking the
		// session; cart contents are reconstructable by the shopper.
		logger.Warn("Discarding unreadable cart payload", map[string]interface{}{
			"token": token,
			"error": err.Error(),
		})
		return model.NewCart(), nil
	}
	return cart, nil
}

// Save writes the cart through to redis, refreshing the idle TTL.
func (r *cartRepository) Save(ctx context.Context, token string, cart *model.Cart) error {
	cart.Version = model.CartPayloadVersion

	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, cartKey(token), payload, r.ttl).Err(); err != nil {
		logger.Error("Failed to save cart to redis", err, map[string]interface{}{
			"token": token,
			"lines": len(cart.Lines),
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, cartKey(token)).Err(); err != nil {
		logger.Error("Failed to delete cart from redis", err, map[string]interface{}{
			"token": token,
		})
		return err
	}
	return nil
}

// decodeCartPayload decodes a persisted cart, migrating older payload
// shapes forward. Version 0 carts were stored as a bare line array.
func decodeCartPayload(payload []byte) (*model.Cart, error) {
	var cart model.Cart
	if err := json.Unmarshal(payload, &cart); err == nil && cart.Version >= 1 {
		return &cart, nil
	}

	// Legacy shape: an unversioned JSON array of lines.
	var lines []model.CartLine
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, fmt.Errorf("unrecognized cart payload: %w", err)
	}

	migrated := model.NewCart()
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		migrated.AddLine(line)
	}
	return migrated, nil
}
