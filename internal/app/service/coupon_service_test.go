package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/internal/db"
)

func setupCouponServiceTest(t *testing.T) CouponService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewCouponService(repository.NewCouponRepository(testDB))
}

func validCoupon(code string) *model.Coupon {
	now := time.Now()
	return &model.Coupon{
		Code:      code,
		Type:      model.CouponTypePercentage,
		Value:     10,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		IsActive:  true,
	}
}

func TestCouponService_CreateCoupon(t *testing.T) {
	service := setupCouponServiceTest(t)

	coupon := validCoupon("welcome10")
	require.NoError(t, service.CreateCoupon(coupon))
	assert.NotZero(t, coupon.ID)
	assert.Equal(t, "WELCOME10", coupon.Code)

	// Same code, different casing.
	err := service.CreateCoupon(validCoupon("Welcome10"))
	assert.ErrorIs(t, err, ErrCouponAlreadyExists)
}

func TestCouponService_CreateCoupon_Validation(t *testing.T) {
	service := setupCouponServiceTest(t)

	blank := validCoupon("  ")
	assert.ErrorIs(t, service.CreateCoupon(blank), ErrInvalidCoupon)

	badType := validCoupon("BADTYPE")
	badType.Type = "bogo"
	assert.ErrorIs(t, service.CreateCoupon(badType), ErrInvalidCoupon)

	zeroValue := validCoupon("ZERO")
	zeroValue.Value = 0
	assert.ErrorIs(t, service.CreateCoupon(zeroValue), ErrInvalidCoupon)

	overHundred := validCoupon("BIGPCT")
	overHundred.Value = 150
	assert.ErrorIs(t, service.CreateCoupon(overHundred), ErrInvalidCoupon)

	inverted := validCoupon("BACKWARDS")
	inverted.StartDate = inverted.EndDate.Add(time.Hour)
	assert.ErrorIs(t, service.CreateCoupon(inverted), ErrInvalidCoupon)

	zeroUses := validCoupon("NOUSES")
	maxUses := 0
	zeroUses.MaxUses = &maxUses
	assert.ErrorIs(t, service.CreateCoupon(zeroUses), ErrInvalidCoupon)
}

func TestCouponService_UpdateCoupon_CodeImmutable(t *testing.T) {
	service := setupCouponServiceTest(t)

	coupon := validCoupon("LAUNCH")
	require.NoError(t, service.CreateCoupon(coupon))

	updated := validCoupon("RENAMED")
	updated.Value = 25
	result, err := service.UpdateCoupon(coupon.ID, updated)
	require.NoError(t, err)

	assert.Equal(t, "LAUNCH", result.Code)
	assert.Equal(t, float64(25), result.Value)
}

func TestCouponService_SetCouponActive(t *testing.T) {
	service := setupCouponServiceTest(t)

	coupon := validCoupon("TOGGLE")
	require.NoError(t, service.CreateCoupon(coupon))

	require.NoError(t, service.SetCouponActive(coupon.ID, false))
	_, _, err := service.Validate("TOGGLE", 10000)
	assert.ErrorIs(t, err, ErrCouponInactive)

	assert.ErrorIs(t, service.SetCouponActive(9999, true), ErrCouponNotFound)
}

func TestCouponService_Validate(t *testing.T) {
	service := setupCouponServiceTest(t)
	now := time.Now()

	require.NoError(t, service.CreateCoupon(validCoupon("PCT10")))

	fixed := validCoupon("FIXED5K")
	fixed.Type = model.CouponTypeFixed
	fixed.Value = 5000
	fixed.MinPurchase = 20000
	require.NoError(t, service.CreateCoupon(fixed))

	t.Run("percentage discount", func(t *testing.T) {
		coupon, discount, err := service.Validate("pct10", 50000)
		require.NoError(t, err)
		assert.Equal(t, "PCT10", coupon.Code)
		assert.Equal(t, float64(5000), discount)
	})

	t.Run("fixed discount capped at subtotal", func(t *testing.T) {
		_, discount, err := service.Validate("FIXED5K", 20000)
		require.NoError(t, err)
		assert.Equal(t, float64(5000), discount)
	})

	t.Run("below minimum purchase", func(t *testing.T) {
		_, _, err := service.Validate("FIXED5K", 19999)
		assert.ErrorIs(t, err, ErrCouponMinPurchase)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, _, err := service.Validate("NOSUCH", 50000)
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("not yet started", func(t *testing.T) {
		upcoming := validCoupon("SOON")
		upcoming.StartDate = now.Add(time.Hour)
		upcoming.EndDate = now.Add(48 * time.Hour)
		require.NoError(t, service.CreateCoupon(upcoming))

		_, _, err := service.Validate("SOON", 50000)
		assert.ErrorIs(t, err, ErrCouponNotStarted)
	})

	t.Run("expired", func(t *testing.T) {
		expired := validCoupon("GONE")
		expired.StartDate = now.Add(-48 * time.Hour)
		expired.EndDate = now.Add(-time.Hour)
		require.NoError(t, service.CreateCoupon(expired))

		_, _, err := service.Validate("GONE", 50000)
		assert.ErrorIs(t, err, ErrCouponExpired)
	})

	t.Run("exhausted", func(t *testing.T) {
		limited := validCoupon("ONESHOT")
		maxUses := 1
		limited.MaxUses = &maxUses
		limited.UsedCount = 1
		require.NoError(t, service.CreateCoupon(limited))

		_, _, err := service.Validate("ONESHOT", 50000)
		assert.ErrorIs(t, err, ErrCouponExhausted)
	})
}
