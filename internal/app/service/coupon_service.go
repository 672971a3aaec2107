package service

import (
	"errors"
	"strings"
	"time"

	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponAlreadyExists = errors.New("coupon code already exists")
	ErrInvalidCoupon       = errors.New("invalid coupon data")
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponNotStarted    = errors.New("coupon is not yet valid")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
	ErrCouponMinPurchase   = errors.New("order does not meet coupon minimum")
)

type CouponService interface {
	CreateCoupon(coupon *model.Coupon) error
	ListCoupons() ([]model.Coupon, error)
	GetCoupon(id uint) (*model.Coupon, error)
	UpdateCoupon(id uint, updated *model.Coupon) (*model.Coupon, error)
	DeleteCoupon(id uint) error
	SetCouponActive(id uint, active bool) error
	Validate(code string, subtotal float64) (*model.Coupon, float64, error)
}

type couponService struct {
	couponRepo repository.CouponRepository
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponService{couponRepo: couponRepo}
}

func validateCouponFields(coupon *model.Coupon) error {
	if strings.TrimSpace(coupon.Code) == "" {
		return ErrInvalidCoupon
	}
	if !model.ValidCouponType(coupon.Type) {
		return ErrInvalidCoupon
	}
	if coupon.Value <= 0 {
		return ErrInvalidCoupon
	}
	if coupon.Type == model.CouponTypePercentage && coupon.Value > 100 {
		return ErrInvalidCoupon
	}
	if coupon.MinPurchase < 0 {
		return ErrInvalidCoupon
	}
	if !coupon.EndDate.After(coupon.StartDate) {
		return ErrInvalidCoupon
	}
	if coupon.MaxUses != nil && *coupon.MaxUses <= 0 {
		return ErrInvalidCoupon
	}
	return nil
}

func (s *couponService) CreateCoupon(coupon *model.Coupon) error {
	if err := validateCouponFields(coupon); err != nil {
		logger.Warn("Coupon creation failed: invalid fields", map[string]interface{}{
			"code": coupon.Code,
		})
		return err
	}

	existing, err := s.couponRepo.FindByCode(coupon.Code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing coupon", err, map[string]interface{}{
			"code": coupon.Code,
		})
		return err
	}
	if existing != nil {
		logger.Warn("Coupon creation failed: duplicate code", map[string]interface{}{
			"code": coupon.Code,
		})
		return ErrCouponAlreadyExists
	}

	if err := s.couponRepo.Create(coupon); err != nil {
		logger.Error("Failed to create coupon", err, map[string]interface{}{
			"code": coupon.Code,
		})
		return err
	}

	logger.Info("Coupon created", map[string]interface{}{
		"coupon_id": coupon.ID,
		"code":      coupon.Code,
		"type":      coupon.Type,
		"value":     coupon.Value,
	})
	return nil
}

func (s *couponService) ListCoupons() ([]model.Coupon, error) {
	coupons, err := s.couponRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list coupons", err, nil)
		return nil, err
	}
	return coupons, nil
}

func (s *couponService) GetCoupon(id uint) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		logger.Error("Failed to fetch coupon", err, map[string]interface{}{
			"coupon_id": id,
		})
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) UpdateCoupon(id uint, updated *model.Coupon) (*model.Coupon, error) {
	coupon, err := s.GetCoupon(id)
	if err != nil {
		return nil, err
	}

	// Codes are immutable once issued; customers may already hold them.
	updated.Code = coupon.Code
	if err := validateCouponFields(updated); err != nil {
		return nil, err
	}

	coupon.Type = updated.Type
	coupon.Value = updated.Value
	coupon.MinPurchase = updated.MinPurchase
	coupon.MaxUses = updated.MaxUses
	coupon.StartDate = updated.StartDate
	coupon.EndDate = updated.EndDate
	coupon.IsActive = updated.IsActive

	if err := s.couponRepo.Update(coupon); err != nil {
		logger.Error("Failed to update coupon", err, map[string]interface{}{
			"coupon_id": id,
		})
		return nil, err
	}

	logger.Info("Coupon updated", map[string]interface{}{
		"coupon_id": id,
		"code":      coupon.Code,
	})
	return coupon, nil
}

func (s *couponService) DeleteCoupon(id uint) error {
	if _, err := s.GetCoupon(id); err != nil {
		return err
	}

	if err := s.couponRepo.Delete(id); err != nil {
		logger.Error("Failed to delete coupon", err, map[string]interface{}{
			"coupon_id": id,
		})
		return err
	}

	logger.Info("Coupon deleted", map[string]interface{}{
		"coupon_id": id,
	})
	return nil
}

func (s *couponService) SetCouponActive(id uint, active bool) error {
	if err := s.couponRepo.SetActive(id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		logger.Error("Failed to toggle coupon", err, map[string]interface{}{
			"coupon_id": id,
			"active":    active,
		})
		return err
	}

	logger.Info("Coupon toggled", map[string]interface{}{
		"coupon_id": id,
		"active":    active,
	})
	return nil
}

// Validate checks a code against the current time and an order subtotal
// and returns the coupon plus the discount it grants. The usage counter
// is not touched here; redemption happens inside the checkout transaction.
func (s *couponService) Validate(code string, subtotal float64) (*model.Coupon, float64, error) {
	coupon, err := s.couponRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Coupon validation failed: not found", map[string]interface{}{
				"code": code,
			})
			return nil, 0, ErrCouponNotFound
		}
		logger.Error("Failed to fetch coupon for validation", err, map[string]interface{}{
			"code": code,
		})
		return nil, 0, err
	}

	now := time.Now()
	switch {
	case !coupon.IsActive:
		return nil, 0, ErrCouponInactive
	case coupon.IsUpcoming(now):
		return nil, 0, ErrCouponNotStarted
	case coupon.IsExpired(now):
		return nil, 0, ErrCouponExpired
	case coupon.IsExhausted():
		return nil, 0, ErrCouponExhausted
	case subtotal < coupon.MinPurchase:
		return nil, 0, ErrCouponMinPurchase
	}

	discount := coupon.DiscountFor(subtotal)
	logger.Debug("Coupon validated", map[string]interface{}{
		"code":     coupon.Code,
		"subtotal": subtotal,
		"discount": discount,
	})
	return coupon, discount, nil
}
