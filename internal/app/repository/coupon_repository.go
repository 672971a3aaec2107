package repository

import (
	"strings"

	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
)

type CouponRepository interface {
	Create(coupon *model.Coupon) error
	FindAll() ([]model.Coupon, error)
	FindByID(id uint) (*model.Coupon, error)
	FindByCode(code string) (*model.Coupon, error)
	Update(coupon *model.Coupon) error
	Delete(id uint) error
	SetActive(id uint, active bool) error
	IncrementUsage(tx *gorm.DB, id uint) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)

	if err := r.db.Create(coupon).Error; err != nil {
		logger.Error("Failed to create coupon in database", err, map[string]interface{}{
			"code": coupon.Code,
		})
		return err
	}
	return nil
}

func (r *couponRepository) FindAll() ([]model.Coupon, error) {
	var coupons []model.Coupon
	if err := r.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		logger.Error("Failed to list coupons", err, nil)
		return nil, err
	}
	return coupons, nil
}

func (r *couponRepository) FindByID(id uint) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.First(&coupon, id).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) FindByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Where("code = ?", strings.ToUpper(code)).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) Update(coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)

	if err := r.db.Save(coupon).Error; err != nil {
		logger.Error("Failed to update coupon in database", err, map[string]interface{}{
			"coupon_id": coupon.ID,
		})
		return err
	}
	return nil
}

func (r *couponRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Coupon{}, id).Error; err != nil {
		logger.Error("Failed to delete coupon from database", err, map[string]interface{}{
			"coupon_id": id,
		})
		return err
	}
	return nil
}

func (r *couponRepository) SetActive(id uint, active bool) error {
	result := r.db.Model(&model.Coupon{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		logger.Error("Failed to toggle coupon", result.Error, map[string]interface{}{
			"coupon_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementUsage bumps used_count inside the caller's transaction so the
// count moves atomically with the order that redeemed the coupon.
func (r *couponRepository) IncrementUsage(tx *gorm.DB, id uint) error {
	if err := tx.Model(&model.Coupon{}).Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + ?", 1)).Error; err != nil {
		logger.Error("Failed to increment coupon usage", err, map[string]interface{}{
			"coupon_id": id,
		})
		return err
	}
	return nil
}
