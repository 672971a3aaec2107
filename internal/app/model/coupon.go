package model

import (
	"time"

	"gorm.io/gorm"
)

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

func ValidCouponType(t CouponType) bool {
	return t == CouponTypePercentage || t == CouponTypeFixed
}

// Coupon codes are stored upper-cased; lookups normalize before matching.
type Coupon struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Code        string         `gorm:"uniqueIndex:idx_coupons_code;not null" json:"code"`
	Type        CouponType     `gorm:"type:varchar(20);not null" json:"type"`
	Value       float64        `gorm:"not null" json:"value"`
	MinPurchase float64        `gorm:"default:0" json:"min_purchase"`
	MaxUses     *int           `json:"max_uses,omitempty"` // nil means unlimited
	UsedCount   int            `gorm:"default:0" json:"used_count"`
	StartDate   time.Time      `gorm:"not null" json:"start_date"`
	EndDate     time.Time      `gorm:"not null" json:"end_date"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// IsExpired reports whether the coupon's window has closed.
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.EndDate.Before(now)
}

// IsUpcoming reports whether the coupon's window has not opened yet.
func (c *Coupon) IsUpcoming(now time.Time) bool {
	return c.StartDate.After(now)
}

// IsExhausted reports whether the usage cap has been reached.
func (c *Coupon) IsExhausted() bool {
	return c.MaxUses != nil && c.UsedCount >= *c.MaxUses
}

// DiscountFor computes the discount for a subtotal. The result never
// exceeds the subtotal.
func (c *Coupon) DiscountFor(subtotal float64) float64 {
	var discount float64
	switch c.Type {
	case CouponTypePercentage:
		discount = subtotal * c.Value / 100
	case CouponTypeFixed:
		discount = c.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}
