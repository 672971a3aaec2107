package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/service"
	apperrors "github.com/tuffwear/tuff-backend/internal/errors"
	"github.com/tuffwear/tuff-backend/internal/middleware"
)

type CouponController struct {
	couponService service.CouponService
}

func NewCouponController(couponService service.CouponService) *CouponController {
	return &CouponController{
		couponService: couponService,
	}
}

type CouponRequest struct {
	Code        string    `json:"code" binding:"required"`
	Type        string    `json:"type" binding:"required,oneof=percentage fixed"`
	Value       float64   `json:"value" binding:"required,gt=0"`
	MinPurchase float64   `json:"min_purchase" binding:"gte=0"`
	MaxUses     *int      `json:"max_uses"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	IsActive    *bool     `json:"is_active"`
}

func (r *CouponRequest) toModel() *model.Coupon {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.Coupon{
		Code:        r.Code,
		Type:        model.CouponType(r.Type),
		Value:       r.Value,
		MinPurchase: r.MinPurchase,
		MaxUses:     r.MaxUses,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		IsActive:    active,
	}
}

type ValidateCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"gte=0"`
}

type SetCouponActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// couponView adds derived state the admin table renders.
func couponView(coupon model.Coupon) gin.H {
	now := time.Now()
	return gin.H{
		"coupon":       coupon,
		"is_expired":   coupon.IsExpired(now),
		"is_upcoming":  coupon.IsUpcoming(now),
		"is_exhausted": coupon.IsExhausted(),
	}
}

// ValidateCoupon checks a code against a subtotal for the storefront
// POST /api/v1/coupons/validate
func (ctrl *CouponController) ValidateCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	coupon, discount, err := ctrl.couponService.Validate(req.Code, req.Subtotal)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon code not recognized")
		case errors.Is(err, service.ErrCouponInactive),
			errors.Is(err, service.ErrCouponNotStarted),
			errors.Is(err, service.ErrCouponExpired):
			apperrors.BadRequest(c, apperrors.CouponExpired, "This coupon is not currently valid")
		case errors.Is(err, service.ErrCouponExhausted):
			apperrors.BadRequest(c, apperrors.CouponExhausted, "This coupon has reached its usage limit")
		case errors.Is(err, service.ErrCouponMinPurchase):
			apperrors.BadRequest(c, apperrors.CouponMinPurchase, "Your order does not meet the coupon minimum")
		default:
			log.Error("Coupon validation failed", err, map[string]interface{}{
				"code": req.Code,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "validate coupon")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     coupon.Code,
		"type":     coupon.Type,
		"value":    coupon.Value,
		"discount": discount,
	})
}

// AdminListCoupons returns all coupons with derived state
// GET /api/v1/admin/coupons
func (ctrl *CouponController) AdminListCoupons(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	coupons, err := ctrl.couponService.ListCoupons()
	if err != nil {
		log.Error("Failed to list coupons", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list coupons")
		return
	}

	views := make([]gin.H, 0, len(coupons))
	for _, coupon := range coupons {
		views = append(views, couponView(coupon))
	}
	c.JSON(http.StatusOK, gin.H{
		"coupons": views,
		"count":   len(views),
	})
}

// CreateCoupon issues a new coupon
// POST /api/v1/admin/coupons
func (ctrl *CouponController) CreateCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	coupon := req.toModel()
	if err := ctrl.couponService.CreateCoupon(coupon); err != nil {
		switch {
		case errors.Is(err, service.ErrCouponAlreadyExists):
			apperrors.Conflict(c, apperrors.CouponCodeExists, "A coupon with this code already exists")
		case errors.Is(err, service.ErrInvalidCoupon):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the coupon settings")
		default:
			log.Error("Failed to create coupon", err, map[string]interface{}{
				"code": req.Code,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create coupon")
		}
		return
	}

	c.JSON(http.StatusCreated, couponView(*coupon))
}

// UpdateCoupon edits an existing coupon; the code itself is immutable
// PUT /api/v1/admin/coupons/:id
func (ctrl *CouponController) UpdateCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid coupon ID")
		return
	}

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	coupon, err := ctrl.couponService.UpdateCoupon(uint(id), req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon not found")
		case errors.Is(err, service.ErrInvalidCoupon):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the coupon settings")
		default:
			log.Error("Failed to update coupon", err, map[string]interface{}{
				"coupon_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update coupon")
		}
		return
	}

	c.JSON(http.StatusOK, couponView(*coupon))
}

// SetCouponActive toggles a coupon on or off
// PUT /api/v1/admin/coupons/:id/active
func (ctrl *CouponController) SetCouponActive(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid coupon ID")
		return
	}

	var req SetCouponActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	if err := ctrl.couponService.SetCouponActive(uint(id), *req.IsActive); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon not found")
			return
		}
		log.Error("Failed to toggle coupon", err, map[string]interface{}{
			"coupon_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update coupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon updated",
	})
}

// DeleteCoupon removes a coupon
// DELETE /api/v1/admin/coupons/:id
func (ctrl *CouponController) DeleteCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid coupon ID")
		return
	}

	if err := ctrl.couponService.DeleteCoupon(uint(id)); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon not found")
			return
		}
		log.Error("Failed to delete coupon", err, map[string]interface{}{
			"coupon_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete coupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon deleted",
	})
}
