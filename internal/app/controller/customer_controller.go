package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tuffwear/tuff-backend/internal/app/service"
	apperrors "github.com/tuffwear/tuff-backend/internal/errors"
	"github.com/tuffwear/tuff-backend/internal/middleware"
)

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{
		customerService: customerService,
	}
}

type SetVIPRequest struct {
	IsVIP *bool `json:"is_vip" binding:"required"`
}

type SetBlockedRequest struct {
	IsBlocked *bool `json:"is_blocked" binding:"required"`
}

// ListCustomers returns registered customers, newest first
// GET /api/v1/admin/customers
func (ctrl *CustomerController) ListCustomers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	customers, total, err := ctrl.customerService.ListCustomers(limit, offset)
	if err != nil {
		log.Error("Failed to list customers", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetCustomer returns one customer with order history
// GET /api/v1/admin/customers/:id
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid customer ID")
		return
	}

	customer, err := ctrl.customerService.GetCustomer(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer not found")
			return
		}
		log.Error("Failed to fetch customer", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
	})
}

// SetVIP flags or unflags a customer as VIP
// PUT /api/v1/admin/customers/:id/vip
func (ctrl *CustomerController) SetVIP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid customer ID")
		return
	}

	var req SetVIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	customer, err := ctrl.customerService.SetVIP(uint(id), *req.IsVIP)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer not found")
			return
		}
		log.Error("Failed to update VIP flag", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
	})
}

// SetBlocked suspends or restores a customer account
// PUT /api/v1/admin/customers/:id/blocked
func (ctrl *CustomerController) SetBlocked(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid customer ID")
		return
	}

	var req SetBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	customer, err := ctrl.customerService.SetBlocked(uint(id), *req.IsBlocked)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer not found")
			return
		}
		log.Error("Failed to update blocked flag", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
	})
}
