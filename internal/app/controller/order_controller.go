package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/service"
	apperrors "github.com/tuffwear/tuff-backend/internal/errors"
	"github.com/tuffwear/tuff-backend/internal/middleware"
	"github.com/xuri/excelize/v2"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CheckoutRequest struct {
	PaymentMethod   string           `json:"payment_method" binding:"required"`
	CouponCode      string           `json:"coupon_code"`
	Notes           string           `json:"notes"`
	ShippingAddress service.Address  `json:"shipping_address" binding:"required"`
	BillingAddress  *service.Address `json:"billing_address"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// Checkout converts the session cart into an order. Works for guests and
// signed-in customers; a valid bearer token attaches the order to the
// account.
// POST /api/v1/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token := c.GetHeader(CartTokenHeader)
	if token == "" {
		apperrors.BadRequest(c, apperrors.CartTokenMissing, "Cart token is required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	input := service.CheckoutInput{
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
		Notes:           req.Notes,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		input.UserID = &userID
	}

	order, err := ctrl.orderService.Checkout(c.Request.Context(), token, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Your cart is empty")
		case errors.Is(err, service.ErrMissingAddress):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Shipping address is required")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "A product in your cart is no longer available")
		case errors.Is(err, service.ErrProductUnavailable):
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.ProductInactive, "A product in your cart is no longer available")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.ProductOutOfStock, "Not enough stock to complete your order")
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
			log.Error("Checkout failed", err, map[string]interface{}{
				"cart_token": token,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "checkout")
		}
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// GetMyOrders returns the authenticated user's order history
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetMyOrder returns one of the authenticated user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetMyOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// AdminListOrders returns all orders, newest first
// GET /api/v1/admin/orders
func (ctrl *OrderController) AdminListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	orders, total, err := ctrl.orderService.ListOrders(limit, offset)
	if err != nil {
		log.Error("Failed to list orders", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// AdminGetOrder returns any order by ID
// GET /api/v1/admin/orders/:id
func (ctrl *OrderController) AdminGetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrder(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateOrderStatus moves an order through its lifecycle
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	if err := ctrl.orderService.UpdateOrderStatus(uint(orderID), model.OrderStatus(req.Status)); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
	})
}

// UpdatePaymentStatus records a manual payment status change
// PUT /api/v1/admin/orders/:id/payment
func (ctrl *OrderController) UpdatePaymentStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	if err := ctrl.orderService.UpdatePaymentStatus(uint(orderID), req.PaymentStatus); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to update payment status", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status updated",
	})
}

var orderExportHeader = []string{
	"Order Number", "Date", "Customer", "Status", "Payment Status",
	"Payment Method", "Subtotal", "Shipping", "Discount", "Total", "Items",
}

// ExportOrders streams all orders as an XLSX workbook
// GET /api/v1/admin/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// The export is a full dump; page through the repository in chunks.
	const pageSize = 500
	var orders []model.Order
	for offset := 0; ; offset += pageSize {
		page, _, err := ctrl.orderService.ListOrders(pageSize, offset)
		if err != nil {
			log.Error("Failed to collect orders for export", err, nil)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export orders")
			return
		}
		orders = append(orders, page...)
		if len(page) < pageSize {
			break
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, title := range orderExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for i, order := range orders {
		customer := "Guest"
		if order.User != nil {
			customer = order.User.Email
		}
		var itemCount int
		for _, item := range order.OrderItems {
			itemCount += item.Quantity
		}
		row := []interface{}{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			customer,
			string(order.Status),
			order.PaymentStatus,
			order.PaymentMethod,
			order.Subtotal,
			order.ShippingFee,
			order.DiscountAmount,
			order.TotalAmount,
			itemCount,
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream order export", err, nil)
		return
	}

	log.Info("Orders exported", map[string]interface{}{
		"count": len(orders),
	})
}
