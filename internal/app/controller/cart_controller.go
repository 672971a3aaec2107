package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/service"
	apperrors "github.com/tuffwear/tuff-backend/internal/errors"
	"github.com/tuffwear/tuff-backend/internal/middleware"
)

// CartTokenHeader carries the opaque session cart identifier. The server
// issues one on the first cart mutation; the storefront echoes it on every
// subsequent cart and checkout request.
const CartTokenHeader = "X-Cart-Token"

type CartController struct {
	cartService  service.CartService
	orderService service.OrderService
}

func NewCartController(cartService service.CartService, orderService service.OrderService) *CartController {
	return &CartController{
		cartService:  cartService,
		orderService: orderService,
	}
}

type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartLineRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// cartToken returns the session token from the request, minting a fresh
// one when issueNew is set and the client has none yet.
func cartToken(c *gin.Context, issueNew bool) (string, bool) {
	token := c.GetHeader(CartTokenHeader)
	if token == "" && issueNew {
		token = uuid.NewString()
	}
	return token, token != ""
}

func (ctrl *CartController) respondWithCart(c *gin.Context, token string, cart *model.Cart) {
	c.Header(CartTokenHeader, token)
	c.JSON(http.StatusOK, gin.H{
		"cart_token":   token,
		"cart":         cart,
		"item_count":   cart.ItemCount(),
		"total_price":  cart.TotalPrice(),
		"shipping_fee": ctrl.orderService.ShippingFee(cart.TotalPrice()),
	})
}

// GetCart returns the session cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, ok := cartToken(c, false)
	if !ok {
		// No token yet means no cart yet.
		c.JSON(http.StatusOK, gin.H{
			"cart_token":   "",
			"cart":         model.NewCart(),
			"item_count":   0,
			"total_price":  0,
			"shipping_fee": ctrl.orderService.ShippingFee(0),
		})
		return
	}

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), token)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_token": token,
		})
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	ctrl.respondWithCart(c, token, cart)
}

// AddToCart adds an item to the session cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	token, _ := cartToken(c, true)

	cart, err := ctrl.cartService.AddToCart(c.Request.Context(), token, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrProductUnavailable):
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.ProductInactive, "This product is currently unavailable")
		case errors.Is(err, service.ErrInvalidSize):
			apperrors.BadRequest(c, apperrors.ProductInvalidSize, "Selected size is not offered for this product")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.ProductOutOfStock, "Not enough stock for the requested quantity")
		default:
			log.Error("Failed to add to cart", err, map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add to cart")
		}
		return
	}

	ctrl.respondWithCart(c, token, cart)
}

// UpdateLine sets the quantity of a cart line; zero removes it
// PUT /api/v1/cart/items
func (ctrl *CartController) UpdateLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, ok := cartToken(c, false)
	if !ok {
		apperrors.BadRequest(c, apperrors.CartTokenMissing, "Cart token is required")
		return
	}

	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	cart, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), token, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientStock) {
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.ProductOutOfStock, "Not enough stock for the requested quantity")
			return
		}
		log.Error("Failed to update cart line", err, map[string]interface{}{
			"cart_token": token,
			"product_id": req.ProductID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update cart")
		return
	}

	ctrl.respondWithCart(c, token, cart)
}

// RemoveLine deletes a cart line
// DELETE /api/v1/cart/items/:productID
func (ctrl *CartController) RemoveLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, ok := cartToken(c, false)
	if !ok {
		apperrors.BadRequest(c, apperrors.CartTokenMissing, "Cart token is required")
		return
	}

	productID, err := strconv.ParseUint(c.Param("productID"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}
	size := c.Query("size")

	cart, err := ctrl.cartService.RemoveFromCart(c.Request.Context(), token, uint(productID), size)
	if err != nil {
		log.Error("Failed to remove cart line", err, map[string]interface{}{
			"cart_token": token,
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove from cart")
		return
	}

	ctrl.respondWithCart(c, token, cart)
}

// ClearCart empties the session cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, ok := cartToken(c, false)
	if !ok {
		apperrors.BadRequest(c, apperrors.CartTokenMissing, "Cart token is required")
		return
	}

	cart, err := ctrl.cartService.ClearCart(c.Request.Context(), token)
	if err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"cart_token": token,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "clear cart")
		return
	}

	ctrl.respondWithCart(c, token, cart)
}
