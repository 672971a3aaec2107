package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/internal/app/service"
	apperrors "github.com/tuffwear/tuff-backend/internal/errors"
	"github.com/tuffwear/tuff-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"required,gte=0"`
	SKU            string   `json:"sku" binding:"required"`
	Category       string   `json:"category" binding:"required"`
	Images         []string `json:"images"`
	Sizes          []string `json:"sizes"`
	Colors         []string `json:"colors"`
	InventoryCount int      `json:"inventory_count" binding:"gte=0"`
	IsActive       *bool    `json:"is_active"`
	IsNew          bool     `json:"is_new"`
}

func (r *ProductRequest) toModel() *model.Product {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.Product{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		SKU:            r.SKU,
		Category:       r.Category,
		Images:         pq.StringArray(r.Images),
		Sizes:          pq.StringArray(r.Sizes),
		Colors:         pq.StringArray(r.Colors),
		InventoryCount: r.InventoryCount,
		IsActive:       active,
		IsNew:          r.IsNew,
	}
}

func parseProductFilter(c *gin.Context, activeOnly bool) repository.ProductFilter {
	filter := repository.ProductFilter{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		ActiveOnly: activeOnly,
		SortBy:     repository.ProductSort(c.DefaultQuery("sort", string(repository.ProductSortCreatedAt))),
	}
	if c.Query("order") == "asc" {
		filter.SortAscending = true
	}
	if v := c.Query("is_new"); v != "" {
		isNew := v == "true"
		filter.IsNew = &isNew
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	} else {
		filter.Limit = 20
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filter.Offset = offset
	}
	return filter
}

// ListProducts returns the public catalog. Inactive products are hidden.
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := parseProductFilter(c, true)
	products, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// AdminListProducts returns the catalog including inactive products
// GET /api/v1/admin/products
func (ctrl *ProductController) AdminListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := parseProductFilter(c, false)
	products, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products for admin", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// CreateProduct adds a product to the catalog
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	product := req.toModel()
	if err := ctrl.productService.CreateProduct(product); err != nil {
		switch {
		case errors.Is(err, service.ErrSKUAlreadyExists):
			apperrors.Conflict(c, apperrors.ProductSKUExists, "A product with this SKU already exists")
		case errors.Is(err, service.ErrInvalidProduct):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		default:
			log.Error("Failed to create product", err, map[string]interface{}{
				"sku": req.SKU,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create product")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct replaces a product's editable fields
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	product, err := ctrl.productService.UpdateProduct(uint(id), req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrSKUAlreadyExists):
			apperrors.Conflict(c, apperrors.ProductSKUExists, "A product with this SKU already exists")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct soft deletes a product
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}
