package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"marketplace-api/cache"
	"marketplace-api/middleware"
	"marketplace-api/models"
	"marketplace-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IProductService is the catalog use-case surface the controller needs.
type IProductService interface {
	Create(ctx context.Context, sellerID uint, req *services.ProductRequest) (*models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	BySeller(ctx context.Context, sellerID uint) ([]models.Product, error)
	Update(ctx context.Context, sellerID, productID uint, req *services.ProductRequest) (*models.Product, error)
	Delete(ctx context.Context, sellerID, productID uint) error
}

type ProductController struct {
	productService IProductService
	cache          *cache.ProductCache
	logger         *zap.Logger
}

// NewProductController wires the catalog handlers. cache may be nil
// when Redis is not configured.
func NewProductController(productService IProductService, productCache *cache.ProductCache, logger *zap.Logger) *ProductController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductController{
		productService: productService,
		cache:          productCache,
		logger:         logger,
	}
}

// Create handles POST /products
func (pc *ProductController) Create(ctx *gin.Context) {
	sellerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	product, err := pc.productService.Create(ctx.Request.Context(), sellerID, &req)
	if err != nil {
		pc.respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    product,
	})
}

// All handles GET /products, serving from the Redis cache when warm.
func (pc *ProductController) All(ctx *gin.Context) {
	if pc.cache != nil {
		if products, ok := pc.cache.GetList(ctx.Request.Context()); ok {
			ctx.JSON(http.StatusOK, gin.H{"products": products})
			return
		}
	}

	products, err := pc.productService.All(ctx.Request.Context())
	if err != nil {
		pc.respondServiceError(ctx, err)
		return
	}

	if pc.cache != nil {
		pc.cache.SetListAsync(products)
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// Mine handles GET /products/mine
func (pc *ProductController) Mine(ctx *gin.Context) {
	sellerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	products, err := pc.productService.BySeller(ctx.Request.Context(), sellerID)
	if err != nil {
		pc.respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// Update handles PUT /products/:id
func (pc *ProductController) Update(ctx *gin.Context) {
	sellerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, ok := pc.parseProductID(ctx)
	if !ok {
		return
	}

	var req services.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	product, err := pc.productService.Update(ctx.Request.Context(), sellerID, productID, &req)
	if err != nil {
		pc.respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    product,
	})
}

// Delete handles DELETE /products/:id
func (pc *ProductController) Delete(ctx *gin.Context) {
	sellerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, ok := pc.parseProductID(ctx)
	if !ok {
		return
	}

	if err := pc.productService.Delete(ctx.Request.Context(), sellerID, productID); err != nil {
		pc.respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (pc *ProductController) parseProductID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return 0, false
	}
	return uint(id), true
}

func (pc *ProductController) respondServiceError(ctx *gin.Context, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	pc.logger.Error("product request failed", zap.Error(err))
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
