package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"marketplace-api/models"
	repositories "marketplace-api/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Vegetable   string `json:"vegetable"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	IsCompleted *bool  `json:"isCompleted"`
	Img         string `json:"img"`
}

var validUnits = map[string]bool{
	models.UnitKg:    true,
	models.UnitPiece: true,
	models.UnitDozen: true,
	models.UnitLitre: true,
}

// ProductService owns catalog management for sellers.
type ProductService struct {
	productRepo repositories.ProductRepository
	cache       ProductCacheInvalidator
	logger      *zap.Logger
}

func NewProductService(productRepo repositories.ProductRepository, cache ProductCacheInvalidator, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{productRepo: productRepo, cache: cache, logger: logger}
}

// validateProduct enforces the listing field rules. Messages are
// returned verbatim to the client.
func validateProduct(req *ProductRequest) *ServiceError {
	bad := func(msg string) *ServiceError {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: msg}
	}
	if len(req.Title) < 3 || len(req.Title) > 20 {
		return bad("Title must be between 3 and 20 characters")
	}
	if len(req.Description) < 3 || len(req.Description) > 100 {
		return bad("Description must be between 3 and 100 characters")
	}
	if len(req.Vegetable) < 3 || len(req.Vegetable) > 10 {
		return bad("Vegetable must be between 3 and 10 characters")
	}
	if req.Price <= 0 {
		return bad("price must be greater than 0")
	}
	if req.Quantity <= 0 {
		return bad("quantity must be greater than 0")
	}
	if !validUnits[req.Unit] {
		return bad("unit must be either kg, piece, litre or dozen")
	}
	if req.Img != "" {
		if u, err := url.Parse(req.Img); err != nil || u.Scheme == "" || u.Host == "" {
			return bad("Img must be a valid URL")
		}
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, sellerID uint, req *ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Vegetable:   req.Vegetable,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Img:         req.Img,
		SellerID:    sellerID,
	}
	if req.IsCompleted != nil {
		product.IsCompleted = *req.IsCompleted
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("product listed",
		zap.Uint("product_id", product.ID),
		zap.Uint("seller_id", sellerID))
	return product, nil
}

func (s *ProductService) All(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *ProductService) BySeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	return s.productRepo.FindBySellerID(ctx, sellerID)
}

func (s *ProductService) Update(ctx context.Context, sellerID, productID uint, req *ProductRequest) (*models.Product, error) {
	product, err := s.findOwned(ctx, sellerID, productID, "You are not authorized to update this post")
	if err != nil {
		return nil, err
	}
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product.Title = req.Title
	product.Description = req.Description
	product.Vegetable = req.Vegetable
	product.Price = req.Price
	product.Quantity = req.Quantity
	product.Unit = req.Unit
	product.Img = req.Img
	if req.IsCompleted != nil {
		product.IsCompleted = *req.IsCompleted
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, sellerID, productID uint) error {
	if _, err := s.findOwned(ctx, sellerID, productID, "You are not authorized to delete this post"); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) findOwned(ctx context.Context, sellerID, productID uint, denied string) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Post not found"}
		}
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, &ServiceError{StatusCode: http.StatusForbidden, Message: denied}
	}
	return product, nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
