package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"marketplace-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySellerID(ctx context.Context, sellerID uint) ([]models.Product, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validProductRequest() *ProductRequest {
	return &ProductRequest{
		Title:       "Fresh Tomatoes",
		Description: "Vine ripened tomatoes from the farm",
		Vegetable:   "Tomato",
		Price:       40,
		Quantity:    25,
		Unit:        models.UnitKg,
		Img:         "https://example.com/tomato.jpg",
	}
}

func TestProductCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		invalidator := &recordingInvalidator{}
		svc := NewProductService(mockRepo, invalidator, nil)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		product, err := svc.Create(ctx, 9, validProductRequest())

		require.NoError(t, err)
		assert.Equal(t, uint(9), product.SellerID)
		assert.Equal(t, "Fresh Tomatoes", product.Title)
		assert.Equal(t, 1, invalidator.calls)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Field Validation", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, nil, nil)

		cases := []struct {
			name    string
			mutate  func(*ProductRequest)
			message string
		}{
			{"short title", func(r *ProductRequest) { r.Title = "ab" }, "Title must be between 3 and 20 characters"},
			{"long title", func(r *ProductRequest) { r.Title = strings.Repeat("x", 21) }, "Title must be between 3 and 20 characters"},
			{"long description", func(r *ProductRequest) { r.Description = strings.Repeat("x", 101) }, "Description must be between 3 and 100 characters"},
			{"long vegetable", func(r *ProductRequest) { r.Vegetable = "Cauliflowers" }, "Vegetable must be between 3 and 10 characters"},
			{"zero price", func(r *ProductRequest) { r.Price = 0 }, "price must be greater than 0"},
			{"negative price", func(r *ProductRequest) { r.Price = -5 }, "price must be greater than 0"},
			{"zero quantity", func(r *ProductRequest) { r.Quantity = 0 }, "quantity must be greater than 0"},
			{"bad unit", func(r *ProductRequest) { r.Unit = "gram" }, "unit must be either kg, piece, litre or dozen"},
			{"bad image url", func(r *ProductRequest) { r.Img = "not a url" }, "Img must be a valid URL"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validProductRequest()
				tc.mutate(req)

				_, err := svc.Create(ctx, 9, req)

				var svcErr *ServiceError
				require.ErrorAs(t, err, &svcErr)
				assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
				assert.Equal(t, tc.message, svcErr.Message)
			})
		}
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestProductUpdate_Ownership(t *testing.T) {
	ctx := context.Background()
	owned := &models.Product{ID: 5, SellerID: 9, Title: "Fresh Tomatoes"}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		invalidator := &recordingInvalidator{}
		svc := NewProductService(mockRepo, invalidator, nil)

		mockRepo.On("FindByID", ctx, uint(5)).Return(owned, nil).Once()
		mockRepo.On("Update", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		req := validProductRequest()
		req.Price = 55
		product, err := svc.Update(ctx, 9, 5, req)

		require.NoError(t, err)
		assert.Equal(t, int64(55), product.Price)
		assert.Equal(t, 1, invalidator.calls)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not Owner", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, nil, nil)

		mockRepo.On("FindByID", ctx, uint(5)).Return(owned, nil).Once()

		_, err := svc.Update(ctx, 2, 5, validProductRequest())

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusForbidden, svcErr.StatusCode)
		assert.Equal(t, "You are not authorized to update this post", svcErr.Message)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, nil, nil)

		mockRepo.On("FindByID", ctx, uint(404)).Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.Update(ctx, 9, 404, validProductRequest())

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
		assert.Equal(t, "Post not found", svcErr.Message)
	})
}

func TestProductDelete_Ownership(t *testing.T) {
	ctx := context.Background()
	owned := &models.Product{ID: 5, SellerID: 9}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		invalidator := &recordingInvalidator{}
		svc := NewProductService(mockRepo, invalidator, nil)

		mockRepo.On("FindByID", ctx, uint(5)).Return(owned, nil).Once()
		mockRepo.On("Delete", ctx, uint(5)).Return(nil).Once()

		require.NoError(t, svc.Delete(ctx, 9, 5))
		assert.Equal(t, 1, invalidator.calls)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not Owner", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, nil, nil)

		mockRepo.On("FindByID", ctx, uint(5)).Return(owned, nil).Once()

		err := svc.Delete(ctx, 2, 5)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusForbidden, svcErr.StatusCode)
		assert.Equal(t, "You are not authorized to delete this post", svcErr.Message)
		mockRepo.AssertNotCalled(t, "Delete")
	})
}
