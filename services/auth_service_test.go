package services

import (
	"context"
	"net/http"
	"testing"

	"marketplace-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- Mocks for Dependencies ---

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByMobNumber(ctx context.Context, mobNumber string) (*models.User, error) {
	args := m.Called(ctx, mobNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Tests ---

func TestSignup(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenService("test-secret")

	validReq := func() *SignupRequest {
		return &SignupRequest{
			Email:     "farmer@example.com",
			MobNumber: "9876543210",
			Password:  "strongpassword",
		}
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		mockRepo.On("FindByEmail", ctx, "farmer@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		mockRepo.On("FindByMobNumber", ctx, "9876543210").Return(nil, gorm.ErrRecordNotFound).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

		user, err := authService.Signup(ctx, validReq())

		require.NoError(t, err)
		assert.Equal(t, "farmer@example.com", user.Email)
		assert.Equal(t, "9876543210", user.MobNumber)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("strongpassword")))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		mockRepo.On("FindByEmail", ctx, "farmer@example.com").Return(&models.User{ID: 1}, nil).Once()

		_, err := authService.Signup(ctx, validReq())

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusConflict, svcErr.StatusCode)
		assert.Equal(t, "User already exists", svcErr.Message)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate Mobile Number", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		mockRepo.On("FindByEmail", ctx, "farmer@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		mockRepo.On("FindByMobNumber", ctx, "9876543210").Return(&models.User{ID: 2}, nil).Once()

		_, err := authService.Signup(ctx, validReq())

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusConflict, svcErr.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Field Validation", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		cases := []struct {
			name    string
			mutate  func(*SignupRequest)
			message string
		}{
			{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }, "Invalid email format"},
			{"short mobile", func(r *SignupRequest) { r.MobNumber = "12345" }, "Mobile number must be 10 digits"},
			{"non-numeric mobile", func(r *SignupRequest) { r.MobNumber = "98765abcde" }, "Mobile number must be 10 digits"},
			{"short password", func(r *SignupRequest) { r.Password = "abc" }, "Password must be at least 6 characters"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validReq()
				tc.mutate(req)

				_, err := authService.Signup(ctx, req)

				var svcErr *ServiceError
				require.ErrorAs(t, err, &svcErr)
				assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
				assert.Equal(t, tc.message, svcErr.Message)
			})
		}
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenService("test-secret")

	password := "strongpassword"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	testUser := &models.User{
		ID:        1,
		Email:     "farmer@example.com",
		MobNumber: "9876543210",
		Password:  string(hashed),
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		mockRepo.On("FindByMobNumber", ctx, testUser.MobNumber).Return(testUser, nil).Once()

		token, user, err := authService.Login(ctx, testUser.MobNumber, password)

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, testUser.ID, user.ID)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, float64(testUser.ID), claims["sub"])
		mockRepo.AssertExpectations(t)
	})

	t.Run("User Not Found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		mockRepo.On("FindByMobNumber", ctx, "0000000000").Return(nil, gorm.ErrRecordNotFound).Once()

		_, _, err := authService.Login(ctx, "0000000000", password)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
		assert.Equal(t, "User not found", svcErr.Message)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Incorrect Password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		mockRepo.On("FindByMobNumber", ctx, testUser.MobNumber).Return(testUser, nil).Once()

		_, _, err := authService.Login(ctx, testUser.MobNumber, "wrongpassword")

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
		assert.Equal(t, "Invalid password", svcErr.Message)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		_, _, err := authService.Login(ctx, "", "")

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
		mockRepo.AssertNotCalled(t, "FindByMobNumber")
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenService("test-secret")

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		mockRepo.On("Delete", ctx, uint(1)).Return(nil).Once()

		require.NoError(t, authService.DeleteAccount(ctx, 1))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, tokens, nil)

		mockRepo.On("Delete", ctx, uint(42)).Return(gorm.ErrRecordNotFound).Once()

		err := authService.DeleteAccount(ctx, 42)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
		mockRepo.AssertExpectations(t)
	})
}
