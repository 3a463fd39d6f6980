package controllers

import (
	"context"
	"errors"
	"net/http"

	"marketplace-api/middleware"
	"marketplace-api/models"
	"marketplace-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IAuthService is the account use-case surface the controller needs.
type IAuthService interface {
	Signup(ctx context.Context, req *services.SignupRequest) (*models.User, error)
	Login(ctx context.Context, mobNumber, password string) (string, *models.User, error)
	Profile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req *services.SignupRequest) (*models.User, error)
	DeleteAccount(ctx context.Context, userID uint) error
	AllProfiles(ctx context.Context) ([]models.User, error)
}

type AuthController struct {
	authService IAuthService
	logger      *zap.Logger
}

func NewAuthController(authService IAuthService, logger *zap.Logger) *AuthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthController{authService: authService, logger: logger}
}

type loginRequest struct {
	MobNumber string `json:"MobNumber"`
	Password  string `json:"password"`
}

type userResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	MobNumber string `json:"MobNumber"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email, MobNumber: user.MobNumber}
}

// Signup handles POST /auth/signup
func (ac *AuthController) Signup(ctx *gin.Context) {
	var req services.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user, err := ac.authService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		ac.respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    toUserResponse(user),
	})
}

// Login handles POST /auth/login
func (ac *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	token, user, err := ac.authService.Login(ctx.Request.Context(), req.MobNumber, req.Password)
	if err != nil {
		ac.respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    toUserResponse(user),
	})
}

// Profile handles GET /auth/profile
func (ac *AuthController) Profile(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := ac.authService.Profile(ctx.Request.Context(), userID)
	if err != nil {
		ac.respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// UpdateProfile handles PUT /auth/profile
func (ac *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user, err := ac.authService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		ac.respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    toUserResponse(user),
	})
}

// DeleteAccount handles DELETE /auth/profile
func (ac *AuthController) DeleteAccount(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := ac.authService.DeleteAccount(ctx.Request.Context(), userID); err != nil {
		ac.respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

// AllProfiles handles GET /auth/users
func (ac *AuthController) AllProfiles(ctx *gin.Context) {
	users, err := ac.authService.AllProfiles(ctx.Request.Context())
	if err != nil {
		ac.respondServiceError(ctx, err)
		return
	}

	responses := make([]userResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	ctx.JSON(http.StatusOK, gin.H{"users": responses})
}

func (ac *AuthController) respondServiceError(ctx *gin.Context, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ac.logger.Error("auth request failed", zap.Error(err))
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
