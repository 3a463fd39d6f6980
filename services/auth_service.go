package services

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"marketplace-api/models"
	repositories "marketplace-api/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)
)

type SignupRequest struct {
	Email     string `json:"email"`
	MobNumber string `json:"MobNumber"`
	Password  string `json:"password"`
}

// AuthService owns signup, login and profile management.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenService
	logger   *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{userRepo: userRepo, tokens: tokens, logger: logger}
}

// validateSignup enforces the account field rules. Messages are
// returned verbatim to the client.
func validateSignup(req *SignupRequest) *ServiceError {
	if !emailPattern.MatchString(req.Email) {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid email format"}
	}
	if !mobNumberPattern.MatchString(req.MobNumber) {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Mobile number must be 10 digits"}
	}
	if len(req.Password) < 6 {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Password must be at least 6 characters"}
	}
	return nil
}

func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*models.User, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "User already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByMobNumber(ctx, req.MobNumber); err == nil {
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "User already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Password:  string(hashed),
		MobNumber: req.MobNumber,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login authenticates by mobile number and returns a signed token.
func (s *AuthService) Login(ctx context.Context, mobNumber, password string) (string, *models.User, error) {
	if mobNumber == "" || password == "" {
		return "", nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Please provide mobile number and password"}
	}

	user, err := s.userRepo.FindByMobNumber(ctx, mobNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid password"}
	}

	token, err := s.tokens.GenerateToken(user.ID, user.MobNumber)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req *SignupRequest) (*models.User, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
		}
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.MobNumber = req.MobNumber
	user.Password = string(hashed)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
		}
		return err
	}
	s.logger.Info("account deleted", zap.Uint("user_id", userID))
	return nil
}

// AllProfiles lists every account without credential fields.
func (s *AuthService) AllProfiles(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindAll(ctx)
}
