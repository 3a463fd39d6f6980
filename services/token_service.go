package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenService is responsible for creating and validating JWTs.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
// Tokens live for 7 days, matching the session length buyers expect
// between placing orders from a saved login.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		ttl:       7 * 24 * time.Hour,
	}
}

// GenerateToken creates a signed access token for the given user.
func (s *TokenService) GenerateToken(userID uint, mobNumber string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       float64(userID),
		"mobNumber": mobNumber,
		"exp":       now.Add(s.ttl).Unix(),
		"iat":       now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken parses and validates a token string.
func (s *TokenService) ValidateToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
