package middleware

import (
	"errors"
	"net/http"
	"strings"

	"marketplace-api/services"

	"github.com/gin-gonic/gin"
)

const UserContextKey = "userID"

// AuthMiddleware validates the bearer token and stores the resolved
// buyer identity in the request context. Requests with no resolved
// identity never reach the handlers behind it.
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		// Accept both "Bearer <token>" and a raw token
		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		sub, ok := claims["sub"].(float64)
		if !ok || sub <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserContextKey, uint(sub))
		c.Next()
	}
}

// GetUserID extracts the authenticated user's ID from the gin context.
func GetUserID(c *gin.Context) (uint, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(uint); ok && id > 0 {
			return id, nil
		}
	}
	return 0, errors.New("user ID not found in context")
}
