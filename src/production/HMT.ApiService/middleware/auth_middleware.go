package middleware

import (
	"errors"
	"net/http"
	"strings"

	jwt "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/jwt"

	"github.com/gin-gonic/gin"
)

// Key types for request context
type contextKey string

const (
	UserIDContextKey      contextKey = "user_id"
	TokenIDContextKey     contextKey = "token_id"
	AccessTokenContextKey contextKey = "access_token"
)

// AuthMiddleware provides middleware functions for authentication
type AuthMiddleware struct {
	jwtService *jwt.Service
	config     Config
}

// Config holds middleware configuration
type Config struct {
	// HTTP header name for the access token
	AccessTokenHeader string

	// Cookie name for the access token (optional alternative to the header)
	AccessTokenCookie string
}

// DefaultConfig returns a default middleware configuration
func DefaultConfig() Config {
	return Config{
		AccessTokenHeader: "Authorization",
		AccessTokenCookie: "access_token",
	}
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtService *jwt.Service, config Config) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		config:     config,
	}
}

// extractToken gets a token from either header or cookie
func extractToken(r *http.Request, headerName, cookieName string) string {
	token := r.Header.Get(headerName)
	if token != "" {
		// Handle Authorization: Bearer token format
		if strings.HasPrefix(token, "Bearer ") {
			return strings.TrimPrefix(token, "Bearer ")
		}
		return token
	}

	if cookieName != "" {
		cookie, err := r.Cookie(cookieName)
		if err == nil {
			return cookie.Value
		}
	}

	return ""
}

// Authenticate middleware verifies the access token
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := extractToken(c.Request, m.config.AccessTokenHeader, m.config.AccessTokenCookie)
		if accessToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		accessClaims, err := m.jwtService.ValidateAccessToken(accessToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
			c.Abort()
			return
		}

		c.Set(string(UserIDContextKey), accessClaims.UserID)
		c.Set(string(TokenIDContextKey), accessClaims.TokenID)
		c.Set(string(AccessTokenContextKey), accessToken)

		c.Next()
	}
}

// GetUserFromGinContext retrieves the user ID from the Gin context
func GetUserFromGinContext(c *gin.Context) (string, error) {
	userIDVal, exists := c.Get(string(UserIDContextKey))
	if !exists {
		return "", errors.New("user not found in context")
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", errors.New("invalid user ID format in context")
	}

	return userID, nil
}
