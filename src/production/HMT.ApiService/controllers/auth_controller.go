package controllers

import (
	"net/http"
	"time"

	service "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/auth"
	"gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/middleware"
	api_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/api"

	"github.com/gin-gonic/gin"
)

// AuthController handles dashboard authentication requests
type AuthController struct {
	authService *service.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// LoginRequest holds the login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles user login
func (h *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenPair, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	// Set refresh token as HTTP-only cookie
	c.SetCookie(
		"refresh_token",
		tokenPair.RefreshToken,
		int(time.Until(time.Unix(tokenPair.ExpiresAt, 0)).Seconds()),
		"/",
		"",
		false, // Set to true in production with HTTPS
		true,  // HTTP only
	)

	c.JSON(http.StatusOK, api_models.AuthResponse{
		Token:    tokenPair.AccessToken,
		UserID:   user.UserID,
		Username: user.Username,
	})
}

// Logout handles user logout
func (h *AuthController) Logout(c *gin.Context) {
	// Clear the refresh token cookie
	c.SetCookie(
		"refresh_token",
		"",
		-1,
		"/",
		"",
		false,
		true,
	)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me retrieves the authenticated user's profile
func (h *AuthController) Me(c *gin.Context) {
	userID, err := middleware.GetUserFromGinContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// RegisterRoutes registers the auth routes with Gin
func (h *AuthController) RegisterRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}

	protected := auth.Group("", authMiddleware.Authenticate())
	{
		protected.GET("/me", h.Me)
	}
}
