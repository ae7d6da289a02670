package handlers

import (
	"net/http"

	"techzeon/internal/middleware"
	"techzeon/internal/models"

	"github.com/gin-gonic/gin"
)

// Login - POST /api/auth/login
// Вход по email и паролю, в ответе токен и роль пользователя
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.services.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "User not found", "Authentication failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register - POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.services.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "User not found", "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Logout - POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.services.Auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err, "User not found", "Failed to log out")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// Me - GET /api/auth/me
func (h *Handlers) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(user))
}
