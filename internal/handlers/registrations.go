package handlers

import (
	"net/http"

	"techzeon/internal/middleware"
	"techzeon/internal/models"

	"github.com/gin-gonic/gin"
)

// ListRegistrations - GET /api/registrations
// Все регистрации с названием события (только администратор)
func (h *Handlers) ListRegistrations(c *gin.Context) {
	regs, err := h.services.Registrations.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Registration not found", "Failed to fetch registrations")
		return
	}

	c.JSON(http.StatusOK, regs)
}

// ListMyRegistrations - GET /api/registrations/mine
func (h *Handlers) ListMyRegistrations(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	regs, err := h.services.Registrations.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "Registration not found", "Failed to fetch registrations")
		return
	}

	c.JSON(http.StatusOK, regs)
}

// CreateRegistration - POST /api/registrations
// Зарегистрироваться на событие, в ответе номер билета
func (h *Handlers) CreateRegistration(c *gin.Context) {
	var req models.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _ := middleware.CurrentUser(c)

	reg, err := h.services.Registrations.Create(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err, eventNotFound, "Failed to register for event")
		return
	}

	c.JSON(http.StatusCreated, models.CreateRegistrationResponse{
		ID:       reg.ID,
		TicketID: *reg.TicketID,
		Message:  "Registration successful",
	})
}

// CancelRegistration - PATCH /api/registrations/:id/cancel
// Отменить регистрацию (владелец или администратор)
func (h *Handlers) CancelRegistration(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration id"})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.services.Registrations.Cancel(c.Request.Context(), user, id); err != nil {
		respondError(c, err, "Registration not found", "Failed to cancel registration")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Registration cancelled"})
}
