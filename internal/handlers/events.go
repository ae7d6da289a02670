package handlers

import (
	"net/http"

	"techzeon/internal/models"

	"github.com/gin-gonic/gin"
)

const eventNotFound = "Event not found"

// ListEvents - GET /api/events
// Получить список событий, ?q= ищет по названию, ?category= фильтрует
func (h *Handlers) ListEvents(c *gin.Context) {
	filter := models.EventFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}

	events, err := h.services.Events.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, eventNotFound, "Failed to fetch events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// ListCategories - GET /api/events/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.services.Events.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, eventNotFound, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	event, err := h.services.Events.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, eventNotFound, "Failed to fetch event")
		return
	}

	c.JSON(http.StatusOK, event)
}

// CreateEvent - POST /api/events
// Создать событие (только администратор)
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, eventNotFound, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, models.CreateEventResponse{
		ID:      event.ID,
		Message: "Event created successfully",
	})
}

// UpdateEvent - PUT /api/events/:id
// Обновить все поля события
func (h *Handlers) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.services.Events.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, err, eventNotFound, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Event updated successfully"})
}

// DeleteEvent - DELETE /api/events/:id
func (h *Handlers) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	if err := h.services.Events.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, eventNotFound, "Failed to delete event")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Event deleted successfully"})
}
