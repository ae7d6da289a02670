package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TestConnection - GET /api/test
// Проверить, что из пула можно получить соединение
func (h *Handlers) TestConnection(c *gin.Context) {
	check := h.db.HealthCheck(c.Request.Context())
	if !check.Healthy() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database connection successful"})
}

// Health - GET /health
func (h *Handlers) Health(c *gin.Context) {
	ctx := c.Request.Context()

	dbCheck := h.db.HealthCheck(ctx)
	status := http.StatusOK
	overall := "healthy"
	if !dbCheck.Healthy() {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	dependencies := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			dependencies[name] = err.Error()
			if overall == "healthy" {
				overall = "degraded"
			}
			continue
		}
		dependencies[name] = "ok"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"database":     dbCheck,
		"dependencies": dependencies,
	})
}
