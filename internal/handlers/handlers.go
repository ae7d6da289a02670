package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"techzeon/internal/database"
	apperrors "techzeon/internal/errors"
	"techzeon/internal/logger"
	"techzeon/internal/service"

	"github.com/gin-gonic/gin"
)

// DatabaseChecker reports whether a pooled connection can be acquired.
type DatabaseChecker interface {
	HealthCheck(ctx context.Context) database.HealthCheck
}

// HealthFunc checks one optional dependency.
type HealthFunc func(ctx context.Context) error

type Handlers struct {
	services *service.Services
	db       DatabaseChecker
	checks   map[string]HealthFunc
}

func NewHandlers(services *service.Services, db DatabaseChecker, checks map[string]HealthFunc) *Handlers {
	if checks == nil {
		checks = map[string]HealthFunc{}
	}
	return &Handlers{
		services: services,
		db:       db,
		checks:   checks,
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto the HTTP taxonomy. Anything not
// recognised is logged and answered with a 500 carrying fallback.
func respondError(c *gin.Context, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, apperrors.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, apperrors.ErrEventFull):
		c.JSON(http.StatusConflict, gin.H{"error": "Event is full"})
	case errors.Is(err, apperrors.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "Registration already cancelled"})
	case errors.Is(err, apperrors.ErrRevocationUnavailable):
		logger.WithContext(c.Request.Context()).Warn(fallback, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": fallback})
	default:
		logger.WithContext(c.Request.Context()).Error(fallback, "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
