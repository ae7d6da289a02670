package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"techzeon/internal/auth"
	apperrors "techzeon/internal/errors"
	"techzeon/internal/metrics"
	"techzeon/internal/models"
)

type fakeAuthenticator struct {
	authenticate func(ctx context.Context, token string) (*models.User, *auth.Claims, error)
}

func (f fakeAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, *auth.Claims, error) {
	return f.authenticate(ctx, token)
}

var tokenUsers = fakeAuthenticator{
	authenticate: func(_ context.Context, token string) (*models.User, *auth.Claims, error) {
		switch token {
		case "admin-token":
			return &models.User{ID: 1, Role: models.RoleAdmin}, &auth.Claims{UserID: 1}, nil
		case "user-token":
			return &models.User{ID: 2, Role: models.RoleUser}, &auth.Claims{UserID: 2}, nil
		case "broken-store":
			return nil, nil, errors.New("connection refused")
		}
		return nil, nil, apperrors.ErrUnauthorized
	},
}

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ID})
}

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/me", Authenticate(tokenUsers), whoami)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"bad token", "garbage", http.StatusUnauthorized},
		{"store failure", "broken-store", http.StatusInternalServerError},
		{"valid", "user-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, http.MethodGet, "/me", tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/maybe", OptionalAuthenticate(tokenUsers), whoami)

	w := perform(r, http.MethodGet, "/maybe", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())

	w = perform(r, http.MethodGet, "/maybe", "user-token")
	assert.JSONEq(t, `{"user":2}`, w.Body.String())

	w = perform(r, http.MethodGet, "/maybe", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.DELETE("/events/1", Authenticate(tokenUsers), RequireRole(models.RoleAdmin), whoami)

	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodDelete, "/events/1", "user-token").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodDelete, "/events/1", "admin-token").Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = perform(r, http.MethodGet, "/ping", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.PUT("/events/1", whoami)

	w := perform(r, http.MethodOptions, "/events/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRecoveryReturnsJSON(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := perform(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/slow", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})

	w := perform(r, http.MethodGet, "/slow", "")
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/events/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	perform(r, http.MethodGet, "/api/events/1", "")
	perform(r, http.MethodGet, "/api/events/2", "")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `route="/api/events/:id",status="404"} 2`)
}
