package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/api/events", 200, time.Millisecond)
		m.RegistrationResult(ResultCreated)
		m.TicketCollision()
		m.Cancellation()
	})
}

func TestCounters(t *testing.T) {
	m := New()

	m.RegistrationResult(ResultCreated)
	m.RegistrationResult(ResultCreated)
	m.RegistrationResult(ResultFull)
	m.TicketCollision()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrations.WithLabelValues(ResultCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues(ResultFull)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticketCollisions))
}

func TestHandlerExposesRequests(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/events/:id", 404, 5*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `techzeon_http_requests_total{method="GET",route="/api/events/:id",status="404"} 1`)
}
