package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/gridiron-sim-viewer/internal/services"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type fixedSessions int

func (f fixedSessions) Len() int { return int(f) }

func healthRouter(h *HealthHandler) *gin.Engine {
	router := gin.New()
	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadinessCheck)
	return router
}

func TestHealthHandler_Healthy(t *testing.T) {
	engine := &MockEngine{}
	engine.On("HealthCheck", mock.Anything).Return(nil)
	breaker := services.NewCircuitBreaker("simengine", services.CircuitBreakerConfig{}, quietLogger())
	router := healthRouter(NewHealthHandler(engine, breaker, fixedSessions(3), "1.2.3"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Services["simengine"])
	assert.Equal(t, 3, resp.Sessions)
	assert.Equal(t, "1.2.3", resp.Version)
	require.NotNil(t, resp.Breaker)
	assert.Equal(t, "closed", resp.Breaker.State)
	engine.AssertExpectations(t)
}

func TestHealthHandler_EngineDown(t *testing.T) {
	engine := &MockEngine{}
	engine.On("HealthCheck", mock.Anything).Return(errors.New("connection refused"))
	router := healthRouter(NewHealthHandler(engine, nil, nil, "test"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unhealthy: connection refused", resp.Services["simengine"])

	ready := httptest.NewRecorder()
	router.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
	assert.Contains(t, ready.Body.String(), `"ready":false`)
}

func TestHealthHandler_BreakerOpen(t *testing.T) {
	engine := &MockEngine{}
	engine.On("HealthCheck", mock.Anything).Return(nil)
	breaker := services.NewCircuitBreaker("simengine", services.CircuitBreakerConfig{FailureThreshold: 1}, quietLogger())
	_ = breaker.Execute(context.Background(), func(context.Context) error { return errors.New("down") })
	router := healthRouter(NewHealthHandler(engine, breaker, nil, "test"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy: open")
}
