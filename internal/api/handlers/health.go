package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/irfndi/gridiron-sim-viewer/internal/services"
)

var startTime = time.Now()

// EngineHealthChecker probes the simulation engine.
type EngineHealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SessionCounter reports live sessions.
type SessionCounter interface {
	Len() int
}

type HealthHandler struct {
	engine   EngineHealthChecker
	breaker  *services.CircuitBreaker
	sessions SessionCounter
	version  string
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Sessions  int               `json:"sessions"`
	Breaker   *BreakerStatus    `json:"circuit_breaker,omitempty"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
}

type BreakerStatus struct {
	State string                       `json:"state"`
	Stats services.CircuitBreakerStats `json:"stats"`
}

func NewHealthHandler(engine EngineHealthChecker, breaker *services.CircuitBreaker, sessions SessionCounter, version string) *HealthHandler {
	return &HealthHandler{
		engine:   engine,
		breaker:  breaker,
		sessions: sessions,
		version:  version,
	}
}

// HealthCheck reports the viewer and its dependencies. The viewer itself is
// up even when the engine is not, so this always answers 200.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	checks := h.checkServices(c.Request.Context())

	overallStatus := "healthy"
	for _, status := range checks {
		if status != "healthy" {
			overallStatus = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Services:  checks,
		Version:   h.version,
		Uptime:    time.Since(startTime).String(),
	}
	if h.sessions != nil {
		response.Sessions = h.sessions.Len()
	}
	if h.breaker != nil {
		response.Breaker = &BreakerStatus{
			State: h.breaker.GetState().String(),
			Stats: h.breaker.GetStats(),
		}
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck answers 503 until simulations can actually be served.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	checks := h.checkServices(c.Request.Context())

	for _, status := range checks {
		if status != "healthy" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":    false,
				"services": checks,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ready":    true,
		"services": checks,
	})
}

func (h *HealthHandler) checkServices(ctx context.Context) map[string]string {
	checks := make(map[string]string)

	if h.engine != nil {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := h.engine.HealthCheck(ctx); err != nil {
			checks["simengine"] = "unhealthy: " + err.Error()
		} else {
			checks["simengine"] = "healthy"
		}
	} else {
		checks["simengine"] = "unhealthy: not configured"
	}

	if h.breaker != nil && h.breaker.IsOpen() {
		checks["circuit_breaker"] = "unhealthy: open"
	} else {
		checks["circuit_breaker"] = "healthy"
	}

	return checks
}
