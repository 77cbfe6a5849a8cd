package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/gridiron-sim-viewer/internal/middleware"
	"github.com/irfndi/gridiron-sim-viewer/internal/services"
	"github.com/irfndi/gridiron-sim-viewer/internal/session"
	"github.com/irfndi/gridiron-sim-viewer/internal/simengine"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type runnerFunc func(ctx context.Context, req simengine.SimulationRequest) (*simengine.SimulationResponse, error)

func (f runnerFunc) RunSimulation(ctx context.Context, req simengine.SimulationRequest) (*simengine.SimulationResponse, error) {
	return f(ctx, req)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func samples(metric string) []map[string]any {
	return []map[string]any{
		{simengine.FieldElapsed: 0.0, metric: 0.0},
		{simengine.FieldElapsed: 3600.0, metric: 42.0},
	}
}

func okResponse() *simengine.SimulationResponse {
	pct := 58.25
	return &simengine.SimulationResponse{
		ResultString:     "KC edges DAL.",
		HomeWinPct:       &pct,
		TotalStats:       []map[string]any{{"team": "KC"}, {"team": "DAL"}},
		HomePassStats:    samples(simengine.FieldPassYards),
		AwayPassStats:    samples(simengine.FieldPassYards),
		HomeRushStats:    samples(simengine.FieldRushYards),
		AwayRushStats:    samples(simengine.FieldRushYards),
		HomeScoringStats: samples(simengine.FieldTeamScore),
		AwayScoringStats: samples(simengine.FieldTeamScore),
	}
}

// harness wires one session router around a fake runner.
type harness struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
	orch   func() *services.Orchestrator
}

func newHarness(t *testing.T, runner services.SimulationRunner) *harness {
	t.Helper()
	logger := quietLogger()
	var last *services.Orchestrator
	registry := session.NewRegistry(func(string) *services.Orchestrator {
		last = services.NewOrchestrator(runner, services.OrchestratorConfig{
			Timeout:  5 * time.Second,
			Defaults: services.FormState{HomeTeam: "ATL", AwayTeam: "NO", NumSimulations: 10, GameModel: "proto"},
			Logger:   logger,
		})
		return last
	}, time.Hour, logger)
	t.Cleanup(registry.Close)

	sim := NewSimulationHandler(logger)
	charts := NewChartHandler(logger)

	router := gin.New()
	router.Use(middleware.Session(registry, "sim_session", time.Hour))
	router.GET("/", sim.Page)
	router.POST("/simulate", sim.SubmitForm)
	router.GET("/api/v1/catalog", sim.Catalog)
	router.GET("/api/v1/simulation", sim.GetSimulation)
	router.POST("/api/v1/simulation", sim.Submit)
	router.PUT("/api/v1/simulation/form", sim.UpdateForm)
	router.GET("/charts/win-probability.svg", charts.WinProbability)
	router.GET("/charts/featured-game.svg", charts.FeaturedGame)

	return &harness{t: t, router: router, orch: func() *services.Orchestrator { return last }}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	h.t.Helper()
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "sim_session" {
			h.cookie = c
		}
	}
	return w
}

func (h *harness) get(target string) *httptest.ResponseRecorder {
	return h.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (h *harness) sendJSON(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return h.do(req)
}
