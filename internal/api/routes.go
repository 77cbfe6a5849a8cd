package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/gridiron-sim-viewer/internal/api/handlers"
	"github.com/irfndi/gridiron-sim-viewer/internal/config"
	"github.com/irfndi/gridiron-sim-viewer/internal/middleware"
	"github.com/irfndi/gridiron-sim-viewer/internal/services"
	"github.com/irfndi/gridiron-sim-viewer/internal/session"
)

// Dependencies are the collaborators the HTTP surface needs.
type Dependencies struct {
	Registry *session.Registry
	Engine   handlers.EngineHealthChecker
	Breaker  *services.CircuitBreaker
	Session  config.SessionConfig
	Logger   *logrus.Logger
	Version  string
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.Engine, deps.Breaker, deps.Registry, deps.Version)
	simulationHandler := handlers.NewSimulationHandler(deps.Logger)
	chartHandler := handlers.NewChartHandler(deps.Logger)

	// Health check endpoints stay outside sessions so probes never create one
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)

	// Everything else belongs to the caller's session
	viewer := router.Group("/")
	viewer.Use(middleware.Session(deps.Registry, deps.Session.CookieName, deps.Session.IdleTTL))
	{
		viewer.GET("/", simulationHandler.Page)
		viewer.POST("/simulate", simulationHandler.SubmitForm)

		charts := viewer.Group("/charts")
		{
			charts.GET("/win-probability.svg", chartHandler.WinProbability)
			charts.GET("/featured-game.svg", chartHandler.FeaturedGame)
		}

		v1 := viewer.Group("/api/v1")
		{
			v1.GET("/catalog", simulationHandler.Catalog)

			simulation := v1.Group("/simulation")
			{
				simulation.GET("", simulationHandler.GetSimulation)
				simulation.POST("", simulationHandler.Submit)
				simulation.PUT("/form", simulationHandler.UpdateForm)
			}
		}
	}
}
