package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/irfndi/gridiron-sim-viewer/internal/api"
	"github.com/irfndi/gridiron-sim-viewer/internal/config"
	"github.com/irfndi/gridiron-sim-viewer/internal/logging"
	"github.com/irfndi/gridiron-sim-viewer/internal/middleware"
	"github.com/irfndi/gridiron-sim-viewer/internal/services"
	"github.com/irfndi/gridiron-sim-viewer/internal/session"
	"github.com/irfndi/gridiron-sim-viewer/internal/simengine"
	"github.com/irfndi/gridiron-sim-viewer/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

// application is the fully wired viewer, ready to serve.
type application struct {
	server   *http.Server
	registry *session.Registry
	breaker  *services.CircuitBreaker
}

func run() error {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.InitTelemetry(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Exporter:       cfg.Telemetry.Exporter,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shutdown telemetry")
		}
	}()

	app := newApplication(cfg, logger, provider.TracerProvider())
	defer app.registry.Close()

	go app.registry.Run(ctx, cfg.Session.SweepInterval)

	serverErr := make(chan error, 1)
	go func() {
		logging.LogStartup(logger, cfg.Telemetry.ServiceName, cfg.Telemetry.ServiceVersion, cfg.Server.Port)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logging.LogShutdown(logger, cfg.Telemetry.ServiceName, "signal received")
	}

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited gracefully")
	return nil
}

// newApplication wires the engine client, breaker, sessions and routes.
func newApplication(cfg *config.Config, logger *logrus.Logger, tp trace.TracerProvider) *application {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	client := simengine.NewClient(&cfg.SimEngine, logger)
	breaker := services.NewCircuitBreaker("simengine", services.CircuitBreakerConfig{
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
		Timeout:          cfg.CircuitBreaker.Timeout,
		ResetTimeout:     cfg.CircuitBreaker.ResetTimeout,
		MaxRequests:      cfg.CircuitBreaker.MaxRequests,
	}, logger)

	tracer := tp.Tracer("github.com/irfndi/gridiron-sim-viewer/internal/services")
	defaults := services.FormState{
		HomeTeam:       cfg.Defaults.HomeTeam,
		AwayTeam:       cfg.Defaults.AwayTeam,
		NumSimulations: cfg.Defaults.NumSimulations,
		GameModel:      cfg.Defaults.GameModel,
	}
	registry := session.NewRegistry(func(string) *services.Orchestrator {
		return services.NewOrchestrator(client, services.OrchestratorConfig{
			Timeout:  cfg.SimEngine.RequestTimeout(),
			Defaults: defaults,
			Breaker:  breaker,
			Logger:   logger,
			Tracer:   tracer,
		})
	}, cfg.Session.IdleTTL, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName, otelgin.WithTracerProvider(tp)))
	router.Use(middleware.SpanAttributes())
	router.Use(middleware.RequestLogger(logger))

	api.SetupRoutes(router, api.Dependencies{
		Registry: registry,
		Engine:   client,
		Breaker:  breaker,
		Session:  cfg.Session,
		Logger:   logger,
		Version:  cfg.Telemetry.ServiceVersion,
	})

	return &application{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		registry: registry,
		breaker:  breaker,
	}
}
