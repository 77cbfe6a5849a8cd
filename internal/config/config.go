package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
)

type Config struct {
	Environment    string               `mapstructure:"environment"`
	LogLevel       string               `mapstructure:"log_level"`
	Server         ServerConfig         `mapstructure:"server"`
	SimEngine      SimEngineConfig      `mapstructure:"simengine"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Session        SessionConfig        `mapstructure:"session"`
	Defaults       FormDefaults         `mapstructure:"defaults"`
	Telemetry      TelemetryConfig      `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SimEngineConfig points at the remote simulation engine.
// Timeout is in seconds and bounds a whole simulation run.
type SimEngineConfig struct {
	ServiceURL   string `mapstructure:"service_url"`
	SimulatePath string `mapstructure:"simulate_path"`
	HealthPath   string `mapstructure:"health_path"`
	Timeout      int    `mapstructure:"timeout"`
}

type CircuitBreakerConfig struct {
	FailureThreshold int           `mapstructure:"failure_threshold"`
	SuccessThreshold int           `mapstructure:"success_threshold"`
	Timeout          time.Duration `mapstructure:"timeout"`
	ResetTimeout     time.Duration `mapstructure:"reset_timeout"`
	MaxRequests      int           `mapstructure:"max_requests"`
}

type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// FormDefaults seeds the simulation form of every new session.
type FormDefaults struct {
	HomeTeam       string `mapstructure:"home_team"`
	AwayTeam       string `mapstructure:"away_team"`
	NumSimulations int    `mapstructure:"num_simulations"`
	GameModel      string `mapstructure:"game_model"`
}

type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Exporter       string `mapstructure:"exporter"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
}

// RequestTimeout returns the simulation timeout as a duration.
func (c SimEngineConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set default values
	setDefaults(v)

	// Enable environment variable support
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the values viper cannot check on its own.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.SimEngine.ServiceURL == "" {
		return errors.New("simengine.service_url is required")
	}
	if c.SimEngine.Timeout <= 0 {
		return fmt.Errorf("simengine timeout must be positive, got %d", c.SimEngine.Timeout)
	}

	if _, err := models.ParseTeamCode(c.Defaults.HomeTeam); err != nil {
		return fmt.Errorf("invalid default home team: %w", err)
	}
	if _, err := models.ParseTeamCode(c.Defaults.AwayTeam); err != nil {
		return fmt.Errorf("invalid default away team: %w", err)
	}
	if _, err := models.ParseGameModel(c.Defaults.GameModel); err != nil {
		return fmt.Errorf("invalid default game model: %w", err)
	}
	if c.Defaults.NumSimulations <= 0 {
		return fmt.Errorf("default simulation count must be positive, got %d", c.Defaults.NumSimulations)
	}

	switch c.Telemetry.Exporter {
	case "stdout", "otlp":
	default:
		return fmt.Errorf("unknown telemetry exporter %q", c.Telemetry.Exporter)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// Environment
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "0s")

	// Simulation engine
	v.SetDefault("simengine.service_url", "http://localhost:5000")
	v.SetDefault("simengine.simulate_path", "/run-simulation")
	v.SetDefault("simengine.health_path", "/health")
	v.SetDefault("simengine.timeout", 300)

	// Circuit breaker
	v.SetDefault("circuit_breaker.failure_threshold", 5)
	v.SetDefault("circuit_breaker.success_threshold", 1)
	v.SetDefault("circuit_breaker.timeout", "30s")
	v.SetDefault("circuit_breaker.reset_timeout", "5m")
	v.SetDefault("circuit_breaker.max_requests", 1)

	// Sessions
	v.SetDefault("session.cookie_name", "sim_session")
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.sweep_interval", "1m")

	// Form defaults
	v.SetDefault("defaults.home_team", "ATL")
	v.SetDefault("defaults.away_team", "NO")
	v.SetDefault("defaults.num_simulations", 10)
	v.SetDefault("defaults.game_model", "proto")

	// Telemetry
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.exporter", "stdout")
	v.SetDefault("telemetry.otlp_endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.service_name", "gridiron-sim-viewer")
	v.SetDefault("telemetry.service_version", "1.0.0")
}
