package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger. Development gets a readable text
// format, every other environment gets JSON lines.
func NewLogger(level string, environment string) *logrus.Logger {
	return newLogger(os.Stdout, level, environment)
}

func newLogger(out io.Writer, level string, environment string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(ParseLogrusLevel(level))

	if strings.EqualFold(environment, "development") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

// ParseLogrusLevel converts string level to logrus.Level
func ParseLogrusLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// LogStartup logs application startup information
func LogStartup(logger logrus.FieldLogger, serviceName string, version string, port int) {
	logger.WithFields(logrus.Fields{
		"service": serviceName,
		"version": version,
		"port":    port,
		"event":   "startup",
	}).Info("Application startup")
}

// LogShutdown logs application shutdown information
func LogShutdown(logger logrus.FieldLogger, serviceName string, reason string) {
	logger.WithFields(logrus.Fields{
		"service": serviceName,
		"reason":  reason,
		"event":   "shutdown",
	}).Info("Application shutdown")
}

// LogAPIRequest logs API requests in a standardized format
func LogAPIRequest(logger logrus.FieldLogger, method string, path string, statusCode int, durationMs int64, sessionID string) {
	entry := logger.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status":      statusCode,
		"duration_ms": durationMs,
		"session_id":  sessionID,
		"event":       "api",
	})
	if statusCode >= 500 {
		entry.Error("API request")
		return
	}
	entry.Info("API request")
}
