package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/irfndi/gridiron-sim-viewer/internal/logging"
)

// RequestLogger logs every request through logrus once it completes.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logging.LogAPIRequest(logger, c.Request.Method, path, c.Writer.Status(), time.Since(start).Milliseconds(), SessionID(c))
	}
}

// SpanAttributes tags the request span started by otelgin with the session
// id and marks server errors.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := SessionID(c); id != "" {
			span.SetAttributes(attribute.String("session.id", id))
		}
		if status := c.Writer.Status(); status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}

// RecordError records an error on the current request span.
func RecordError(c *gin.Context, err error, description string) {
	span := trace.SpanFromContext(c.Request.Context())
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, description)
	}
}
