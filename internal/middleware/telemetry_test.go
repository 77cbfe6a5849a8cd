package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRequestLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ok/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok/7", nil))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "/ok/:id", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func tracedContext(t *testing.T) (*tracetest.SpanRecorder, func(*gin.Context)) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	tracer := provider.Tracer("test")
	start := func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "request")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.End()
	}
	return recorder, start
}

func TestSpanAttributes(t *testing.T) {
	recorder, start := tracedContext(t)

	router := gin.New()
	router.Use(start, func(c *gin.Context) { c.Set(sessionIDKey, "abc"); c.Next() }, SpanAttributes())
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("session.id", "abc"))
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestRecordError(t *testing.T) {
	recorder, start := tracedContext(t)

	router := gin.New()
	router.Use(start)
	router.GET("/chart", func(c *gin.Context) {
		RecordError(c, errors.New("render failed"), "chart rendering failed")
		c.Status(http.StatusInternalServerError)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/chart", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "chart rendering failed", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}
