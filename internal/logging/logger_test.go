package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogrusLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"info", logrus.InfoLevel},
		{"bogus", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogrusLevel(tt.input))
		})
	}
}

func TestNewLogger_Formatter(t *testing.T) {
	dev := NewLogger("debug", "development")
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)
	assert.Equal(t, logrus.DebugLevel, dev.GetLevel())

	prod := NewLogger("warn", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)
	assert.Equal(t, logrus.WarnLevel, prod.GetLevel())
}

func TestLogAPIRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "production")

	LogAPIRequest(logger, "POST", "/simulate", 303, 12, "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "API request", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/simulate", entry["path"])
	assert.Equal(t, float64(303), entry["status"])
	assert.Equal(t, "abc", entry["session_id"])
}

func TestLogAPIRequest_ServerErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "production")

	LogAPIRequest(logger, "GET", "/", 500, 3, "")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
}

func TestLogStartupAndShutdown(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "production")

	LogStartup(logger, "viewer", "1.0.0", 8080)
	LogShutdown(logger, "viewer", "signal received")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var start, stop map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &start))
	require.NoError(t, json.Unmarshal(lines[1], &stop))
	assert.Equal(t, "startup", start["event"])
	assert.Equal(t, float64(8080), start["port"])
	assert.Equal(t, "shutdown", stop["event"])
	assert.Equal(t, "signal received", stop["reason"])
}
