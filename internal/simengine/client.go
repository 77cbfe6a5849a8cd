package simengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irfndi/gridiron-sim-viewer/internal/config"
)

// maxErrorBody caps how much of an error body ends up in a message.
const maxErrorBody = 256

// Client talks to the remote simulation engine over JSON/HTTP.
type Client struct {
	HTTPClient   *http.Client
	baseURL      string
	simulatePath string
	healthPath   string
	logger       *logrus.Logger
}

// NewClient creates a new simulation engine client.
//
// The HTTP client carries no timeout of its own; every call is bounded by the
// caller's context.
func NewClient(cfg *config.SimEngineConfig, logger *logrus.Logger) *Client {
	simulatePath := cfg.SimulatePath
	if simulatePath == "" {
		simulatePath = "/run-simulation"
	}
	healthPath := cfg.HealthPath
	if healthPath == "" {
		healthPath = "/health"
	}

	client := &Client{
		HTTPClient:   &http.Client{},
		baseURL:      strings.TrimSuffix(cfg.ServiceURL, "/"),
		simulatePath: simulatePath,
		healthPath:   healthPath,
		logger:       logger,
	}
	logger.WithField("base_url", client.baseURL).Info("Simulation engine client initialized")
	return client
}

// RunSimulation issues one simulation batch and decodes the result.
func (c *Client) RunSimulation(ctx context.Context, req SimulationRequest) (*SimulationResponse, error) {
	var response SimulationResponse
	if err := c.makeRequest(ctx, http.MethodPost, c.simulatePath, req, &response); err != nil {
		return nil, err
	}
	if response.HomeWinPct == nil {
		return nil, fmt.Errorf("%w: home_win_pct missing", ErrMalformedResponse)
	}
	if p := *response.HomeWinPct; p < 0 || p > 100 {
		return nil, fmt.Errorf("%w: home_win_pct %v outside [0, 100]", ErrMalformedResponse, p)
	}
	return &response, nil
}

// HealthCheck pings the engine's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.makeRequest(ctx, http.MethodGet, c.healthPath, nil, nil)
}

// BaseURL returns the base URL of the simulation engine.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// makeRequest is a helper method to make HTTP requests to the engine
func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Gridiron-Sim-Viewer/1.0")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach simulation engine: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Error closing response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Simulation engine call finished")

	if resp.StatusCode >= 400 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: errorResp.Error}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: truncate(strings.TrimSpace(string(respBody)), maxErrorBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
