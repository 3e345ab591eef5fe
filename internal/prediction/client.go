// Package prediction forwards queue state to the external wait-time and
// traffic predictor and relays its responses.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"restaurant-queue-backend/config"
)

// ErrUpstream wraps any transport failure or non-2xx answer from the
// predictor.
var ErrUpstream = errors.New("prediction service call failed")

// Response mirrors the predictor's JSON answer. Field names are relayed to
// the caller unchanged.
type Response struct {
	EstimatedWaitTime *float64         `json:"estimatedWaitTime,omitempty"`
	Confidence        *float64         `json:"confidence,omitempty"`
	Message           string           `json:"message,omitempty"`
	TimeSlots         []string         `json:"timeSlots,omitempty"`
	PredictedTraffic  []int            `json:"predictedTraffic,omitempty"`
	PeakPeriods       []map[string]any `json:"peakPeriods,omitempty"`
	ChartData         map[string]any   `json:"chartData,omitempty"`
	Error             string           `json:"error,omitempty"`
}

// Client talks to the predictor with a bounded timeout.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a predictor client.
func NewClient(cfg config.PredictionConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// PredictWaitTime forwards the payload to the wait-time endpoint.
func (c *Client) PredictWaitTime(ctx context.Context, payload map[string]any) (*Response, error) {
	return c.post(ctx, "/api/predict/wait-time", payload)
}

// PredictTraffic forwards the payload to the traffic endpoint.
func (c *Client) PredictTraffic(ctx context.Context, payload map[string]any) (*Response, error) {
	return c.post(ctx, "/api/predict/traffic", payload)
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("predictor unreachable", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("predictor returned failure",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return &out, nil
}
