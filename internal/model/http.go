// ABOUTME: HTTP client for a remote readiness scoring model.
// ABOUTME: Guarded by a circuit breaker and a request rate limiter.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harperreed/wellsync/internal/models"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// HTTPConfig configures an HTTPClient.
type HTTPConfig struct {
	URL           string
	Timeout       time.Duration
	RatePerSecond float64
}

// HTTPClient posts check-in history to a scoring endpoint.
type HTTPClient struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

var _ Predictor = (*HTTPClient)(nil)

type predictRequest struct {
	History []models.CheckIn `json:"history"`
}

// NewHTTPClient creates a client for the model at cfg.URL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("model url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	st := gobreaker.Settings{
		Name:     "scoring-model",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 3 {
				return true
			}
			if counts.Requests < 20 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > 0.2
		},
	}

	return &HTTPClient{
		url:     cfg.URL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker(st),
	}, nil
}

// Predict sends history to the model and decodes its prediction.
func (c *HTTPClient) Predict(ctx context.Context, history []models.CheckIn) (Prediction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Prediction{}, fmt.Errorf("%w: rate limit: %v", ErrModelUnavailable, err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, history)
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return out.(Prediction), nil
}

func (c *HTTPClient) post(ctx context.Context, history []models.CheckIn) (Prediction, error) {
	body, err := json.Marshal(predictRequest{History: history})
	if err != nil {
		return Prediction{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("post prediction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return Prediction{}, fmt.Errorf("model returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var p Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Prediction{}, fmt.Errorf("decode prediction: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Prediction{}, err
	}
	return p, nil
}
