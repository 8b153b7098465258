// ABOUTME: REST gateway to the friends backend
// ABOUTME: The only component performing network I/O; no retries, no caching
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/harperreed/friendlog/models"
)

// DefaultBaseURL is where the development backend listens.
const DefaultBaseURL = "http://127.0.0.1:5000"

// RequestIDHeader carries a per-request uuid for correlating logs.
const RequestIDHeader = "X-Request-ID"

// Config holds client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	// Registerer receives the gateway metrics; nil keeps them unregistered.
	Registerer prometheus.Registerer
}

// Client is the Remote Data Gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics
}

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m, err := newMetrics(cfg.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register gateway metrics: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger.Named("gateway"),
		metrics:    m,
	}, nil
}

// BaseURL returns the backend address this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListFriends fetches every friend.
func (c *Client) ListFriends(ctx context.Context) ([]models.Friend, error) {
	var friends []models.Friend
	if _, err := c.do(ctx, http.MethodGet, "/api/friends", nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// CreateFriend creates a friend. The result is nil when the backend answers
// without a JSON payload.
func (c *Client) CreateFriend(ctx context.Context, in models.FriendInput) (*models.Friend, error) {
	var friend models.Friend
	decoded, err := c.do(ctx, http.MethodPost, "/api/friends", in, &friend)
	if err != nil || !decoded {
		return nil, err
	}
	return &friend, nil
}

// UpdateFriend replaces the mutable fields of friend id.
func (c *Client) UpdateFriend(ctx context.Context, id int, in models.FriendInput) (*models.Friend, error) {
	var friend models.Friend
	decoded, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/friends/%d", id), in, &friend)
	if err != nil || !decoded {
		return nil, err
	}
	return &friend, nil
}

// DeleteFriend removes friend id.
func (c *Client) DeleteFriend(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/friends/%d", id), nil, nil)
	return err
}

// ListInteractions fetches the interaction log.
func (c *Client) ListInteractions(ctx context.Context) ([]models.Interaction, error) {
	var interactions []models.Interaction
	if _, err := c.do(ctx, http.MethodGet, "/api/interactions", nil, &interactions); err != nil {
		return nil, err
	}
	return interactions, nil
}

// CreateInteraction logs an interaction.
func (c *Client) CreateInteraction(ctx context.Context, in models.InteractionInput) (*models.Interaction, error) {
	var interaction models.Interaction
	decoded, err := c.do(ctx, http.MethodPost, "/api/interactions", in, &interaction)
	if err != nil || !decoded {
		return nil, err
	}
	return &interaction, nil
}

// DeleteInteraction removes interaction id.
func (c *Client) DeleteInteraction(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/interactions/%d", id), nil, nil)
	return err
}

// OverviewStats fetches the dashboard counters.
func (c *Client) OverviewStats(ctx context.Context) (*models.OverviewStats, error) {
	var stats models.OverviewStats
	decoded, err := c.do(ctx, http.MethodGet, "/api/stats/overview", nil, &stats)
	if err != nil || !decoded {
		return nil, err
	}
	return &stats, nil
}

// WeeklyActivity fetches the per-day interaction counts.
func (c *Client) WeeklyActivity(ctx context.Context) (*models.WeeklyActivity, error) {
	var activity models.WeeklyActivity
	decoded, err := c.do(ctx, http.MethodGet, "/api/stats/weekly", nil, &activity)
	if err != nil || !decoded {
		return nil, err
	}
	return &activity, nil
}

// do performs one round trip. It reports whether a JSON body was decoded
// into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (bool, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(method, path, 0, elapsed)
		c.logger.Debug("request failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return false, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.metrics.observe(method, path, resp.StatusCode, elapsed)
	c.logger.Debug("request completed",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			c.logger.Debug("failed to read error body", zap.String("path", path), zap.Error(readErr))
		}
		return false, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Method:     method,
			Path:       path,
			Body:       string(text),
		}
	}

	if out == nil || !isJSON(resp.Header.Get("Content-Type")) {
		return false, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return true, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
