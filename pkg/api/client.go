// Package api is the gateway to the edandlinda REST server: one HTTP client
// attaching the bearer token to every request and applying the global 401
// policy, with opt-in fixed-delay retry for idempotent reads.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecsproull/edandlinda/internal/logging"
	"github.com/ecsproull/edandlinda/internal/metrics"
	"github.com/ecsproull/edandlinda/pkg/retry"
)

// Client talks to the edandlinda API server.
type Client struct {
	baseURL     string
	authPath    string
	httpClient  *http.Client
	retryConfig retry.Config

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// Config holds client configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RetryConfig retry.Config
	Token       string

	// OnUnauthorized runs synchronously on any 401 response, before the
	// error is returned to the caller. The transport carries no session
	// policy of its own.
	OnUnauthorized func()
}

// New creates a new client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryConfig.MaxAttempts == 0 {
		cfg.RetryConfig = retry.DefaultConfig()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	// The dev server on :3000 mounts auth directly under /api/v1/.
	authPath := "/api/v1/auth/"
	if strings.Contains(baseURL, ":3000") {
		authPath = "/api/v1/"
	}

	return &Client{
		baseURL:  baseURL,
		authPath: authPath,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		retryConfig:    cfg.RetryConfig,
		token:          cfg.Token,
		onUnauthorized: cfg.OnUnauthorized,
	}
}

// SetToken sets the bearer token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// SetUnauthorizedPolicy replaces the 401 callback.
func (c *Client) SetUnauthorizedPolicy(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// applyAuth adds the auth header to a request if a token is set. Requests
// without a token carry no Authorization header at all.
func (c *Client) applyAuth(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// handleUnauthorized applies the injected 401 policy.
func (c *Client) handleUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Retry runs fn with the client's fixed-delay policy, retrying network
// failures and 5xx responses. Callers opt in per call; nothing retries
// automatically.
func (c *Client) Retry(ctx context.Context, fn func() error) error {
	return retry.Do(ctx, c.retryConfig, func() error {
		return markRetryable(fn())
	})
}

func markRetryable(err error) error {
	if err == nil {
		return nil
	}
	if IsNetworkError(err) {
		return retry.Retryable(err)
	}
	if se, ok := AsServerError(err); ok && se.Status >= 500 {
		return retry.Retryable(err)
	}
	return err
}

// errorBody is the shape of server error responses.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// doJSON issues a JSON request and decodes the response into out (skipped
// when out is nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := c.send(ctx, method, path, reader, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// stream issues a request and hands the raw body back. The caller owns
// closing it.
func (c *Client) stream(ctx context.Context, method, path string, body interface{}) (io.ReadCloser, int64, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, reader, contentType)
	if err != nil {
		return nil, 0, err
	}

	if err := c.checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, 0, err
	}

	return resp.Body, resp.ContentLength, nil
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordRequest(method, path, 0)
		return nil, &NetworkError{Err: err}
	}
	metrics.RecordRequest(method, path, resp.StatusCode)
	return resp, nil
}

// checkStatus maps non-2xx statuses to ServerError and applies the 401
// policy. The response body is consumed only on error.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var eb errorBody
	msg := ""
	if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb) == nil {
		msg = eb.Message
		if msg == "" {
			msg = eb.Error
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		logging.Warn("request rejected with 401", zap.String("url", resp.Request.URL.Path))
		c.handleUnauthorized()
	}

	return &ServerError{Status: resp.StatusCode, Message: msg}
}
