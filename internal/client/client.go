// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"github.com/jeranaias/huddle-tui/internal/model"
)

// Configuration constants for the API client.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of retries for idempotent requests
	// that fail with a transient status.
	DefaultMaxRetries = 2

	retryBaseDelay = 250 * time.Millisecond

	// DefaultSearchLimit caps user autocomplete responses.
	DefaultSearchLimit = 25

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 8 * 1024 * 1024

	apiPrefix = "/api/v4"
)

// Error variables matched by APIError.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	ID      string
	Message string
}

func (e *APIError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("server error [%s] (HTTP %d): %s", e.ID, e.Status, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
}

// Is maps HTTP statuses onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

func (e *APIError) transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a chat server API client.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxRetries  int
	searchLimit int
	log         *zap.Logger

	mu     sync.RWMutex
	token  string
	userID string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken sets a personal access or session token, skipping Login.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithSearchLimit caps the number of users returned by SearchUsers.
func WithSearchLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithMaxRetries sets the retry budget for idempotent requests.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		searchLimit: DefaultSearchLimit,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserID returns the ID of the logged-in user, or "".
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// IsAuthenticated reports whether a token is set.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
	Token    string `json:"token,omitempty"`
}

// Login authenticates with a password. When mfaSecret is non-empty a TOTP
// code is generated from it and sent as the second factor.
func (c *Client) Login(ctx context.Context, username, password, mfaSecret string) (model.User, error) {
	req := loginRequest{LoginID: username, Password: password}
	if mfaSecret != "" {
		code, err := totp.GenerateCode(mfaSecret, time.Now())
		if err != nil {
			return model.User{}, fmt.Errorf("generate MFA code: %w", err)
		}
		req.Token = code
	}

	var user model.User
	resp, err := c.do(ctx, http.MethodPost, "/users/login", nil, req, &user)
	if err != nil {
		return model.User{}, fmt.Errorf("login: %w", err)
	}
	token := resp.Header.Get("Token")
	if token == "" {
		return model.User{}, fmt.Errorf("login: server returned no session token")
	}

	c.mu.Lock()
	c.token = token
	c.userID = user.ID
	c.mu.Unlock()

	c.log.Info("logged in", zap.String("user", user.Username))
	return user, nil
}

// Me fetches the authenticated user and remembers its ID.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	if _, err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &user); err != nil {
		return model.User{}, fmt.Errorf("fetch current user: %w", err)
	}
	c.mu.Lock()
	c.userID = user.ID
	c.mu.Unlock()
	return user, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do sends a request and decodes a JSON response into out (if non-nil).
// GET requests are retried on transient failures with exponential backoff.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.send(ctx, method, path, query, payload, out)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.transient() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Debug("request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, out interface{}) (*http.Response, error) {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil {
			apiErr.ID, apiErr.Message = body.ID, body.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp, nil
}
