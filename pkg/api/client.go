// Package api provides the role-scoped REST clients for the Bridge API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// SessionHeader carries the session token on authenticated requests.
const SessionHeader = "Bridge-Session"

const defaultRequestTimeout = 30 * time.Second

// Client is the base HTTP client the role-scoped API groups share. One
// Client is bound to one principal: signing in stores the session token,
// signing out clears it.
type Client struct {
	baseURL    string
	appID      string
	httpClient *http.Client

	mu           sync.RWMutex
	sessionToken string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a client for the given base URL and app identifier.
func NewClient(baseURL, appID string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" || appID == "" {
		return nil, bridge.NewError(bridge.KindBadRequest, "baseURL and appID are required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AppID returns the app identifier the client was created for.
func (c *Client) AppID() string {
	return c.appID
}

// SessionToken returns the current session token, empty when signed out.
func (c *Client) SessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionToken
}

func (c *Client) setSessionToken(token string) {
	c.mu.Lock()
	c.sessionToken = token
	c.mu.Unlock()
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return bridge.WrapError(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", c.baseURL, path), reader)
	if err != nil {
		return bridge.WrapError(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.SessionToken(); token != "" {
		req.Header.Set(SessionHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return bridge.WrapError(err, fmt.Sprintf("%s %s failed", method, path))
	}
	return parseResponse(resp, result)
}
