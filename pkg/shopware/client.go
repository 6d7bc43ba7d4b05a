// Package shopware implements the sync half of the grabber: an admin API
// client that authenticates with OAuth2, resolves reference IDs, uploads
// media and creates or updates products.
package shopware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Config holds the client settings.
type Config struct {
	// URL is the shop base URL, e.g. "https://shop.example.com".
	URL string

	Username string
	Password string

	// SalesChannelID is stamped onto newly created products so they are
	// publicly visible.
	SalesChannelID string

	Timeout time.Duration
}

// Client talks to the Shopware admin API. It owns the HTTP session and the
// token state; the token is written by Auth and by the refresh loop only,
// and every outbound request reads it under the lock.
type Client struct {
	cfg      Config
	http     *http.Client
	log      *zap.SugaredLogger
	resolver *Resolver

	mu           sync.RWMutex
	tokenType    string
	accessToken  string
	refreshToken string
	refreshAfter time.Duration
}

// New creates a Client. Call Start before using it.
func New(cfg Config, log *zap.SugaredLogger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{cfg: cfg, log: log}
	c.resolver = newResolver(c.search)
	return c
}

// Start opens the HTTP session.
func (c *Client) Start() {
	c.http = &http.Client{Timeout: c.cfg.Timeout}
}

// Stop tears the session down. Safe to call after a failed Start sequence.
func (c *Client) Stop() {
	if c.http != nil {
		c.http.CloseIdleConnections()
	}
}

// doJSON sends a JSON request and returns the status code and raw body.
// When out is non-nil the body is additionally decoded into it; a decode
// failure on a non-JSON body is ignored so callers can still log the raw
// response.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.URL+path, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth := c.authHeader(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if out != nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, out)
	}
	return resp.StatusCode, raw, nil
}

type searchHit struct {
	ID string `json:"id"`
}

type searchRequest struct {
	Filter map[string]string `json:"filter"`
}

type searchResponse struct {
	Data []searchHit `json:"data"`
}

// search issues an exact-match filtered search for the given entity.
func (c *Client) search(ctx context.Context, entity string, filter map[string]string) ([]searchHit, error) {
	var out searchResponse
	status, raw, err := c.doJSON(ctx, http.MethodPost, "/api/search/"+entity, searchRequest{Filter: filter}, &out)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", entity, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search %s: unexpected status %d: %s", entity, status, raw)
	}
	return out.Data, nil
}
