// Package backend talks to the hosted backend that owns user records and auth.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/logger"
	"github.com/julianstephens/dayglow/internal/retry"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 4 << 10

type Config struct {
	BaseURL string
	AppID   string
	Token   string
	Timeout time.Duration
	Retry   retry.Options
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

type Client struct {
	base  *url.URL
	appID string
	token string
	http  *http.Client
	retry retry.Options
}

func New(cfg Config) (*Client, error) {
	if cfg.AppID == "" {
		return nil, ErrNoAppID
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultBackendURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if cfg.Retry.Retries == 0 && cfg.Retry.Delay == 0 {
		cfg.Retry = retry.DefaultOptions()
	}
	return &Client{
		base:  base,
		appID: cfg.AppID,
		token: cfg.Token,
		http:  hc,
		retry: cfg.Retry,
	}, nil
}

// SetToken replaces the bearer token, e.g. after Login.
func (c *Client) SetToken(token string) { c.token = token }

// HasToken reports whether requests will be authenticated.
func (c *Client) HasToken() bool { return c.token != "" }

func (c *Client) appPath(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return "/api/apps/" + url.PathEscape(c.appID) + "/" + strings.Join(escaped, "/")
}

// do sends one JSON request with retry and decodes the response into out when
// out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	_, err := retry.Do(ctx, c.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.send(ctx, method, path, query, payload, out)
	})
	return err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, out any) error {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-App-Id", c.appID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	logger.Debug("Backend request", "method", method, "path", path, "status", res.StatusCode, "duration", time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// Ping checks that the backend is reachable. Any HTTP response counts as
// reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	err := c.send(ctx, http.MethodGet, "/api/health", nil, nil, nil)
	if se, ok := err.(*StatusError); ok && !se.NetworkError() {
		return nil
	}
	return err
}
