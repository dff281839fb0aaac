// Package apiclient provides the HTTP client for the remote cats collection
// resource. Every hooked request passes through the configured Hooks, which
// carry the busy indicator and failure logging.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/catsfront/catsfront/internal/model"
)

const (
	// MaxResponseSize is the maximum response body read from the API (1MB).
	MaxResponseSize = 1 << 20

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "catsfront/1.0"

	collectionPath = "/cats/"
)

// Operation names passed to hooks and carried by RequestError.
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpPing   = "ping"
)

// Client talks to the cats collection resource.
type Client struct {
	baseURL   string
	http      *http.Client
	hooks     []Hook
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithHooks appends request hooks. Hooks run in order before dispatch and
// in reverse order after settlement.
func WithHooks(hooks ...Hook) Option {
	return func(c *Client) {
		c.hooks = append(c.hooks, hooks...)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(parsed.String(), "/"),
		http:      NewHTTPClient(DefaultTimeout),
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches the full collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Cat, error) {
	var cats []model.Cat
	if err := c.do(ctx, OpList, http.MethodGet, collectionPath, nil, &cats, true); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []model.Cat{}
	}
	return cats, nil
}

// Create posts a new record and returns the created cat.
func (c *Client) Create(ctx context.Context, in model.CatInput) (*model.Cat, error) {
	var cat model.Cat
	if err := c.do(ctx, OpCreate, http.MethodPost, collectionPath, in, &cat, true); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Update replaces the mutable fields of the cat addressed by id.
func (c *Client) Update(ctx context.Context, id int64, in model.CatInput) (*model.Cat, error) {
	var cat model.Cat
	if err := c.do(ctx, OpUpdate, http.MethodPut, catPath(id), in, &cat, true); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Delete removes the cat addressed by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, OpDelete, http.MethodDelete, catPath(id), nil, nil, true)
}

// Ping checks that the collection resource answers. It bypasses hooks so
// health probes do not flip the busy indicator or log as user failures.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, OpPing, http.MethodGet, collectionPath+"?limit=1", nil, nil, false)
}

func catPath(id int64) string {
	return "/cats/" + strconv.FormatInt(id, 10)
}

// do executes one request. A nil out discards the response body.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any, hooked bool) error {
	reqErr := func(status int, message string, payload []byte, cause error) *RequestError {
		return &RequestError{
			Op:      op,
			Method:  method,
			Path:    path,
			Status:  status,
			Detail:  parseDetail(payload),
			Body:    payload,
			Message: message,
			Err:     cause,
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return reqErr(0, "encode request: "+err.Error(), nil, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return reqErr(0, "create request: "+err.Error(), nil, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var afters []func(Outcome)
	if hooked {
		afters = make([]func(Outcome), 0, len(c.hooks))
		for _, h := range c.hooks {
			if after := h(ctx, op, req); after != nil {
				afters = append(afters, after)
			}
		}
	}

	start := time.Now()
	status, failure := c.send(req, out, reqErr)
	outcome := Outcome{Status: status, Duration: time.Since(start), Err: failure}

	for i := len(afters) - 1; i >= 0; i-- {
		afters[i](outcome)
	}

	if failure != nil {
		return failure
	}
	return nil
}

func (c *Client) send(req *http.Request, out any, reqErr func(int, string, []byte, error) *RequestError) (int, *RequestError) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, reqErr(0, err.Error(), nil, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return resp.StatusCode, reqErr(resp.StatusCode, "read response: "+err.Error(), nil, err)
	}
	if len(payload) > MaxResponseSize {
		return resp.StatusCode, reqErr(resp.StatusCode,
			fmt.Sprintf("response exceeds %d bytes", MaxResponseSize), nil, nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, reqErr(resp.StatusCode,
			fmt.Sprintf("request failed with status code %d", resp.StatusCode), payload, nil)
	}

	if out != nil && len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			failure := reqErr(resp.StatusCode, "decode response: "+err.Error(), payload, err)
			failure.Detail = ""
			return resp.StatusCode, failure
		}
	}

	return resp.StatusCode, nil
}
