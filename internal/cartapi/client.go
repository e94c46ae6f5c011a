// Package cartapi is the network boundary for cart operations: a thin
// client for the backend's /carts collection. It performs no retries and
// no caching.
package cartapi

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
	"time"

	"github.com/01moynul/bookstore-cart/internal/models"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// Client talks to GET/POST /carts and PUT/DELETE /carts/{id}.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (and its timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithToken sends "Authorization: Bearer <token()>" when token returns
// a non-empty string.
func WithToken(token func() string) Option {
	return func(c *Client) { c.token = token }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAll lists every cart row belonging to userID.
func (c *Client) GetAll(ctx context.Context, userID string) ([]models.CartRow, error) {
	path := "/carts?userId=" + url.QueryEscape(userID)

	var rows []models.CartRow
	if err := c.do(ctx, "list", http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.CartRow{}
	}
	return rows, nil
}

// Add creates a cart row from the full item payload. The server assigns
// the id.
func (c *Client) Add(ctx context.Context, item models.CartItem) (models.CartRow, error) {
	item.ID = ""

	var row models.CartRow
	err := c.do(ctx, "add", http.MethodPost, "/carts", item, &row)
	return row, err
}

// Update replaces the row id with the full item payload. The backend has
// no partial patch.
func (c *Client) Update(ctx context.Context, id string, item models.CartItem) (models.CartRow, error) {
	var row models.CartRow
	err := c.do(ctx, "update", http.MethodPut, "/carts/"+url.PathEscape(id), item, &row)
	return row, err
}

// Remove deletes the row id.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, "remove", http.MethodDelete, "/carts/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("cart request failed",
			zap.String("op", op), zap.String("method", method), zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return &Error{Op: op, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("cart request",
		zap.String("op", op), zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

// errorMessage prefers the backend's {"error": ...} or {"message": ...}.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "request timed out"
	}
	return "network error"
}
