// Package api is the HTTP client for the remote todo service.
package api

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

	"github.com/google/uuid"

	"github.com/idilsaglam/tododash/internal/model"
)

const (
	OpListTodos  = "list todos"
	OpAnalytics  = "get analytics"
	OpCreateTodo = "create todo"
	OpToggleTodo = "toggle todo"
)

// Client talks to the todo service rooted at a base URL.
type Client struct {
	base  *url.URL
	http  *http.Client
	reqID func() string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(fn func() string) Option {
	return func(c *Client) { c.reqID = fn }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}
	c := &Client{
		base:  u,
		http:  &http.Client{Timeout: 10 * time.Second},
		reqID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string { return c.base.String() }

// ListTodos fetches the full collection.
func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, OpListTodos, http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Analytics fetches the aggregate snapshot.
func (c *Client) Analytics(ctx context.Context) (model.Analytics, error) {
	a := model.EmptyAnalytics()
	if err := c.do(ctx, OpAnalytics, http.MethodGet, "/api/analytics", nil, &a); err != nil {
		return model.Analytics{}, err
	}
	if a.CategoryCounts == nil {
		a.CategoryCounts = model.CategoryCounts{}
	}
	if a.PriorityCounts == nil {
		a.PriorityCounts = map[int]int{}
	}
	return a, nil
}

// CreateTodo submits d unchanged. The response body is ignored.
func (c *Client) CreateTodo(ctx context.Context, d model.Draft) error {
	return c.do(ctx, OpCreateTodo, http.MethodPost, "/api/todos", d, nil)
}

// ToggleTodo flips the done state of the todo with the given id.
func (c *Client) ToggleTodo(ctx context.Context, id string) error {
	p := "/api/todos/" + url.PathEscape(id) + "/toggle"
	return c.do(ctx, OpToggleTodo, http.MethodPut, p, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	rid := c.reqID()
	fail := func(status int, err error) error {
		return &RequestFailed{Op: op, Method: method, Path: path, Status: status, RequestID: rid, Err: err}
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fail(0, fmt.Errorf("encode body: %w", err))
		}
		rd = bytes.NewReader(b)
	}

	// path is already escaped.
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rd)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", rid)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
