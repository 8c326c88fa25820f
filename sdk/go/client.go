// Package sdk is a Go client for the rankboard HTTP and WebSocket API.
package sdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"rankboard/analytics"
	"rankboard/core"
)

// Option configures the Client.
type Option func(*Client)

// Client provides typed access to the rankboard HTTP + WebSocket API.
type Client struct {
	baseURL    string
	wsURL      string
	httpClient *http.Client
	headers    http.Header
}

// NewClient constructs a new SDK client targeting the given baseURL (e.g., http://localhost:8080/api).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	c := &Client{
		baseURL:    baseURL,
		wsURL:      deriveWSURL(baseURL),
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithAuthToken adds an Authorization: Bearer header to all requests (HTTP + WS).
func WithAuthToken(token string) Option {
	return func(c *Client) {
		if strings.TrimSpace(token) != "" {
			c.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithAPIKey adds an X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if strings.TrimSpace(key) != "" {
			c.headers.Set("X-API-Key", key)
		}
	}
}

// Board fetches up to limit leading standings; limit <= 0 fetches all.
func (c *Client) Board(ctx context.Context, limit int) (Board, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var b Board
	err := c.do(ctx, http.MethodGet, "/board", q, &b)
	return b, err
}

// Sort asks the server to fully re-sort the board.
func (c *Client) Sort(ctx context.Context) (SortResult, error) {
	var res SortResult
	err := c.do(ctx, http.MethodPost, "/board/sort", nil, &res)
	return res, err
}

// Record returns the standing of one record. Unknown names yield an error
// matching ErrNotFound.
func (c *Client) Record(ctx context.Context, name string) (Standing, error) {
	if strings.TrimSpace(name) == "" {
		return Standing{}, ErrEmptyName
	}
	var st Standing
	err := c.do(ctx, http.MethodGet, "/records/"+url.PathEscape(name), nil, &st)
	return st, err
}

// UpdateScore sets a record's score and reports how it moved.
func (c *Client) UpdateScore(ctx context.Context, name string, score int64) (Move, error) {
	if strings.TrimSpace(name) == "" {
		return Move{}, ErrEmptyName
	}
	q := url.Values{"value": {strconv.FormatInt(score, 10)}}
	var m Move
	err := c.do(ctx, http.MethodPost, "/records/"+url.PathEscape(name)+"/score", q, &m)
	return m, err
}

// Health probes /healthz.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus
	err := c.do(ctx, http.MethodGet, "/healthz", nil, &hs)
	return hs, err
}

// Stats fetches the movement report. Servers without analytics answer 404.
func (c *Client) Stats(ctx context.Context) (analytics.Report, error) {
	var r analytics.Report
	err := c.do(ctx, http.MethodGet, "/stats", nil, &r)
	return r, err
}

// SubscribeEvents connects to the WebSocket stream and emits core.Event values.
// The returned channel closes when ctx is done or the connection drops.
// Passing types limits the stream to those event types.
func (c *Client) SubscribeEvents(ctx context.Context, types ...core.EventType) (<-chan core.Event, error) {
	if c.wsURL == "" {
		return nil, errors.New("wsURL is not set; ensure baseURL is http/https")
	}
	target := c.wsURL
	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		target += "?types=" + url.QueryEscape(strings.Join(names, ","))
	}
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, target, c.headers)
	if err != nil {
		return nil, err
	}

	// unblock ReadJSON when ctx ends
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	out := make(chan core.Event, 32)
	go func() {
		defer close(out)
		defer stop()
		defer conn.Close()
		for {
			var evt core.Event
			if err := conn.ReadJSON(&evt); err != nil {
				return
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			default:
				// drop if consumer is slow
			}
		}
	}()
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, target any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}
	for k, vals := range c.headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, target)
}

func deriveWSURL(httpBase string) string {
	u, err := url.Parse(httpBase)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return ""
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String()
}
