package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lmittmann/tint"

	"rankboard/core"
)

// Sink posts leaderboard events to configured HTTP endpoints.
// Delivery is synchronous and best-effort: failures are logged, not retried.
type Sink struct {
	client    *http.Client
	endpoints []string
	logger    *slog.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithClient overrides the HTTP client (defaults to 2s timeout).
func WithClient(c *http.Client) Option {
	return func(s *Sink) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a webhook sink.
func New(endpoints []string, opts ...Option) *Sink {
	s := &Sink{
		client: &http.Client{Timeout: 2 * time.Second},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.endpoints = append([]string{}, endpoints...)
	return s
}

// OnEvent posts the event JSON to all endpoints.
func (s *Sink) OnEvent(e core.Event) {
	_ = s.Deliver(context.Background(), e)
}

// Deliver posts e to every endpoint and returns the number of failed
// deliveries. Non-2xx responses count as failures.
func (s *Sink) Deliver(ctx context.Context, e core.Event) int {
	if len(s.endpoints) == 0 {
		return 0
	}
	body, err := json.Marshal(e)
	if err != nil {
		s.logger.Error("webhook encode failed", tint.Err(err))
		return len(s.endpoints)
	}
	failed := 0
	for _, ep := range s.endpoints {
		if err := s.post(ctx, ep, body); err != nil {
			failed++
			s.logger.Warn("webhook delivery failed", "endpoint", ep, "event", e.Type, tint.Err(err))
		}
	}
	return failed
}

func (s *Sink) post(ctx context.Context, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
