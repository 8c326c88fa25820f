// Package rankboard assembles a ready-to-use engine.RankService.
package rankboard

import (
	"context"
	"log/slog"

	"rankboard/core"
	"rankboard/engine"
	"rankboard/leaderboard"
	"rankboard/realtime"
)

// Option configures the service builder.
type Option func(*config)

// EventSink receives every event the service publishes.
type EventSink interface {
	OnEvent(core.Event)
}

type config struct {
	mode     engine.DispatchMode
	busOpts  []engine.BusOption
	indexed  bool
	hub      *realtime.Hub
	observer engine.Observer
	logger   *slog.Logger
	sinks    []EventSink
}

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithEventQueue sizes the async dispatcher's queue and worker pool.
func WithEventQueue(size, workers int) Option {
	return func(c *config) {
		c.busOpts = append(c.busOpts, engine.WithQueueSize(size), engine.WithWorkers(workers))
	}
}

// WithIndex toggles the name to position index on the board.
func WithIndex(enabled bool) Option { return func(c *config) { c.indexed = enabled } }

// WithRealtime wires a realtime hub to receive all service events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// WithObserver sets the timing sink, typically *metrics.Metrics.
func WithObserver(o engine.Observer) Option { return func(c *config) { c.observer = o } }

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// WithEventSink forwards every event to s, e.g. a webhook sink.
func WithEventSink(s EventSink) Option {
	return func(c *config) {
		if s != nil {
			c.sinks = append(c.sinks, s)
		}
	}
}

// New builds a configured RankService over an empty board. Defaults:
//   - dispatch: async
//   - index: enabled
//   - logger: slog.Default()
func New(opts ...Option) *engine.RankService {
	cfg := &config{mode: engine.DispatchAsync, indexed: true}
	for _, o := range opts {
		o(cfg)
	}

	var boardOpts []leaderboard.Option
	if cfg.indexed {
		boardOpts = append(boardOpts, leaderboard.WithIndex())
	}
	bus := engine.NewEventBus(cfg.mode, cfg.busOpts...)
	svc := engine.NewRankService(
		leaderboard.NewBoard(nil, boardOpts...),
		bus,
		engine.WithLogger(cfg.logger),
		engine.WithObserver(cfg.observer),
	)

	for _, typ := range core.EventTypes {
		if cfg.hub != nil {
			bus.Subscribe(typ, func(ctx context.Context, e core.Event) { cfg.hub.Broadcast(ctx, e) })
		}
		for _, s := range cfg.sinks {
			sink := s
			bus.Subscribe(typ, func(_ context.Context, e core.Event) { sink.OnEvent(e) })
		}
	}
	return svc
}
