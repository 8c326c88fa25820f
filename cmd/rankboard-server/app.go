package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rankboard/adapters/jsonfile"
	mem "rankboard/adapters/memory"
	redisAdapter "rankboard/adapters/redis"
	sqlxAdapter "rankboard/adapters/sqlx"
	"rankboard/analytics"
	"rankboard/api/httpapi"
	"rankboard/config"
	"rankboard/engine"
	"rankboard/integrations/webhook"
	"rankboard/metrics"
	"rankboard/rankboard"
	"rankboard/realtime"
)

// App aggregates the assembled server components.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Hub           *realtime.Hub
	Tracker       *analytics.Tracker
	Service       *engine.RankService
	Handler       http.Handler
	Server        *http.Server
	MetricsServer *MetricsServer
}

// MetricsServer serves the Prometheus registry. Server is nil when metrics
// are disabled.
type MetricsServer struct {
	Server *http.Server
}

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger(cfg *config.Config) *slog.Logger {
	return setupLogging(cfg)
}

func provideHub() *realtime.Hub {
	return realtime.NewHub()
}

func provideTracker() *analytics.Tracker {
	return analytics.NewTracker()
}

func provideRegistry(cfg *config.Config) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled && cfg.Metrics.CollectSystem {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return reg
}

func provideMetrics(reg *prometheus.Registry) (*metrics.Metrics, error) {
	m := metrics.NewMetrics()
	if err := m.Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return m, nil
}

func provideSource(ctx context.Context, cfg *config.Config) (engine.Source, func(), error) {
	return setupSource(ctx, cfg)
}

func provideService(ctx context.Context, cfg *config.Config, logger *slog.Logger, hub *realtime.Hub, tracker *analytics.Tracker, m *metrics.Metrics, src engine.Source) (*engine.RankService, func(), error) {
	mode := engine.DispatchSync
	if cfg.Board.AsyncEvents {
		mode = engine.DispatchAsync
	}
	opts := []rankboard.Option{
		rankboard.WithDispatchMode(mode),
		rankboard.WithEventQueue(cfg.Board.EventQueue, cfg.Board.EventWorkers),
		rankboard.WithIndex(cfg.Board.Indexed),
		rankboard.WithRealtime(hub),
		rankboard.WithObserver(m),
		rankboard.WithLogger(logger),
		rankboard.WithEventSink(tracker),
	}
	if len(cfg.Webhooks.Endpoints) > 0 {
		opts = append(opts, rankboard.WithEventSink(webhook.New(
			cfg.Webhooks.Endpoints,
			webhook.WithClient(&http.Client{Timeout: cfg.Webhooks.Timeout}),
			webhook.WithLogger(logger.With("component", "webhook")),
		)))
	}

	svc := rankboard.New(opts...)
	if err := svc.Load(ctx, src); err != nil {
		svc.Close()
		return nil, nil, err
	}
	if cfg.Board.SortOnLoad {
		if _, err := svc.Sort(ctx); err != nil {
			svc.Close()
			return nil, nil, err
		}
	}
	return svc, svc.Close, nil
}

func provideHandler(svc *engine.RankService, hub *realtime.Hub, tracker *analytics.Tracker, cfg *config.Config, logger *slog.Logger) http.Handler {
	return httpapi.NewMux(svc, hub, httpapi.Options{
		PathPrefix:       cfg.Server.PathPrefix,
		AllowCORSOrigin:  cfg.Server.CORSOrigin,
		APIKeys:          cfg.Security.APIKeys,
		RateLimitEnabled: cfg.Security.EnableRateLimit,
		RateLimitRPM:     cfg.Security.RateLimit.RequestsPerMinute,
		RateLimitBurst:   cfg.Security.RateLimit.BurstSize,
		Logger:           logger.With("component", "http"),
		Stats:            tracker,
	})
}

func provideServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func provideMetricsServer(cfg *config.Config, reg *prometheus.Registry) *MetricsServer {
	if !cfg.Metrics.Enabled {
		return &MetricsServer{}
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return &MetricsServer{Server: &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// setupLogging configures the logger based on configuration. The text
// format is colorized for terminals.
func setupLogging(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Logging.Output == "stderr" {
		out = os.Stderr
	}
	level := parseLogLevel(cfg.Logging.Level)

	var handler slog.Handler
	switch cfg.Logging.Format {
	case "text":
		handler = tint.NewHandler(out, &tint.Options{Level: level, TimeFormat: time.Kitchen})
	default:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	}

	if len(cfg.Logging.Attributes) > 0 {
		handler = handler.WithAttrs(convertAttributes(cfg.Logging.Attributes))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func convertAttributes(attrs map[string]string) []slog.Attr {
	result := make([]slog.Attr, 0, len(attrs))
	for k, v := range attrs {
		result = append(result, slog.String(k, v))
	}
	return result
}

// setupSource opens the roster source named by the configuration. The
// returned cleanup releases any connection it opened.
func setupSource(ctx context.Context, cfg *config.Config) (engine.Source, func(), error) {
	noop := func() {}
	switch cfg.Source.Adapter {
	case "memory":
		return mem.New(mem.SampleRoster()...), noop, nil
	case "file":
		src, err := jsonfile.New(cfg.Source.File.Path)
		if err != nil {
			return nil, nil, err
		}
		return src, noop, nil
	case "redis":
		src, err := redisAdapter.New(cfg.Source.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("redis source: %w", err)
		}
		return src, func() { _ = src.Close() }, nil
	case "sql":
		src, err := sqlxAdapter.New(cfg.Source.SQL)
		if err != nil {
			return nil, nil, fmt.Errorf("sql source: %w", err)
		}
		return src, func() { _ = src.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown source adapter: %s", cfg.Source.Adapter)
	}
}
