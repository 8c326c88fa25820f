package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

var (
	validAdapters   = []string{"memory", "redis", "sql", "file"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text"}
	validLogOutputs = []string{"stdout", "stderr"}
)

// problems collects validation messages and joins them into one error.
type problems []string

func (p *problems) add(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p *problems) nested(section string, err error) {
	if err != nil {
		p.add("%s: %v", section, err)
	}
}

func (p *problems) oneOf(field, value string, allowed []string) {
	if !lo.Contains(allowed, value) {
		p.add("%s must be one of: %s", field, strings.Join(allowed, ", "))
	}
}

func (p *problems) positive(field string, v int64) {
	if v <= 0 {
		p.add("%s must be positive", field)
	}
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return errors.New(strings.Join(p, "; "))
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	var p problems
	if s.Address == "" {
		p.add("address cannot be empty")
	}
	p.positive("read_timeout", int64(s.ReadTimeout))
	p.positive("write_timeout", int64(s.WriteTimeout))
	p.positive("idle_timeout", int64(s.IdleTimeout))
	p.positive("read_header_timeout", int64(s.ReadHeaderTimeout))
	p.positive("shutdown_timeout", int64(s.ShutdownTimeout))
	return p.err()
}

// Validate validates board configuration
func (b *BoardConfig) Validate() error {
	var p problems
	if b.AsyncEvents {
		p.positive("event_queue", int64(b.EventQueue))
		p.positive("event_workers", int64(b.EventWorkers))
	}
	return p.err()
}

// Validate validates roster source configuration
func (s *SourceConfig) Validate() error {
	var p problems
	p.oneOf("adapter", s.Adapter, validAdapters)

	switch s.Adapter {
	case "file":
		p.nested("file config", s.File.Validate())
	case "redis":
		if s.Redis.Addr == "" {
			p.add("redis config: addr cannot be empty")
		}
	case "sql":
		p.nested("sql config", s.SQL.Validate())
		if s.SQL.DSN == "" {
			p.add("sql config: dsn cannot be empty")
		}
	}
	return p.err()
}

// Validate validates file source configuration
func (f *FileConfig) Validate() error {
	if f.Path == "" {
		return errors.New("path cannot be empty")
	}
	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	var p problems
	p.oneOf("level", l.Level, validLogLevels)
	p.oneOf("format", l.Format, validLogFormats)
	p.oneOf("output", l.Output, validLogOutputs)
	return p.err()
}

// Validate validates metrics configuration
func (m *MetricsConfig) Validate() error {
	var p problems
	if m.Enabled {
		if m.Address == "" {
			p.add("address cannot be empty when metrics are enabled")
		}
		if !strings.HasPrefix(m.Path, "/") {
			p.add("path must start with / when metrics are enabled")
		}
	}
	return p.err()
}

// Validate validates security settings.
func (s *SecurityConfig) Validate() error {
	var p problems
	if s.EnableRateLimit {
		if s.RateLimit.RequestsPerMinute <= 0 {
			p.add("rate_limit.requests_per_minute must be > 0 when rate limiting is enabled")
		}
		if s.RateLimit.BurstSize <= 0 {
			p.add("rate_limit.burst_size must be > 0 when rate limiting is enabled")
		}
	}
	for i, key := range s.APIKeys {
		if strings.TrimSpace(key) == "" {
			p.add("api_keys[%d] is empty", i)
		}
	}
	return p.err()
}

// Validate validates webhook endpoints.
func (w *WebhookConfig) Validate() error {
	var p problems
	for i, ep := range w.Endpoints {
		u, err := url.Parse(ep)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			p.add("endpoints[%d] must be an absolute http(s) URL", i)
		}
	}
	if len(w.Endpoints) > 0 && w.Timeout <= 0 {
		p.add("timeout must be positive when endpoints are set")
	}
	return p.err()
}
