package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rankboard/adapters/redis"
	"rankboard/adapters/sqlx"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds the complete application configuration
type Config struct {
	// Environment and profile settings
	Environment Environment `json:"environment" env:"RANKBOARD_ENV"`
	Profile     string      `json:"profile" env:"RANKBOARD_PROFILE"`

	Server   ServerConfig   `json:"server"`
	Source   SourceConfig   `json:"source"`
	Board    BoardConfig    `json:"board"`
	Logging  LoggingConfig  `json:"logging"`
	Metrics  MetricsConfig  `json:"metrics"`
	Security SecurityConfig `json:"security"`
	Webhooks WebhookConfig  `json:"webhooks"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address           string        `json:"address" env:"RANKBOARD_SERVER_ADDR"`
	PathPrefix        string        `json:"path_prefix" env:"RANKBOARD_SERVER_PATH_PREFIX"`
	CORSOrigin        string        `json:"cors_origin" env:"RANKBOARD_SERVER_CORS_ORIGIN"`
	ReadTimeout       time.Duration `json:"read_timeout" env:"RANKBOARD_SERVER_READ_TIMEOUT"`
	WriteTimeout      time.Duration `json:"write_timeout" env:"RANKBOARD_SERVER_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `json:"idle_timeout" env:"RANKBOARD_SERVER_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" env:"RANKBOARD_SERVER_READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout" env:"RANKBOARD_SERVER_SHUTDOWN_TIMEOUT"`
}

// SourceConfig selects where the initial roster comes from
type SourceConfig struct {
	Adapter string       `json:"adapter" env:"RANKBOARD_SOURCE_ADAPTER"`
	Redis   redis.Config `json:"redis,omitempty"`
	SQL     sqlx.Config  `json:"sql,omitempty"`
	File    FileConfig   `json:"file,omitempty"`
}

// FileConfig holds JSON roster file configuration
type FileConfig struct {
	Path string `json:"path" env:"RANKBOARD_SOURCE_FILE_PATH"`
}

// BoardConfig tunes the in-memory leaderboard
type BoardConfig struct {
	Indexed     bool `json:"indexed" env:"RANKBOARD_BOARD_INDEXED"`
	SortOnLoad  bool `json:"sort_on_load" env:"RANKBOARD_BOARD_SORT_ON_LOAD"`
	AsyncEvents bool `json:"async_events" env:"RANKBOARD_BOARD_ASYNC_EVENTS"`

	// EventQueue and EventWorkers size the async dispatcher.
	EventQueue   int `json:"event_queue" env:"RANKBOARD_BOARD_EVENT_QUEUE"`
	EventWorkers int `json:"event_workers" env:"RANKBOARD_BOARD_EVENT_WORKERS"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string            `json:"level" env:"RANKBOARD_LOG_LEVEL"`
	Format     string            `json:"format" env:"RANKBOARD_LOG_FORMAT"`
	Output     string            `json:"output" env:"RANKBOARD_LOG_OUTPUT"`
	Attributes map[string]string `json:"attributes,omitempty" env:"RANKBOARD_LOG_ATTRIBUTES"`
}

// MetricsConfig holds metrics and monitoring configuration
type MetricsConfig struct {
	Enabled       bool   `json:"enabled" env:"RANKBOARD_METRICS_ENABLED"`
	Address       string `json:"address" env:"RANKBOARD_METRICS_ADDR"`
	Path          string `json:"path" env:"RANKBOARD_METRICS_PATH"`
	CollectSystem bool   `json:"collect_system" env:"RANKBOARD_METRICS_COLLECT_SYSTEM"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	EnableRateLimit bool            `json:"enable_rate_limit" env:"RANKBOARD_SECURITY_RATE_LIMIT_ENABLED"`
	RateLimit       RateLimitConfig `json:"rate_limit,omitempty"`
	APIKeys         []string        `json:"api_keys,omitempty" env:"RANKBOARD_SECURITY_API_KEYS"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `json:"requests_per_minute" env:"RANKBOARD_SECURITY_RATE_LIMIT_RPM"`
	BurstSize         int `json:"burst_size" env:"RANKBOARD_SECURITY_RATE_LIMIT_BURST"`
}

// WebhookConfig lists endpoints that receive every leaderboard event
type WebhookConfig struct {
	Endpoints []string      `json:"endpoints,omitempty" env:"RANKBOARD_WEBHOOK_ENDPOINTS"`
	Timeout   time.Duration `json:"timeout" env:"RANKBOARD_WEBHOOK_TIMEOUT"`
}

// Load builds configuration from defaults, an optional profile named by
// RANKBOARD_PROFILE, and environment variables, then validates it.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	if name := os.Getenv("RANKBOARD_PROFILE"); name != "" {
		p, err := LoadProfile(name)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if err := loadFromEnv(cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validateConfigPath validates that the config file path is safe
func validateConfigPath(path string) error {
	if path == "" {
		return errors.New("config file path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	if !strings.HasSuffix(strings.ToLower(cleanPath), ".json") {
		return errors.New("config file must have .json extension")
	}

	if _, err := os.Stat(cleanPath); err != nil {
		return fmt.Errorf("config file not accessible: %w", err)
	}

	return nil
}

// LoadFromFile loads configuration from a JSON file; environment variables
// override file values.
func LoadFromFile(path string) (*Config, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	file, err := os.Open(path) // #nosec G304 - Path validated above
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := loadFromEnv(cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development
func DefaultConfig() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Profile:     "default",
		Server: ServerConfig{
			Address:           ":8080",
			PathPrefix:        "/api",
			CORSOrigin:        "*",
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Source: SourceConfig{
			Adapter: "memory",
			Redis:   redis.DefaultConfig(),
			SQL:     sqlx.DefaultConfig(sqlx.DriverPostgres),
			File: FileConfig{
				Path: "./data/roster.json",
			},
		},
		Board: BoardConfig{
			Indexed:      true,
			SortOnLoad:   true,
			AsyncEvents:  true,
			EventQueue:   2048,
			EventWorkers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled:       false,
			Address:       ":9090",
			Path:          "/metrics",
			CollectSystem: true,
		},
		Security: SecurityConfig{
			EnableRateLimit: false,
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 60,
				BurstSize:         10,
			},
			APIKeys: []string{},
		},
		Webhooks: WebhookConfig{
			Timeout: 2 * time.Second,
		},
	}
}

// Validate validates the configuration and returns detailed error messages
func (c *Config) Validate() error {
	var p problems
	if c.Environment == "" {
		p.add("environment cannot be empty")
	}
	p.nested("server config", c.Server.Validate())
	p.nested("source config", c.Source.Validate())
	p.nested("board config", c.Board.Validate())
	p.nested("logging config", c.Logging.Validate())
	p.nested("metrics config", c.Metrics.Validate())
	p.nested("security config", c.Security.Validate())
	p.nested("webhooks config", c.Webhooks.Validate())
	return p.err()
}

// String returns a JSON representation of the config (with secrets redacted)
func (c *Config) String() string {
	cfg := *c

	if cfg.Source.SQL.DSN != "" {
		cfg.Source.SQL.DSN = "[REDACTED]"
	}
	if cfg.Source.Redis.Password != "" {
		cfg.Source.Redis.Password = "[REDACTED]"
	}
	if len(cfg.Security.APIKeys) > 0 {
		cfg.Security.APIKeys = []string{"[REDACTED]"}
	}

	data, _ := json.MarshalIndent(cfg, "", "  ")
	return string(data)
}
