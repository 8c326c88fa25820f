package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "/api", cfg.Server.PathPrefix)
	assert.Equal(t, "memory", cfg.Source.Adapter)
	assert.True(t, cfg.Board.Indexed)
	assert.True(t, cfg.Board.SortOnLoad)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadWithProfile(t *testing.T) {
	t.Setenv("RANKBOARD_PROFILE", "production")
	t.Setenv("RANKBOARD_SECURITY_RATE_LIMIT_RPM", "120")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Security.EnableRateLimit)
	assert.Equal(t, 120, cfg.Security.RateLimit.RequestsPerMinute)
}

func TestLoadUnknownProfile(t *testing.T) {
	t.Setenv("RANKBOARD_PROFILE", "nope")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	configContent := `{
		"environment": "testing",
		"server": {
			"address": ":9091"
		},
		"source": {
			"adapter": "file",
			"file": {"path": "/tmp/roster.json"}
		},
		"board": {"indexed": false}
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, EnvTesting, cfg.Environment)
	assert.Equal(t, ":9091", cfg.Server.Address)
	assert.Equal(t, "file", cfg.Source.Adapter)
	assert.Equal(t, "/tmp/roster.json", cfg.Source.File.Path)
	assert.False(t, cfg.Board.Indexed)
	// untouched sections keep their defaults
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadFromFileRejectsBadPaths(t *testing.T) {
	_, err := LoadFromFile("")
	assert.Error(t, err)

	_, err = LoadFromFile("config.yaml")
	assert.ErrorContains(t, err, ".json")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "not accessible")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestLoadFromEnvOverlay(t *testing.T) {
	cfg := DefaultConfig()
	err := loadFromEnv(cfg, map[string]string{
		"RANKBOARD_ENV":                  "staging",
		"RANKBOARD_SERVER_ADDR":          ":7000",
		"RANKBOARD_SOURCE_ADAPTER":       "redis",
		"RANKBOARD_REDIS_ADDR":           "cache:6379",
		"RANKBOARD_REDIS_KEY":            "boards:weekly",
		"RANKBOARD_BOARD_ASYNC_EVENTS":   "false",
		"RANKBOARD_SECURITY_API_KEYS":    "k1,k2",
		"RANKBOARD_WEBHOOK_ENDPOINTS":    "https://hooks.example.com/a",
		"RANKBOARD_WEBHOOK_TIMEOUT":      "750ms",
		"RANKBOARD_SERVER_WRITE_TIMEOUT": "3s",
	})
	require.NoError(t, err)

	assert.Equal(t, EnvStaging, cfg.Environment)
	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, 3*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "redis", cfg.Source.Adapter)
	assert.Equal(t, "cache:6379", cfg.Source.Redis.Addr)
	assert.Equal(t, "boards:weekly", cfg.Source.Redis.Key)
	assert.False(t, cfg.Board.AsyncEvents)
	assert.True(t, cfg.Board.Indexed)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Security.APIKeys)
	assert.Equal(t, []string{"https://hooks.example.com/a"}, cfg.Webhooks.Endpoints)
	assert.Equal(t, 750*time.Millisecond, cfg.Webhooks.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvBadValue(t *testing.T) {
	cfg := DefaultConfig()
	err := loadFromEnv(cfg, map[string]string{"RANKBOARD_SERVER_READ_TIMEOUT": "soon"})
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "empty environment",
			mutate:  func(c *Config) { c.Environment = "" },
			wantErr: "environment cannot be empty",
		},
		{
			name:    "empty address",
			mutate:  func(c *Config) { c.Server.Address = "" },
			wantErr: "address cannot be empty",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.IdleTimeout = 0 },
			wantErr: "idle_timeout must be positive",
		},
		{
			name:    "async events without workers",
			mutate:  func(c *Config) { c.Board.EventWorkers = 0 },
			wantErr: "board config: event_workers must be positive",
		},
		{
			name: "sync events ignore queue sizing",
			mutate: func(c *Config) {
				c.Board.AsyncEvents = false
				c.Board.EventQueue = 0
			},
		},
		{
			name:    "unknown adapter",
			mutate:  func(c *Config) { c.Source.Adapter = "mongo" },
			wantErr: "adapter must be one of",
		},
		{
			name: "file adapter without path",
			mutate: func(c *Config) {
				c.Source.Adapter = "file"
				c.Source.File.Path = ""
			},
			wantErr: "path cannot be empty",
		},
		{
			name: "redis adapter without addr",
			mutate: func(c *Config) {
				c.Source.Adapter = "redis"
				c.Source.Redis.Addr = ""
			},
			wantErr: "addr cannot be empty",
		},
		{
			name: "sql adapter without dsn",
			mutate: func(c *Config) {
				c.Source.Adapter = "sql"
			},
			wantErr: "dsn cannot be empty",
		},
		{
			name: "sql adapter with bad table",
			mutate: func(c *Config) {
				c.Source.Adapter = "sql"
				c.Source.SQL.DSN = "postgres://localhost/rank"
				c.Source.SQL.Table = "roster; drop"
			},
			wantErr: "invalid table name",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "level must be one of",
		},
		{
			name: "metrics path",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Path = "metrics"
			},
			wantErr: "path must start with /",
		},
		{
			name: "rate limit without budget",
			mutate: func(c *Config) {
				c.Security.EnableRateLimit = true
				c.Security.RateLimit.BurstSize = 0
			},
			wantErr: "burst_size",
		},
		{
			name:    "blank api key",
			mutate:  func(c *Config) { c.Security.APIKeys = []string{"ok", " "} },
			wantErr: "api_keys[1] is empty",
		},
		{
			name:    "relative webhook",
			mutate:  func(c *Config) { c.Webhooks.Endpoints = []string{"/hook"} },
			wantErr: "endpoints[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadProfile(t *testing.T) {
	for _, name := range []string{"development", "testing", "staging", "production"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadProfile(name)
			require.NoError(t, err)
			assert.Equal(t, name, cfg.Profile)
			assert.Equal(t, Environment(name), cfg.Environment)
			assert.NoError(t, cfg.Validate())
		})
	}

	_, err := LoadProfile("qa")
	assert.Error(t, err)
}

func TestConfigStringRedactsSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.SQL.DSN = "postgres://user:hunter2@db/rank"
	cfg.Source.Redis.Password = "s3cret"
	cfg.Security.APIKeys = []string{"key-123"}

	out := cfg.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "key-123")
	assert.Contains(t, out, "[REDACTED]")
	// the receiver is not modified
	assert.Equal(t, "s3cret", cfg.Source.Redis.Password)
}
