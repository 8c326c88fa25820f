package config

import (
	"fmt"
	"time"
)

// LoadProfile returns the preset configuration for a named environment.
// Presets are starting points; Load still applies environment overrides.
func LoadProfile(name string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Profile = name

	switch name {
	case "development":
		cfg.Environment = EnvDevelopment
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	case "testing":
		cfg.Environment = EnvTesting
		cfg.Server.Address = ":0"
		cfg.Board.AsyncEvents = false
		cfg.Logging.Level = "warn"
	case "staging":
		cfg.Environment = EnvStaging
		cfg.Metrics.Enabled = true
		cfg.Security.EnableRateLimit = true
	case "production":
		cfg.Environment = EnvProduction
		cfg.Server.CORSOrigin = ""
		cfg.Server.ShutdownTimeout = 60 * time.Second
		cfg.Metrics.Enabled = true
		cfg.Security.EnableRateLimit = true
		cfg.Security.RateLimit.RequestsPerMinute = 600
		cfg.Security.RateLimit.BurstSize = 50
	default:
		return nil, fmt.Errorf("unknown profile %q", name)
	}
	return cfg, nil
}
