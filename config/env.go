package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// loadFromEnv overlays environment variables onto cfg using the `env` struct
// tags. Unset variables leave the current value alone. A non-nil environ
// replaces the process environment, which keeps tests hermetic.
func loadFromEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("env.Parse: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// into the process environment. Missing files are ignored; variables that
// are already set win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}
