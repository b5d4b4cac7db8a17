package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from environment variables using `env` struct tags.
//
// Example:
//
//	type Config struct {
//	    HTTPPort int    `env:"HTTP_PORT" envDefault:"8083"`
//	    CacheTTL string `env:"CACHE_TTL" envDefault:"5m"`
//	}
//
// Callers layer their own validation on top; Load only reports tag
// parsing and type conversion failures.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
