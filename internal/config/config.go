// Package config loads server configuration from the environment.
//
// A .env file, when present, is loaded by the process entry point before
// Load runs, so everything here reads plain environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting the server reads at start up.
type Config struct {
	Port             string `env:"PORT" envDefault:"8080"`
	Env              string `env:"APP_ENV" envDefault:"development"`
	PublicDir        string `env:"PUBLIC_DIR" envDefault:"./public"`
	PlaceholderImage string `env:"PLACEHOLDER_IMAGE" envDefault:"/static/placeholder.svg"`

	DatabasePath     string `env:"DATABASE_PATH" envDefault:"portfolio.db"`
	AnalyticsEnabled bool   `env:"ANALYTICS_ENABLED" envDefault:"true"`
	RetentionDays    int    `env:"ANALYTICS_RETENTION_DAYS" envDefault:"365"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// Retention is how long page views are kept.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// ImagesDir is where /images is served from.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.PublicDir, "images")
}

// AdminEnabled reports whether admin credentials are configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.PublicDir == "" {
		errs = append(errs, errors.New("PUBLIC_DIR is required"))
	}
	if c.AnalyticsEnabled && c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required when analytics is enabled"))
	}
	if c.RetentionDays < 1 {
		errs = append(errs, fmt.Errorf("ANALYTICS_RETENTION_DAYS must be positive, got %d", c.RetentionDays))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	if c.Production() && (c.AdminUsername == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}
