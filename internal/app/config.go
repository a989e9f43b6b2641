package app

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidConfig is returned by NewConfig for values the app cannot run with.
var ErrInvalidConfig = errors.New("invalid configuration")

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json", "pretty"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // .hcl file or directory

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	Tracing         bool
}

// NewConfig validates cfg and fills in defaults for empty fields.
// ManifestPath is not required here: only Run needs it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("%w: log level %q must be one of %v", ErrInvalidConfig, cfg.LogLevel, logLevels)
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("%w: log format %q must be one of %v", ErrInvalidConfig, cfg.LogFormat, logFormats)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("%w: healthcheck port %d is out of range", ErrInvalidConfig, cfg.HealthcheckPort)
	}

	return &cfg, nil
}
