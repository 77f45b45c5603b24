package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Storage
	StateTable     string        `env:"STATE_TABLE,required,notEmpty"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	DynamoEndpoint string        `env:"DYNAMODB_ENDPOINT"`

	// Content
	ParamPrefix   string `env:"PARAM_PREFIX,required,notEmpty"`
	UseParamStore bool   `env:"USE_PARAM_STORE" envDefault:"true"`

	// Local server
	LocalAddr string `env:"LOCAL_ADDR" envDefault:":8080"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto slog. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
