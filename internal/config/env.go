// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds PAGEWATCH_* environment overrides. They sit between CLI
// flags and the config file: flag > env > file > default.
type EnvConfig struct {
	ServerURL  string `envconfig:"SERVER_URL"`
	ViewerApp  string `envconfig:"VIEWER_APP"`
	EventLimit int    `envconfig:"EVENT_LIMIT"`
	OutDir     string `envconfig:"OUT_DIR"`
}

// LoadEnv reads environment overrides.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("PAGEWATCH", &cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
