// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Server  ServerConfig  `toml:"server"`
	Analyze AnalyzeConfig `toml:"analyze"`
}

// ServerConfig maps event-source settings.
type ServerConfig struct {
	URL            *string `toml:"url"`
	ViewerApp      *string `toml:"viewer-app"`
	EventLimit     *int    `toml:"event-limit"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// AnalyzeConfig maps analysis output settings.
type AnalyzeConfig struct {
	OutDir          *string `toml:"out-dir"`
	RawSnapshot     *string `toml:"raw-snapshot"`
	CleanedSnapshot *string `toml:"cleaned-snapshot"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
