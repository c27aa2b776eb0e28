// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Server ServerConfig `toml:"server"`
	Chat   ChatConfig   `toml:"chat"`
}

// ServerConfig maps backend connection settings.
type ServerConfig struct {
	APIBaseURL *string `toml:"api-base-url"`
	WSBaseURL  *string `toml:"ws-base-url"`
	TimeoutSec *int    `toml:"timeout-sec"`
}

// ChatConfig maps chat defaults.
type ChatConfig struct {
	Language *string `toml:"language"`
	Role     *string `toml:"role"`
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
