// Package config loads client configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds all client configuration.
type Config struct {
	// ServerURL is the base URL of the edandlinda API server.
	ServerURL string `env:"EDANDLINDA_SERVER_URL" envDefault:"http://localhost:3000"`

	// TokenFile overrides the default persisted-session location.
	TokenFile string `env:"EDANDLINDA_TOKEN_FILE"`

	// DownloadDir is where manual downloads are saved.
	DownloadDir string `env:"EDANDLINDA_DOWNLOAD_DIR"`

	// Logging
	LogLevel  string `env:"EDANDLINDA_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"EDANDLINDA_LOG_FORMAT" envDefault:"console"`
}

// Load reads configuration from the environment and fills in path defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.TokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.TokenFile = filepath.Join(home, ".config", "edandlinda", "token.json")
	}

	if cfg.DownloadDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		cfg.DownloadDir = wd
	}

	return cfg, nil
}
