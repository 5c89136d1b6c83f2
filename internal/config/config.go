// Package config loads the tickerdeck configuration: a YAML file with
// defaults, overlaid by .env and TICKERDECK_* environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Feed    Feed    `yaml:"feed"`
	Chart   Chart   `yaml:"chart"`
	UI      UI      `yaml:"ui"`
	Logging Logging `yaml:"logging"`
}

// Feed configures the ticker stream subscription.
type Feed struct {
	StreamURL string `yaml:"stream_url" envconfig:"TICKERDECK_STREAM_URL"`
}

// Chart configures the on-demand candle fetch for the modal view.
type Chart struct {
	BaseURL  string `yaml:"base_url" envconfig:"TICKERDECK_CHART_BASE_URL"`
	Symbol   string `yaml:"symbol" envconfig:"TICKERDECK_CHART_SYMBOL"` // fallback when no row is selected
	Interval string `yaml:"interval" envconfig:"TICKERDECK_CHART_INTERVAL"`
	Limit    int    `yaml:"limit" envconfig:"TICKERDECK_CHART_LIMIT"`
}

// UI configures the render loop.
type UI struct {
	RefreshMillis int `yaml:"refresh_ms" envconfig:"TICKERDECK_REFRESH_MS"`
}

// Logging configures the application logger. The TUI owns the terminal,
// so logs go to a file.
type Logging struct {
	Level string `yaml:"level" envconfig:"TICKERDECK_LOG_LEVEL"`
	Path  string `yaml:"path" envconfig:"TICKERDECK_LOG_PATH"` // empty = temp-dir default
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Feed: Feed{
			StreamURL: "wss://fstream.binance.com/ws/!ticker@arr",
		},
		Chart: Chart{
			BaseURL:  "https://api.binance.com",
			Symbol:   "BTCUSDT",
			Interval: "1h",
			Limit:    96,
		},
		UI: UI{
			RefreshMillis: 500,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path if
// it exists (a missing file is fine, a malformed one is not), then .env,
// then TICKERDECK_* environment variables, highest priority last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Run on defaults + env.
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	// .env, if present, populates the process env; absence is normal.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("applying env overrides: %w", err)
	}

	if cfg.UI.RefreshMillis < 50 {
		cfg.UI.RefreshMillis = 50
	}
	if cfg.Chart.Limit < 1 {
		cfg.Chart.Limit = 96
	}
	return cfg, nil
}
