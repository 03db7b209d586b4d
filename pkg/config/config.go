// Package config loads and stores the vault configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Serial settings
	SerialLength int `yaml:"serial_length"`

	// Git settings
	GitAutoInit bool `yaml:"git_auto_init"`

	// UI settings
	ColorTheme   string `yaml:"color_theme"`
	TableWidth   int    `yaml:"table_width"`
	HistoryLimit int    `yaml:"history_limit"`

	// List settings
	DefaultSort string   `yaml:"default_sort"`
	ReverseSort bool     `yaml:"reverse_sort"`
	ListKeys    []string `yaml:"list_keys"`

	// Watch settings
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// Stats settings
	StatsReportPath string `yaml:"stats_report_path"`
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() *Config {
	return &Config{
		SerialLength:    6,
		GitAutoInit:     true,
		ColorTheme:      "auto",
		TableWidth:      0,
		HistoryLimit:    20,
		DefaultSort:     "path",
		ReverseSort:     false,
		ListKeys:        []string{},
		WatchDebounceMS: 500,
		StatsReportPath: "inventory-report.html",
	}
}

// Load reads configuration from the specified file path. A missing file
// yields the defaults, not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing or out of range.
	if cfg.SerialLength < 4 {
		cfg.SerialLength = 6
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = "path"
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	if cfg.StatsReportPath == "" {
		cfg.StatsReportPath = "inventory-report.html"
	}
	if !isValidSort(cfg.DefaultSort) {
		cfg.DefaultSort = "path"
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isValidSort(sort string) bool {
	for _, valid := range []string{"path", "type", "make", "serial"} {
		if sort == valid {
			return true
		}
	}
	return false
}
