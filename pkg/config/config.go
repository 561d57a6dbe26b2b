package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the settings for one report generation run. The value is
// passed explicitly into the engine; nothing reads it as ambient state.
type Config struct {
	// Input and output
	ResultsDir        string
	OutputDir         string
	ExternalAssetsDir string

	// Aggregation behavior
	OnlyFailures bool
	ShowProgress bool

	// Performance
	MaxConcurrentFeatures int

	// Run history
	HistoryEnabled bool

	// Logging
	LogLevel string
}

// NewConfig creates a configuration with default values.
func NewConfig() *Config {
	return &Config{
		ResultsDir:            "results",
		OutputDir:             "report",
		ExternalAssetsDir:     "",
		OnlyFailures:          false,
		ShowProgress:          false,
		MaxConcurrentFeatures: 4,
		HistoryEnabled:        true,
		LogLevel:              "info",
	}
}

// LoadFromFile loads configuration from a YAML, JSON, or TOML file.
func (c *Config) LoadFromFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return v.Unmarshal(c)
}

// LoadFromEnv applies environment variable overrides.
func (c *Config) LoadFromEnv() {
	if dir := os.Getenv("BDD_REPORT_RESULTS_DIR"); dir != "" {
		c.ResultsDir = dir
	}
	if dir := os.Getenv("BDD_REPORT_OUTPUT_DIR"); dir != "" {
		c.OutputDir = dir
	}
	if dir := os.Getenv("BDD_REPORT_EXTERNAL_ASSETS"); dir != "" {
		c.ExternalAssetsDir = dir
	}
	if v := os.Getenv("BDD_REPORT_ONLY_FAILURES"); v == "true" {
		c.OnlyFailures = true
	}
	if v := os.Getenv("BDD_REPORT_SHOW_PROGRESS"); v == "true" {
		c.ShowProgress = true
	}
	if v := os.Getenv("BDD_REPORT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that the configuration can drive a generation run.
func (c *Config) Validate() error {
	if c.ResultsDir == "" {
		return fmt.Errorf("results directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.MaxConcurrentFeatures < 1 {
		return fmt.Errorf("max concurrent features must be at least 1, got %d", c.MaxConcurrentFeatures)
	}
	return nil
}
