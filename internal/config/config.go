// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format  string `yaml:"format"`
		Verbose bool   `yaml:"verbose"`
		Debug   bool   `yaml:"debug"`
		NoColor bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Text extraction settings
	Extraction struct {
		MaxFileSizeMB          int64 `yaml:"max_file_size_mb"`
		MinTextLength          int   `yaml:"min_text_length"`
		StrategyTimeoutSeconds int   `yaml:"strategy_timeout_seconds"`
		OCR                    struct {
			Enabled        bool `yaml:"enabled"`
			TimeoutSeconds int  `yaml:"timeout_seconds"`
			MaxPages       int  `yaml:"max_pages"`
		} `yaml:"ocr"`
	} `yaml:"extraction"`

	// Vendor matching settings
	Matching struct {
		NameWeight         float64 `yaml:"name_weight"`
		DomainWeight       float64 `yaml:"domain_weight"`
		AddressWeight      float64 `yaml:"address_weight"`
		ContractHintWeight float64 `yaml:"contract_hint_weight"`
		SuggestionFloor    float64 `yaml:"suggestion_floor"`
		AutoMatchThreshold float64 `yaml:"auto_match_threshold"`
		MaxCandidates      int     `yaml:"max_candidates"`
	} `yaml:"matching"`

	// Persistent store locations
	Stores struct {
		VendorsFile  string `yaml:"vendors_file"`
		InvoicesFile string `yaml:"invoices_file"`
	} `yaml:"stores"`

	// Structured field extraction (model-backed, off by default)
	Fields struct {
		Enabled   bool   `yaml:"enabled"`
		Endpoint  string `yaml:"endpoint"`
		Model     string `yaml:"model"`
		APIKeyEnv string `yaml:"api_key_env"`
	} `yaml:"fields"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{}
	config.Defaults.Format = "text"

	config.Extraction.MaxFileSizeMB = 15
	config.Extraction.MinTextLength = 50
	config.Extraction.StrategyTimeoutSeconds = 8
	config.Extraction.OCR.Enabled = false
	config.Extraction.OCR.TimeoutSeconds = 30
	config.Extraction.OCR.MaxPages = 3

	config.Matching.NameWeight = 0.6
	config.Matching.DomainWeight = 0.4
	config.Matching.AddressWeight = 0.2
	config.Matching.ContractHintWeight = 0.1
	config.Matching.SuggestionFloor = 0.6
	config.Matching.AutoMatchThreshold = 0.85
	config.Matching.MaxCandidates = 10

	config.Stores.VendorsFile = filepath.Join("data", "vendors.json")
	config.Stores.InvoicesFile = filepath.Join("data", "invoices.json")

	config.Fields.Enabled = false
	config.Fields.Endpoint = "https://api.openai.com/v1/chat/completions"
	config.Fields.Model = "gpt-4o-mini"
	config.Fields.APIKeyEnv = "OPENAI_API_KEY"

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	// Read config file. Absent keys keep their default values.
	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Validate the configuration
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first - prioritize config.yaml
	if fileExists("config.yaml") {
		return "config.yaml"
	}
	if fileExists("invoice-ingest.yaml") {
		return "invoice-ingest.yaml"
	}
	if fileExists("invoice-ingest.yml") {
		return "invoice-ingest.yml"
	}

	// Check for .invoice-ingest.yaml in current directory (project-specific config)
	if fileExists(".invoice-ingest.yaml") {
		return ".invoice-ingest.yaml"
	}
	if fileExists(".invoice-ingest.yml") {
		return ".invoice-ingest.yml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// Check legacy location in home directory
	homeConfig := filepath.Join(home, ".invoice-ingest.yaml")
	if fileExists(homeConfig) {
		return homeConfig
	}

	// Check XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgConfigFile := filepath.Join(xdgConfig, "invoice-ingest", "config.yaml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}
	xdgConfigFile = filepath.Join(xdgConfig, "invoice-ingest", "config.yml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// ValidateConfig validates configuration values that have hard constraints
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if config.Extraction.MaxFileSizeMB <= 0 {
		return fmt.Errorf("extraction.max_file_size_mb must be positive, got %d", config.Extraction.MaxFileSizeMB)
	}
	if config.Extraction.MinTextLength < 0 {
		return fmt.Errorf("extraction.min_text_length cannot be negative, got %d", config.Extraction.MinTextLength)
	}
	if config.Extraction.StrategyTimeoutSeconds <= 0 {
		return fmt.Errorf("extraction.strategy_timeout_seconds must be positive, got %d", config.Extraction.StrategyTimeoutSeconds)
	}
	if config.Extraction.OCR.TimeoutSeconds <= 0 {
		return fmt.Errorf("extraction.ocr.timeout_seconds must be positive, got %d", config.Extraction.OCR.TimeoutSeconds)
	}
	if config.Extraction.OCR.MaxPages <= 0 {
		return fmt.Errorf("extraction.ocr.max_pages must be positive, got %d", config.Extraction.OCR.MaxPages)
	}

	for name, w := range map[string]float64{
		"matching.name_weight":          config.Matching.NameWeight,
		"matching.domain_weight":        config.Matching.DomainWeight,
		"matching.address_weight":       config.Matching.AddressWeight,
		"matching.contract_hint_weight": config.Matching.ContractHintWeight,
		"matching.suggestion_floor":     config.Matching.SuggestionFloor,
		"matching.auto_match_threshold": config.Matching.AutoMatchThreshold,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %g", name, w)
		}
	}
	if config.Matching.SuggestionFloor > config.Matching.AutoMatchThreshold {
		return fmt.Errorf("matching.suggestion_floor (%g) cannot exceed matching.auto_match_threshold (%g)",
			config.Matching.SuggestionFloor, config.Matching.AutoMatchThreshold)
	}
	if config.Matching.MaxCandidates < 1 {
		return fmt.Errorf("matching.max_candidates must be at least 1, got %d", config.Matching.MaxCandidates)
	}

	if config.Stores.VendorsFile == "" {
		return fmt.Errorf("stores.vendors_file cannot be empty")
	}
	if config.Stores.InvoicesFile == "" {
		return fmt.Errorf("stores.invoices_file cannot be empty")
	}

	if config.Fields.Enabled {
		if config.Fields.Endpoint == "" {
			return fmt.Errorf("fields.endpoint is required when fields.enabled is true")
		}
		if config.Fields.Model == "" {
			return fmt.Errorf("fields.model is required when fields.enabled is true")
		}
	}

	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		// Fall back to defaults — callers should not crash on a missing/bad config file.
		cfg, _ = LoadConfig("")
	}
	return cfg
}
