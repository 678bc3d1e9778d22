// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigOrDefault_NoFile(t *testing.T) {
	// With no config file, should return defaults without error
	cfg := LoadConfigOrDefault("")
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Defaults.Format == "" {
		t.Error("expected default format to be set")
	}
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	// A path that doesn't exist should fall back to defaults
	cfg := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
}

func TestLoadConfigOrDefault_ValidFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
defaults:
  format: json
extraction:
  max_file_size_mb: 25
  ocr:
    enabled: true
matching:
  auto_match_threshold: 0.9
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := LoadConfigOrDefault(configPath)
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Defaults.Format != "json" {
		t.Errorf("expected format=json, got %q", cfg.Defaults.Format)
	}
	if cfg.Extraction.MaxFileSizeMB != 25 {
		t.Errorf("expected max_file_size_mb=25, got %d", cfg.Extraction.MaxFileSizeMB)
	}
	if !cfg.Extraction.OCR.Enabled {
		t.Error("expected ocr.enabled=true")
	}
	if cfg.Matching.AutoMatchThreshold != 0.9 {
		t.Errorf("expected auto_match_threshold=0.9, got %g", cfg.Matching.AutoMatchThreshold)
	}
	// Absent keys keep their defaults
	if cfg.Extraction.MinTextLength != 50 {
		t.Errorf("expected default min_text_length=50, got %d", cfg.Extraction.MinTextLength)
	}
	if cfg.Matching.SuggestionFloor != 0.6 {
		t.Errorf("expected default suggestion_floor=0.6, got %g", cfg.Matching.SuggestionFloor)
	}
}

func TestLoadConfig_ExplicitZeroWeightPreserved(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	// An operator disables signals by zeroing their weights; the explicit
	// zero must survive loading instead of being reset to the default.
	content := `
matching:
  domain_weight: 0
  address_weight: 0
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Matching.DomainWeight != 0 {
		t.Errorf("expected domain_weight=0, got %g", cfg.Matching.DomainWeight)
	}
	if cfg.Matching.AddressWeight != 0 {
		t.Errorf("expected address_weight=0, got %g", cfg.Matching.AddressWeight)
	}
	// Untouched weights keep their defaults.
	if cfg.Matching.NameWeight != 0.6 {
		t.Errorf("expected default name_weight=0.6, got %g", cfg.Matching.NameWeight)
	}
}

func TestLoadConfigOrDefault_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(configPath, []byte(":::invalid yaml:::"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Should fall back to defaults, not panic
	cfg := LoadConfigOrDefault(configPath)
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults on parse error)")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected default format=text, got %q", cfg.Defaults.Format)
	}
	if cfg.Extraction.MaxFileSizeMB != 15 {
		t.Errorf("expected default max_file_size_mb=15, got %d", cfg.Extraction.MaxFileSizeMB)
	}
	if cfg.Extraction.OCR.Enabled {
		t.Error("expected ocr.enabled=false by default")
	}
	if cfg.Matching.AutoMatchThreshold != 0.85 {
		t.Errorf("expected default auto_match_threshold=0.85, got %g", cfg.Matching.AutoMatchThreshold)
	}
	if cfg.Matching.AddressWeight != 0.2 {
		t.Errorf("expected default address_weight=0.2, got %g", cfg.Matching.AddressWeight)
	}
	if cfg.Fields.Enabled {
		t.Error("expected fields.enabled=false by default")
	}
}

func TestValidateConfig_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero file size", func(c *Config) { c.Extraction.MaxFileSizeMB = 0 }},
		{"negative min text length", func(c *Config) { c.Extraction.MinTextLength = -1 }},
		{"weight above one", func(c *Config) { c.Matching.NameWeight = 1.5 }},
		{"floor above threshold", func(c *Config) { c.Matching.SuggestionFloor = 0.95 }},
		{"zero candidates", func(c *Config) { c.Matching.MaxCandidates = 0 }},
		{"empty vendors file", func(c *Config) { c.Stores.VendorsFile = "" }},
		{"fields enabled without model", func(c *Config) { c.Fields.Enabled = true; c.Fields.Model = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig("")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.mutate(cfg)
			if err := ValidateConfig(cfg); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
