package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"zero max depth", func(cfg *Config) { cfg.Crawler.MaxDepth = 0 }},
		{"negative delay", func(cfg *Config) { cfg.Crawler.Delay = -time.Second }},
		{"zero concurrency", func(cfg *Config) { cfg.Crawler.MaxConcurrent = 0 }},
		{"absurd concurrency", func(cfg *Config) { cfg.Crawler.MaxConcurrent = 5000 }},
		{"zero timeout", func(cfg *Config) { cfg.Crawler.Timeout = 0 }},
		{"negative retries", func(cfg *Config) { cfg.Crawler.MaxRetries = -1 }},
		{"zero body size", func(cfg *Config) { cfg.Fetcher.MaxBodySize = 0 }},
		{"empty output dir", func(cfg *Config) { cfg.Storage.OutputDir = "" }},
		{"unknown backend", func(cfg *Config) { cfg.Storage.Backend = "redis" }},
		{"mongodb without uri", func(cfg *Config) { cfg.Storage.Backend = "mongodb" }},
		{"threshold too low", func(cfg *Config) { cfg.Analysis.SimilarityThreshold = 0 }},
		{"threshold too high", func(cfg *Config) { cfg.Analysis.SimilarityThreshold = 1.0 }},
		{"bad log level", func(cfg *Config) { cfg.Logging.Level = "verbose" }},
		{"bad log format", func(cfg *Config) { cfg.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateMongoBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "mongodb"
	cfg.Storage.MongoURI = "mongodb://localhost:27017"
	if err := Validate(cfg); err != nil {
		t.Errorf("mongodb backend with URI failed validation: %v", err)
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://example.com", false},
		{"https://example.com/path?q=1", false},
		{"ftp://example.com", true},
		{"example.com", true},
		{"http://", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Crawler.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want default 3", cfg.Crawler.MaxDepth)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Storage.Backend)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recrafter.yaml")
	body := []byte(`crawler:
  max_depth: 7
  max_concurrent: 2
storage:
  output_dir: /tmp/out
analysis:
  similarity_threshold: 0.9
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Crawler.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", cfg.Crawler.MaxDepth)
	}
	if cfg.Crawler.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", cfg.Crawler.MaxConcurrent)
	}
	if cfg.Storage.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q, want /tmp/out", cfg.Storage.OutputDir)
	}
	if cfg.Analysis.SimilarityThreshold != 0.9 {
		t.Errorf("SimilarityThreshold = %v, want 0.9", cfg.Analysis.SimilarityThreshold)
	}
	// Untouched keys keep their defaults.
	if cfg.Crawler.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.Crawler.MaxRetries)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}
