package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values. Validation failures
// are fatal and must be surfaced before any network activity begins.
func Validate(cfg *Config) error {
	if cfg.Crawler.MaxDepth < 1 {
		return fmt.Errorf("crawler.max_depth must be >= 1, got %d", cfg.Crawler.MaxDepth)
	}
	if cfg.Crawler.Delay < 0 {
		return fmt.Errorf("crawler.delay must be >= 0")
	}
	if cfg.Crawler.MaxConcurrent < 1 {
		return fmt.Errorf("crawler.max_concurrent must be >= 1, got %d", cfg.Crawler.MaxConcurrent)
	}
	if cfg.Crawler.MaxConcurrent > 1000 {
		return fmt.Errorf("crawler.max_concurrent must be <= 1000, got %d", cfg.Crawler.MaxConcurrent)
	}
	if cfg.Crawler.Timeout <= 0 {
		return fmt.Errorf("crawler.timeout must be > 0")
	}
	if cfg.Crawler.MaxRetries < 0 {
		return fmt.Errorf("crawler.max_retries must be >= 0, got %d", cfg.Crawler.MaxRetries)
	}

	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Storage.OutputDir == "" {
		return fmt.Errorf("storage.output_dir must not be empty")
	}
	switch cfg.Storage.Backend {
	case "file":
	case "mongodb":
		if cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for the mongodb backend")
		}
	default:
		return fmt.Errorf("storage.backend must be 'file' or 'mongodb', got %q", cfg.Storage.Backend)
	}

	if cfg.Analysis.SimilarityThreshold <= 0 || cfg.Analysis.SimilarityThreshold >= 1 {
		return fmt.Errorf("analysis.similarity_threshold must be in (0,1), got %g", cfg.Analysis.SimilarityThreshold)
	}
	if cfg.Analysis.AssetThreshold < 0 {
		return fmt.Errorf("analysis.asset_threshold must be >= 0, got %d", cfg.Analysis.AssetThreshold)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is valid as a crawl start point.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
