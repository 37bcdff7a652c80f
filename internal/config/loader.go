package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flag overrides are applied by the caller afterwards.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("RECRAFTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("recrafter")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".recrafter"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("crawler.max_depth", cfg.Crawler.MaxDepth)
	v.SetDefault("crawler.delay", cfg.Crawler.Delay)
	v.SetDefault("crawler.max_concurrent", cfg.Crawler.MaxConcurrent)
	v.SetDefault("crawler.timeout", cfg.Crawler.Timeout)
	v.SetDefault("crawler.max_retries", cfg.Crawler.MaxRetries)
	v.SetDefault("crawler.retry_delay", cfg.Crawler.RetryDelay)
	v.SetDefault("crawler.user_agent", cfg.Crawler.UserAgent)
	v.SetDefault("crawler.include_subdomains", cfg.Crawler.IncludeSubdomains)
	v.SetDefault("crawler.respect_robots", cfg.Crawler.RespectRobots)

	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)

	v.SetDefault("storage.output_dir", cfg.Storage.OutputDir)
	v.SetDefault("storage.save_assets", cfg.Storage.SaveAssets)
	v.SetDefault("storage.clean_html", cfg.Storage.CleanHTML)
	v.SetDefault("storage.backend", cfg.Storage.Backend)

	v.SetDefault("analysis.similarity_threshold", cfg.Analysis.SimilarityThreshold)
	v.SetDefault("analysis.extract_components", cfg.Analysis.ExtractComponents)
	v.SetDefault("analysis.identify_page_types", cfg.Analysis.IdentifyPageTypes)
	v.SetDefault("analysis.generate_models", cfg.Analysis.GenerateModels)
	v.SetDefault("analysis.asset_threshold", cfg.Analysis.AssetThreshold)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
