package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for recrafter.
type Config struct {
	Crawler  CrawlerConfig  `mapstructure:"crawler"  yaml:"crawler"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// CrawlerConfig controls the crawl orchestrator.
type CrawlerConfig struct {
	MaxDepth          int           `mapstructure:"max_depth"          yaml:"max_depth"`
	Delay             time.Duration `mapstructure:"delay"              yaml:"delay"`
	MaxConcurrent     int           `mapstructure:"max_concurrent"     yaml:"max_concurrent"`
	Timeout           time.Duration `mapstructure:"timeout"            yaml:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"        yaml:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"        yaml:"retry_delay"`
	UserAgent         string        `mapstructure:"user_agent"         yaml:"user_agent"`
	IncludeSubdomains bool          `mapstructure:"include_subdomains" yaml:"include_subdomains"`
	RespectRobots     bool          `mapstructure:"respect_robots"     yaml:"respect_robots"`
}

// FetcherConfig controls the HTTP fetcher.
type FetcherConfig struct {
	FollowRedirects bool  `mapstructure:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects    int   `mapstructure:"max_redirects"    yaml:"max_redirects"`
	MaxBodySize     int64 `mapstructure:"max_body_size"    yaml:"max_body_size"`
}

// StorageConfig controls where and how crawl output is persisted.
type StorageConfig struct {
	OutputDir  string `mapstructure:"output_dir"  yaml:"output_dir"`
	SaveAssets bool   `mapstructure:"save_assets" yaml:"save_assets"`
	CleanHTML  bool   `mapstructure:"clean_html"  yaml:"clean_html"`

	// Backend selects the metadata sink: "file" or "mongodb".
	Backend         string `mapstructure:"backend"          yaml:"backend"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// AnalysisConfig controls content analysis and clustering.
type AnalysisConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	ExtractComponents   bool    `mapstructure:"extract_components"   yaml:"extract_components"`
	IdentifyPageTypes   bool    `mapstructure:"identify_page_types"  yaml:"identify_page_types"`
	GenerateModels      bool    `mapstructure:"generate_models"      yaml:"generate_models"`

	// AssetThreshold is the asset count above which an asset-management
	// recommendation is emitted.
	AssetThreshold int `mapstructure:"asset_threshold" yaml:"asset_threshold"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Crawler: CrawlerConfig{
			MaxDepth:      3,
			Delay:         1 * time.Second,
			MaxConcurrent: 5,
			Timeout:       30 * time.Second,
			MaxRetries:    3,
			RetryDelay:    2 * time.Second,
			UserAgent:     "Recrafter/" + Version,
			RespectRobots: true,
		},
		Fetcher: FetcherConfig{
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
		},
		Storage: StorageConfig{
			OutputDir:  "./crawl_output",
			SaveAssets: true,
			Backend:    "file",
		},
		Analysis: AnalysisConfig{
			SimilarityThreshold: 0.8,
			ExtractComponents:   true,
			IdentifyPageTypes:   true,
			GenerateModels:      true,
			AssetThreshold:      100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
