package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/h0ck3ystyx/recrafter/internal/analysis"
	"github.com/h0ck3ystyx/recrafter/internal/analyzer"
	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/crawler"
	"github.com/h0ck3ystyx/recrafter/internal/export"
	"github.com/h0ck3ystyx/recrafter/internal/fetcher"
	"github.com/h0ck3ystyx/recrafter/internal/storage"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

var (
	cfgFile string
	verbose bool

	outputDir     string
	maxDepth      int
	maxConcurrent int
	delay         string
	userAgent     string
	subdomains    bool
	cleanHTML     bool
	noAssets      bool
	ignoreRobots  bool
	runAnalysis   bool

	inputDir     string
	outputFile   string
	threshold    float64
	exportFormat string

	initPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "recrafter",
		Short: "Recrafter — website structure analyzer for CMS migration",
		Long: `Recrafter crawls a website, mirrors its pages and assets, and analyzes
page structure to plan a CMS migration:

  • Breadth-first crawling with depth and concurrency limits
  • Metadata, component, and layout extraction per page
  • Structural similarity clustering to find template candidates
  • Content model and migration recommendation generation
  • JSON, YAML, and CMS-package export`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(crawlCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// crawlCmd creates the "crawl" subcommand.
func crawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a website and mirror its structure",
		Args:  cobra.ExactArgs(1),
		RunE:  runCrawl,
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().IntVarP(&maxDepth, "depth", "d", 0, "maximum crawl depth")
	cmd.Flags().IntVarP(&maxConcurrent, "concurrency", "n", 0, "maximum concurrent fetches")
	cmd.Flags().StringVar(&delay, "delay", "", "politeness delay between requests (e.g. 500ms)")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "custom User-Agent string")
	cmd.Flags().BoolVar(&subdomains, "subdomains", false, "follow links to subdomains")
	cmd.Flags().BoolVar(&cleanHTML, "clean-html", false, "strip scripts, styles, and ad markup before saving")
	cmd.Flags().BoolVar(&noAssets, "no-assets", false, "skip downloading assets")
	cmd.Flags().BoolVar(&ignoreRobots, "ignore-robots", false, "do not honor robots.txt exclusion rules")
	cmd.Flags().BoolVar(&runAnalysis, "analyze", false, "run structural analysis after the crawl")

	return cmd
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	applyCrawlOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	startURL := args[0]
	if err := config.ValidateURL(startURL); err != nil {
		return fmt.Errorf("invalid URL %q: %w", startURL, err)
	}

	store, err := storage.NewFileStore(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}

	httpFetcher := fetcher.New(cfg, logger)
	defer httpFetcher.Close()

	contentAnalyzer := analyzer.New(cfg.Analysis, logger)
	c := crawler.New(cfg, httpFetcher, contentAnalyzer, store, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	result, err := c.Crawl(ctx, startURL)
	if err != nil && !errors.Is(err, types.ErrCrawlStopped) {
		return fmt.Errorf("crawl: %w", err)
	}
	if errors.Is(err, types.ErrCrawlStopped) {
		logger.Warn("crawl interrupted, saving partial results")
	}

	if err := store.SaveResult(result); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}

	if cfg.Storage.Backend == "mongodb" {
		sink, err := storage.NewMongoSink(cfg.Storage, logger)
		if err != nil {
			logger.Error("mongodb sink unavailable", "error", err)
		} else {
			if err := sink.Publish(context.Background(), result); err != nil {
				logger.Error("mongodb publish failed", "error", err)
			}
			sink.Close()
		}
	}

	stats := result.Statistics
	fmt.Printf("\nCrawl complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Pages:      %d\n", stats.TotalPages)
	fmt.Printf("  Assets:     %d\n", stats.TotalAssets)
	fmt.Printf("  Links:      %d (%d internal, %d external)\n",
		stats.TotalLinks, stats.InternalLinks, stats.ExternalLinks)
	fmt.Printf("  Components: %d\n", stats.TotalComponents)
	fmt.Printf("  Errors:     %d, Warnings: %d\n", stats.Errors, stats.Warnings)
	fmt.Printf("  Output:     %s\n", cfg.Storage.OutputDir)

	if runAnalysis {
		return analyzeSiteMap(ctx, cfg, logger, result.SiteMap, "")
	}
	return nil
}

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a previously crawled site",
		RunE:  runAnalyze,
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory holding crawl output")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "analysis output directory (defaults to the input directory)")
	cmd.Flags().Float64VarP(&threshold, "similarity-threshold", "s", 0, "similarity threshold for clustering (0,1)")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Storage.OutputDir = inputDir
	if threshold > 0 {
		cfg.Analysis.SimilarityThreshold = threshold
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	store, err := storage.NewFileStore(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	sm, err := store.LoadSiteMap()
	if err != nil {
		return fmt.Errorf("load crawl data: %w", err)
	}

	return analyzeSiteMap(cmd.Context(), cfg, logger, sm, outputFile)
}

// analyzeSiteMap runs the analysis engine and writes the JSON report.
func analyzeSiteMap(ctx context.Context, cfg *config.Config, logger *slog.Logger, sm *types.SiteMap, outDir string) error {
	engine := analysis.NewEngine(cfg, logger)
	report, err := engine.Run(ctx, sm)
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	if outDir == "" {
		outDir = cfg.Storage.OutputDir + "/metadata"
	}
	path, err := export.New(logger).Export(report, outDir, export.FormatJSON)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Printf("\nAnalysis complete\n")
	fmt.Printf("  Pages analyzed:  %d\n", report.TotalPages)
	fmt.Printf("  Clusters:        %d\n", len(report.PageClustering.Clusters))
	fmt.Printf("  Recommendations: %d\n", len(report.Recommendations))
	fmt.Printf("  Report:          %s\n", path)
	return nil
}

// exportCmd creates the "export" subcommand.
func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export analysis results as JSON, YAML, or a CMS package",
		RunE:  runExport,
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory holding crawl output")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "export output directory (defaults to <input>/export)")
	cmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatCMS, "export format: cms, json, yaml")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Storage.OutputDir = inputDir
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	store, err := storage.NewFileStore(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	sm, err := store.LoadSiteMap()
	if err != nil {
		return fmt.Errorf("load crawl data: %w", err)
	}

	engine := analysis.NewEngine(cfg, logger)
	report, err := engine.Run(cmd.Context(), sm)
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	if outputDir == "" {
		outputDir = inputDir + "/export"
	}
	path, err := export.New(logger).Export(report, outputDir, exportFormat)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Printf("Export complete: %s\n", path)
	return nil
}

// initCmd creates the "init" subcommand.
func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(initPath); err == nil {
				return fmt.Errorf("configuration file already exists: %s", initPath)
			}

			data, err := yaml.Marshal(config.DefaultConfig())
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			if err := os.WriteFile(initPath, data, 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Printf("Configuration file created: %s\n", initPath)
			fmt.Println("Edit the file to customize settings before crawling.")
			return nil
		},
	}
	cmd.Flags().StringVar(&initPath, "path", "./recrafter.yaml", "configuration file path")
	return cmd
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Crawler:\n")
			fmt.Printf("  Max Depth:          %d\n", cfg.Crawler.MaxDepth)
			fmt.Printf("  Max Concurrent:     %d\n", cfg.Crawler.MaxConcurrent)
			fmt.Printf("  Delay:              %s\n", cfg.Crawler.Delay)
			fmt.Printf("  Timeout:            %s\n", cfg.Crawler.Timeout)
			fmt.Printf("  Max Retries:        %d\n", cfg.Crawler.MaxRetries)
			fmt.Printf("  Include Subdomains: %v\n", cfg.Crawler.IncludeSubdomains)
			fmt.Printf("  Respect Robots:     %v\n", cfg.Crawler.RespectRobots)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Follow Redirects:   %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Printf("  Max Body Size:      %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Output Dir:         %s\n", cfg.Storage.OutputDir)
			fmt.Printf("  Save Assets:        %v\n", cfg.Storage.SaveAssets)
			fmt.Printf("  Clean HTML:         %v\n", cfg.Storage.CleanHTML)
			fmt.Printf("  Backend:            %s\n", cfg.Storage.Backend)
			fmt.Printf("\nAnalysis:\n")
			fmt.Printf("  Similarity Threshold: %g\n", cfg.Analysis.SimilarityThreshold)
			fmt.Printf("  Extract Components:   %v\n", cfg.Analysis.ExtractComponents)
			fmt.Printf("  Generate Models:      %v\n", cfg.Analysis.GenerateModels)
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Recrafter %s\n", config.Version)
		},
	}
}

// loadConfig loads configuration and builds the logger it describes.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, setupLogger(cfg.Logging), nil
}

// setupLogger creates a structured logger per the logging configuration.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCrawlOverrides applies crawl command flags to the config.
func applyCrawlOverrides(cfg *config.Config) {
	if outputDir != "" {
		cfg.Storage.OutputDir = outputDir
	}
	if maxDepth > 0 {
		cfg.Crawler.MaxDepth = maxDepth
	}
	if maxConcurrent > 0 {
		cfg.Crawler.MaxConcurrent = maxConcurrent
	}
	if delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			cfg.Crawler.Delay = d
		}
	}
	if userAgent != "" {
		cfg.Crawler.UserAgent = userAgent
	}
	if subdomains {
		cfg.Crawler.IncludeSubdomains = true
	}
	if cleanHTML {
		cfg.Storage.CleanHTML = true
	}
	if noAssets {
		cfg.Storage.SaveAssets = false
	}
	if ignoreRobots {
		cfg.Crawler.RespectRobots = false
	}
}
