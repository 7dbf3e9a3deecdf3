// Package cli implements the veracity command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/factlab/veracity/internal/cache"
	"github.com/factlab/veracity/internal/embed"
	"github.com/factlab/veracity/internal/model"
	"github.com/factlab/veracity/internal/pipeline"
	"github.com/factlab/veracity/internal/search"
	"github.com/factlab/veracity/internal/util"
	"github.com/factlab/veracity/internal/worker"
)

var (
	cfgFile string
	verbose bool
	noCache bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veracity",
	Short: "Veracity - evidence-based claim verification",
	Long: `Veracity checks factual claims against the public web.

For each claim it retrieves search results, ranks them by semantic
similarity to the claim, scores the evidence for relevance and source
diversity, and reports a verdict with the supporting documents.

Veracity measures how well a claim is supported by retrievable
evidence; it does not decide what is true.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Veracity.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("veracity v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.veracity.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the search response cache")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for .veracity.yaml in home directory
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".veracity")
	}

	// AutomaticEnv resolves only keys viper already knows about, so every
	// default must be registered before VERACITY_* overrides can reach
	// Unmarshal.
	registerDefaults()

	// Read in environment variables that match VERACITY_*.
	// VERACITY_SEARCH_API_KEY maps onto search.api_key, and so on.
	viper.SetEnvPrefix("VERACITY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults seeds viper with the full default tree, keyed the same
// way the YAML config file is.
func registerDefaults() {
	raw, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	defaults := map[string]any{}
	if err := yaml.Unmarshal(raw, &defaults); err != nil {
		return
	}
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
}

// loadConfig resolves the effective configuration: defaults overlaid by
// config file, environment and bound flags.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, nil
}

// setupLogging installs the default slog logger per configuration.
// The --verbose flag forces debug level.
func setupLogging(cfg model.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// buildChecker wires the full pipeline: transport, limiter, cache, quota
// guard, retried search client and probed embedding provider.
func buildChecker(ctx context.Context, cfg *model.Config, logger *slog.Logger) (*pipeline.Checker, error) {
	if cfg.Search.APIKey == "" || cfg.Search.CX == "" {
		return nil, fmt.Errorf("google search requires search.api_key and search.cx (VERACITY_SEARCH_API_KEY, VERACITY_SEARCH_CX)")
	}

	transport := util.NewTransport(cfg.Proxy)

	limiter := worker.NewLimiter(cfg.Rate.SearchRPS, cfg.Rate.Burst)
	limiter.SetServiceRate(worker.ServiceEmbedding, cfg.Rate.EmbeddingRPS, cfg.Rate.Burst)

	var store cache.Cache
	if cfg.Cache.Enabled && !noCache {
		store = cache.NewLayeredCache(cfg.Search.CacheTTL, cacheDir(cfg), cfg.Search.CacheTTL)
	}

	google := search.NewGoogleClient(cfg.Search, search.Deps{
		Transport: transport,
		Limiter:   limiter,
		Store:     store,
		Quota:     search.NewQuotaGuard(store, cfg.Search.DailyQuota),
		Logger:    logger,
	})
	retrier := search.NewRetrier(google, cfg.Search.RetryAttempts, cfg.Search.RetryBase, logger)

	embedder, err := embed.New(ctx, cfg.Embedding, transport, logger)
	if err != nil {
		return nil, err
	}

	return pipeline.NewChecker(cfg, pipeline.Deps{
		Search:   retrier,
		Embedder: embedder,
		Limiter:  limiter,
		Logger:   logger,
	})
}

func cacheDir(cfg *model.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".veracity", "cache")
}

// renderReport writes the report in the requested format, to stdout or
// to the given output path.
func renderReport(report *model.Report, format, outputPath string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	renderer := pipeline.NewRenderer()
	switch strings.ToLower(format) {
	case "json":
		return renderer.RenderJSON(out, report)
	case "markdown", "md":
		return renderer.RenderMarkdown(out, report)
	case "text", "":
		return renderer.RenderText(out, report)
	default:
		return fmt.Errorf("unknown format %q (want json, markdown or text)", format)
	}
}
