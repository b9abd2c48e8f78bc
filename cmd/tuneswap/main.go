// Package main provides the TuneSwap service entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"tuneswap/internal/core"
	httpserver "tuneswap/internal/http"
	"tuneswap/internal/store"
	"tuneswap/pkg/applemusic"
	"tuneswap/pkg/spotlink"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tuneswap",
	Short: "TuneSwap - Spotify → Apple Music link converter",
	Long: `TuneSwap converts Spotify track, album, artist and playlist links into
equivalent Apple Music destinations, serving exact catalog matches when the
iTunes Search API finds one and regional search URLs otherwise.`,
	RunE: runTuneSwap,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("enabled", true, "whether conversion runs at all")
	rootCmd.PersistentFlags().String("country-code", "us", "Apple Music storefront country code")
	rootCmd.PersistentFlags().Float64("match-threshold", 0.8, "exact-match acceptance score")
	rootCmd.PersistentFlags().Int("search-limit", 10, "maximum search candidates per conversion")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID (enables Web API metadata)")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("server-host", "0.0.0.0", "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")
	rootCmd.PersistentFlags().String("stats-path", "./tuneswap_stats.db", "usage stats database path")
	rootCmd.PersistentFlags().Int("cache-size", 1024, "conversion result cache size")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
	}

	viper.SetEnvPrefix("TUNESWAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Convert.Enabled = viper.GetBool("enabled")
	if cc := viper.GetString("country-code"); cc != "" {
		cfg.Convert.CountryCode = cc
	}
	if threshold := viper.GetFloat64("match-threshold"); threshold > 0 {
		cfg.Convert.MatchThreshold = threshold
	}
	if limit := viper.GetInt("search-limit"); limit > 0 {
		cfg.Convert.SearchLimit = limit
	}

	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")

	if host := viper.GetString("server-host"); host != "" {
		cfg.Server.Host = host
	}
	if port := viper.GetInt("server-port"); port != 0 {
		cfg.Server.Port = port
	}

	if path := viper.GetString("stats-path"); path != "" {
		cfg.Store.StatsPath = path
	}
	if size := viper.GetInt("cache-size"); size > 0 {
		cfg.Store.CacheSize = size
	}

	cfg.Log.Level = viper.GetString("log-level")

	return cfg
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runTuneSwap(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting TuneSwap",
		zap.String("country_code", config.Convert.CountryCode),
		zap.Bool("enabled", config.Convert.Enabled),
		zap.Bool("spotify_api", config.Spotify.ClientID != ""))

	stats, err := store.NewStatsStore(config.Store.StatsPath)
	if err != nil {
		return fmt.Errorf("failed to open stats store: %w", err)
	}
	defer func() {
		_ = stats.Close()
	}()

	cache := store.NewResultCache[*core.ConversionResult](
		config.Store.CacheSize, store.DefaultBloomFalsePositiveRate)

	strategies := spotlink.DefaultStrategies()
	if config.Spotify.ClientID != "" && config.Spotify.ClientSecret != "" {
		strategies = append(
			[]spotlink.Strategy{spotlink.NewAPIStrategy(config.Spotify.ClientID, config.Spotify.ClientSecret)},
			strategies...)
	}
	resolver := spotlink.NewResolver(strategies...)

	searcher := applemusic.NewSearcher()
	searcher.Limit = config.Convert.SearchLimit
	matcher := applemusic.NewMatcher(searcher)
	matcher.Threshold = config.Convert.MatchThreshold

	metrics := httpserver.NewMetrics()

	converter := core.NewConverter(
		config,
		resolver,
		matcher,
		cache,
		stats,
		metrics,
		logger.Named("converter"),
	)

	fallback := func() string {
		return matcher.BareSearchURL(config.Convert.CountryCode)
	}

	server := httpserver.NewServer(
		&config.Server, converter, stats, fallback, metrics, logger.Named("http"))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(gCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("service exited with error: %w", err)
	}

	logger.Info("TuneSwap stopped")
	return nil
}
