package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/scraper"
)

// settings holds the scraper configuration shared by every command.
var settings = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:           "scraper",
	Short:         "scraper retrieves time series from the EVDS series market.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, level := newLogger(settings.Verbose)
		slog.SetDefault(logger)
		slog.SetLogLoggerLevel(level.Level())
		return loadSettings(cmd, settings)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&settings.Verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&settings.BaseURL, "base-url", settings.BaseURL, "Series market URL")
	flags.StringVar(&settings.ChromePath, "chrome-path", "", "Chrome or Chromium executable (default: search PATH)")
	flags.BoolVar(&settings.Headless, "headless", settings.Headless, "Run the browser without a window")
	flags.DurationVar(&settings.Timeout, "timeout", settings.Timeout, "Wait for each page element")
	flags.DurationVar(&settings.PageLoadTimeout, "page-timeout", settings.PageLoadTimeout, "Wait for page loads and reports")
	flags.DurationVar(&settings.StepDelay, "step-delay", settings.StepDelay, "Pause after each click")
	flags.IntVar(&settings.MaxScrolls, "max-scrolls", settings.MaxScrolls, "Give up reading a report grid after this many scrolls")
	flags.StringVar(&settings.MetricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
}

// loadSettings applies EVDS_* variables for every setting not given as a flag
// and validates the result.
func loadSettings(cmd *cobra.Command, cfg *config.Config) error {
	flagged := *cfg
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = flagged.BaseURL
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath = flagged.ChromePath
	}
	if flags.Changed("headless") {
		cfg.Headless = flagged.Headless
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagged.Timeout
	}
	if flags.Changed("step-delay") {
		cfg.StepDelay = flagged.StepDelay
	}
	if flags.Changed("max-scrolls") {
		cfg.MaxScrolls = flagged.MaxScrolls
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = flagged.MetricsAddr
	}
	return cfg.Validate()
}

// serveMetrics exposes m on cfg.MetricsAddr and returns a function that stops
// the server. Without an address it does nothing.
func serveMetrics(cfg *config.Config, m *scraper.Metrics) func() {
	if cfg.MetricsAddr == "" || m == nil {
		return func() {}
	}

	server := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}
}
