// Command iplstats scrapes the IPL batting leaderboards for a fixed set of
// seasons and stat categories and writes them to data.json in the working
// directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"iplstats/internal/browser"
	"iplstats/internal/config"
	"iplstats/internal/output"
	"iplstats/internal/scraper"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "iplstats",
		Short:         "Scrape IPL batting leaderboards into data.json",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, config.New())
		},
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	path := filepath.Join(wd, cfg.OutputFile)

	r := &scraper.Runner{
		Session: browser.NewSession(cfg, logger),
		NewScraper: func(pageCtx context.Context) scraper.PairScraper {
			return scraper.New(pageCtx, cfg, logger)
		},
		Sink:       output.FileSink{Path: path},
		Seasons:    cfg.Seasons,
		Categories: cfg.Categories,
		Logger:     logger,
	}

	logger.Info("Starting scraping process...")
	sum, err := r.Run(ctx)
	if err != nil {
		logger.Error("Error during scraping", "err", err)
		return err
	}

	logger.Info("Data successfully written", "path", path,
		"pairs", sum.Attempted, "succeeded", sum.Succeeded, "skipped", len(sum.Skipped))
	return nil
}
