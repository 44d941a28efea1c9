// Package scraper drives the stats page: it applies the season and category
// filters, reads the leaderboard table and loops over every configured pair.
package scraper

import (
	"context"
	"log/slog"

	"iplstats/internal/config"
	"iplstats/internal/model"
)

// Scraper works on one live tab. It is not safe for concurrent use; the page
// holds a single filter selection at a time.
type Scraper struct {
	page     Page
	rowLimit int
	sel      config.Selectors
	logger   *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) *Scraper {
	return newWithPage(&chromePage{
		ctx:           ctx,
		actionTimeout: cfg.ActionTimeout,
		settler:       NewSettler(cfg),
	}, cfg, logger)
}

func newWithPage(p Page, cfg *config.Config, logger *slog.Logger) *Scraper {
	return &Scraper{
		page:     p,
		rowLimit: cfg.RowLimit,
		sel:      cfg.Selectors,
		logger:   logger,
	}
}

// Scrape applies both filters and reads the leaderboard for one pair.
func (s *Scraper) Scrape(season, category string) (model.SeasonCategoryResult, error) {
	if err := s.SelectSeasonAndCategory(season, category); err != nil {
		return model.SeasonCategoryResult{}, err
	}
	stats, err := s.ExtractTopRows()
	if err != nil {
		return model.SeasonCategoryResult{}, err
	}
	return model.SeasonCategoryResult{
		Season:       season,
		StatCategory: category,
		Stats:        stats,
	}, nil
}
