// Package config holds the fixed settings of the IPL stats scraper.
//
// The scraper takes no flags and reads no environment: everything it needs is
// a constant returned by New.
package config

import (
	"errors"
	"time"
)

// SettleMode selects how the navigator waits for the page to repaint after a
// filter click.
type SettleMode string

const (
	// SettleFixed always pauses for SettleDelay.
	SettleFixed SettleMode = "fixed"
	// SettleMutation waits for the leaderboard table to change and then go
	// quiet, no sooner than SettleMin and no later than SettleDelay.
	SettleMutation SettleMode = "mutation"
)

const (
	DefaultURL        = "https://www.iplt20.com/stats/"
	DefaultOutputFile = "data.json"
)

// Selectors are the CSS hooks of the stats page.
type Selectors struct {
	SeasonFilter   string
	SeasonAttr     string
	CategoryFilter string
	TableRows      string
	RowCells       string
	PlayerName     string
}

type Config struct {
	URL      string
	Headless bool
	Debug    bool

	ViewportWidth  int64
	ViewportHeight int64

	NavigationTimeout time.Duration // Initial page load
	ActionTimeout     time.Duration // Ceiling for each element wait

	SettleMode   SettleMode
	SettleDelay  time.Duration // Fixed pause, or upper bound in mutation mode
	SettleMin    time.Duration // Mutation mode never settles earlier
	SettleQuiet  time.Duration // Quiet window in mutation mode
	SettleTarget string        // Subtree watched in mutation mode

	RowLimit   int
	Seasons    []string
	Categories []string
	Selectors  Selectors

	OutputFile string
}

var (
	ErrNoURL             = errors.New("invalid config: url is empty")
	ErrNoSeasons         = errors.New("invalid config: no seasons configured")
	ErrNoCategories      = errors.New("invalid config: no stat categories configured")
	ErrInvalidTimeout    = errors.New("invalid config: timeouts must be positive")
	ErrInvalidRowLimit   = errors.New("invalid config: row limit must be positive")
	ErrInvalidSettle     = errors.New("invalid config: settle quiet window and minimum must be positive, not exceed the settle delay, and name a target")
	ErrUnknownSettleMode = errors.New("invalid config: unknown settle mode")
)

func New() *Config {
	return &Config{
		URL:      DefaultURL,
		Headless: true,

		ViewportWidth:  1080,
		ViewportHeight: 1024,

		NavigationTimeout: 60 * time.Second,
		ActionTimeout:     60 * time.Second,

		SettleMode:   SettleFixed,
		SettleDelay:  5 * time.Second,
		SettleMin:    time.Second,
		SettleQuiet:  750 * time.Millisecond,
		SettleTarget: ".statsTable",

		RowLimit: 10,
		Seasons:  []string{"2024", "2023", "2022", "2021", "2019"},
		Categories: []string{
			"Most Fours",
			"Most Sixes",
			"Orange Cap",
			"Most Centuries",
			"Most Fifties",
		},
		Selectors: Selectors{
			SeasonFilter:   ".cSBListItems.seasonFilterItems",
			SeasonAttr:     "data-val",
			CategoryFilter: ".cSBListItems.batters.ng-binding.ng-scope",
			TableRows:      ".statsTable > tbody > tr",
			RowCells:       "td.ng-binding",
			PlayerName:     ".st-ply > a > .ng-binding",
		},

		OutputFile: DefaultOutputFile,
	}
}

// Validate reports the first setting that would make a run meaningless.
func (c *Config) Validate() error {
	switch {
	case c.URL == "":
		return ErrNoURL
	case len(c.Seasons) == 0:
		return ErrNoSeasons
	case len(c.Categories) == 0:
		return ErrNoCategories
	case c.NavigationTimeout <= 0 || c.ActionTimeout <= 0 || c.SettleDelay <= 0:
		return ErrInvalidTimeout
	case c.RowLimit <= 0:
		return ErrInvalidRowLimit
	}

	switch c.SettleMode {
	case SettleFixed:
	case SettleMutation:
		if c.SettleQuiet <= 0 || c.SettleQuiet > c.SettleDelay ||
			c.SettleMin <= 0 || c.SettleMin > c.SettleDelay || c.SettleTarget == "" {
			return ErrInvalidSettle
		}
	default:
		return ErrUnknownSettleMode
	}
	return nil
}
