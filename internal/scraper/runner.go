package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"iplstats/internal/model"
)

// State is a step of a run.
type State int

const (
	Idle State = iota
	Running
	Scraping
	Success
	Skipped
	Finalizing
	Done
	Fatal
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Scraping:
		return "scraping"
	case Success:
		return "success"
	case Skipped:
		return "skipped"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is the browser resource a run owns.
type Session interface {
	Start(ctx context.Context) (context.Context, error)
	Stop() error
}

// PairScraper scrapes one (season, category) pair on an open page.
type PairScraper interface {
	Scrape(season, category string) (model.SeasonCategoryResult, error)
}

// Sink receives the complete result set once, at the end of a run.
type Sink interface {
	Write(rs model.ResultSet) error
}

var _ PairScraper = (*Scraper)(nil)

type Summary struct {
	State     State
	Attempted int
	Succeeded int
	Skipped   []*PairError
}

// Runner walks every season, and within it every category, on a single page.
type Runner struct {
	Session    Session
	NewScraper func(pageCtx context.Context) PairScraper
	Sink       Sink
	Seasons    []string
	Categories []string
	Logger     *slog.Logger

	state State
}

// State reports where the last or current run is.
func (r *Runner) State() State { return r.state }

func (r *Runner) transition(s State) {
	r.state = s
	r.Logger.Debug("state", "state", s)
}

// Run starts the session, scrapes every pair and hands the results to the
// sink. A pair that fails is logged and left out. A session that fails to
// start, or a canceled ctx, ends the run with a *FatalError and nothing is
// written. The session is stopped on every path.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	r.transition(Running)

	defer func() {
		r.Logger.Info("Cleaning up browser...")
		if err := r.Session.Stop(); err != nil {
			r.Logger.Warn("Browser cleanup failed", "err", err)
		}
	}()

	pageCtx, err := r.Session.Start(ctx)
	if err != nil {
		r.transition(Fatal)
		sum.State = Fatal
		return sum, &FatalError{Err: err}
	}

	scraper := r.NewScraper(pageCtx)
	results := model.ResultSet{}

	for _, season := range r.Seasons {
		for _, category := range r.Categories {
			if err := ctx.Err(); err != nil {
				r.transition(Fatal)
				sum.State = Fatal
				return sum, &FatalError{Err: fmt.Errorf("run interrupted: %w", err)}
			}

			r.transition(Scraping)
			r.Logger.Info("Scraping data", "season", season, "category", category)
			sum.Attempted++

			result, err := scraper.Scrape(season, category)
			if err != nil {
				pairErr := &PairError{Season: season, Category: category, Err: err}
				r.Logger.Error("Failed to scrape data", "season", season, "category", category, "err", err)
				sum.Skipped = append(sum.Skipped, pairErr)
				r.transition(Skipped)
				continue
			}

			results = append(results, result)
			sum.Succeeded++
			r.transition(Success)
		}
	}

	r.transition(Finalizing)
	if err := r.Sink.Write(results); err != nil {
		r.transition(Fatal)
		sum.State = Fatal
		return sum, fmt.Errorf("write results: %w", err)
	}

	r.transition(Done)
	sum.State = Done
	return sum, nil
}
