package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrElementNotReady means an expected element set did not appear within
	// the action timeout.
	ErrElementNotReady = errors.New("element not ready")

	// ErrFilterNotFound means no filter option matched the requested label.
	ErrFilterNotFound = errors.New("filter not found")
)

// FilterNotFoundError names the option that could not be matched.
type FilterNotFoundError struct {
	Kind  string // season or category
	Label string
}

func (e *FilterNotFoundError) Error() string {
	return fmt.Sprintf("%s element for %s not found", e.Kind, e.Label)
}

func (e *FilterNotFoundError) Is(target error) bool { return target == ErrFilterNotFound }

// PairError is a recoverable failure scoped to one (season, category) pair.
// The runner logs it and moves on to the next pair.
type PairError struct {
	Season   string
	Category string
	Err      error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("season %s, category %s: %v", e.Season, e.Category, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

// FatalError aborts the run. Only session startup and cancellation produce it.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
