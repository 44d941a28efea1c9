package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iplstats/internal/model"
)

type fakeSession struct {
	startErr error
	started  int
	stopped  int
}

func (f *fakeSession) Start(ctx context.Context) (context.Context, error) {
	f.started++
	if f.startErr != nil {
		return nil, f.startErr
	}
	return ctx, nil
}

func (f *fakeSession) Stop() error {
	f.stopped++
	return nil
}

type fakeScraper struct {
	fail  map[string]error // keyed by season/category
	calls []string
}

func (f *fakeScraper) Scrape(season, category string) (model.SeasonCategoryResult, error) {
	key := season + "/" + category
	f.calls = append(f.calls, key)
	if err := f.fail[key]; err != nil {
		return model.SeasonCategoryResult{}, err
	}
	return model.SeasonCategoryResult{
		Season:       season,
		StatCategory: category,
		Stats:        []model.PlayerStatRecord{{Position: model.Text("1"), Player: model.Text(key)}},
	}, nil
}

type fakeSink struct {
	err    error
	writes []model.ResultSet
}

func (f *fakeSink) Write(rs model.ResultSet) error {
	f.writes = append(f.writes, rs)
	return f.err
}

func newRunner(sess *fakeSession, sc *fakeScraper, sink *fakeSink) *Runner {
	return &Runner{
		Session:    sess,
		NewScraper: func(context.Context) PairScraper { return sc },
		Sink:       sink,
		Seasons:    []string{"2024", "2023"},
		Categories: []string{"Most Fours", "Most Sixes", "Orange Cap"},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func pairs(rs model.ResultSet) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Season + "/" + r.StatCategory
	}
	return out
}

func TestRunnerSeasonMajorOrder(t *testing.T) {
	t.Parallel()

	sess, sc, sink := &fakeSession{}, &fakeScraper{}, &fakeSink{}
	r := newRunner(sess, sc, sink)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	want := []string{
		"2024/Most Fours", "2024/Most Sixes", "2024/Orange Cap",
		"2023/Most Fours", "2023/Most Sixes", "2023/Orange Cap",
	}
	assert.Equal(t, want, sc.calls)
	require.Len(t, sink.writes, 1)
	assert.Equal(t, want, pairs(sink.writes[0]))

	assert.Equal(t, Done, sum.State)
	assert.Equal(t, Done, r.State())
	assert.Equal(t, 6, sum.Attempted)
	assert.Equal(t, 6, sum.Succeeded)
	assert.Empty(t, sum.Skipped)
	assert.Equal(t, 1, sess.started)
	assert.Equal(t, 1, sess.stopped)
}

func TestRunnerSkipsFailingPairs(t *testing.T) {
	t.Parallel()

	notFound := &FilterNotFoundError{Kind: "Season", Label: "2023"}
	sc := &fakeScraper{fail: map[string]error{
		"2024/Most Sixes": fmt.Errorf("stats table: %w", ErrElementNotReady),
		"2023/Most Fours": notFound,
		"2023/Most Sixes": notFound,
		"2023/Orange Cap": notFound,
	}}
	sess, sink := &fakeSession{}, &fakeSink{}
	r := newRunner(sess, sc, sink)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, sc.calls, 6, "every pair is attempted exactly once")
	require.Len(t, sink.writes, 1)
	assert.Equal(t, []string{"2024/Most Fours", "2024/Orange Cap"}, pairs(sink.writes[0]))

	assert.Equal(t, Done, sum.State)
	assert.Equal(t, 2, sum.Succeeded)
	require.Len(t, sum.Skipped, 4)
	assert.Equal(t, "2024", sum.Skipped[0].Season)
	assert.Equal(t, "Most Sixes", sum.Skipped[0].Category)
	assert.ErrorIs(t, sum.Skipped[0], ErrElementNotReady)
	for _, skipped := range sum.Skipped[1:] {
		assert.ErrorIs(t, skipped, ErrFilterNotFound)
	}
	assert.Equal(t, 1, sess.stopped)
}

func TestRunnerAllPairsFailStillWrites(t *testing.T) {
	t.Parallel()

	fail := map[string]error{}
	for _, s := range []string{"2024", "2023"} {
		for _, c := range []string{"Most Fours", "Most Sixes", "Orange Cap"} {
			fail[s+"/"+c] = ErrElementNotReady
		}
	}
	sess, sc, sink := &fakeSession{}, &fakeScraper{fail: fail}, &fakeSink{}

	sum, err := newRunner(sess, sc, sink).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sink.writes, 1)
	assert.Empty(t, sink.writes[0])
	assert.NotNil(t, sink.writes[0])
	assert.Equal(t, Done, sum.State)
	assert.Len(t, sum.Skipped, 6)
}

func TestRunnerStartupFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("navigation timed out")
	sess, sc, sink := &fakeSession{startErr: cause}, &fakeScraper{}, &fakeSink{}
	r := newRunner(sess, sc, sink)

	sum, err := r.Run(context.Background())
	require.Error(t, err)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.ErrorIs(t, err, cause)

	assert.Empty(t, sc.calls)
	assert.Empty(t, sink.writes, "nothing is written after a fatal startup")
	assert.Equal(t, 1, sess.stopped, "session is released even when startup fails")
	assert.Equal(t, Fatal, sum.State)
	assert.Equal(t, Fatal, r.State())
}

func TestRunnerCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	sc := &fakeScraper{}
	sess, sink := &fakeSession{}, &fakeSink{}
	r := newRunner(sess, sc, sink)
	r.NewScraper = func(context.Context) PairScraper {
		return cancelAfter{inner: sc, n: 2, cancel: cancel}
	}

	sum, err := r.Run(ctx)
	require.Error(t, err)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, sc.calls, 2)
	assert.Empty(t, sink.writes)
	assert.Equal(t, 1, sess.stopped)
	assert.Equal(t, Fatal, sum.State)
}

// cancelAfter cancels the run once n pairs have been scraped.
type cancelAfter struct {
	inner  *fakeScraper
	n      int
	cancel context.CancelFunc
}

func (c cancelAfter) Scrape(season, category string) (model.SeasonCategoryResult, error) {
	res, err := c.inner.Scrape(season, category)
	if len(c.inner.calls) >= c.n {
		c.cancel()
	}
	return res, err
}

func TestRunnerSinkFailure(t *testing.T) {
	t.Parallel()

	diskFull := errors.New("no space left on device")
	sess, sc, sink := &fakeSession{}, &fakeScraper{}, &fakeSink{err: diskFull}

	sum, err := newRunner(sess, sc, sink).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, Fatal, sum.State)
	assert.Equal(t, 1, sess.stopped)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "fatal", Fatal.String())
	assert.Equal(t, "State(42)", State(42).String())
}
