package scraper

import (
	"context"
	"fmt"
	"time"

	"iplstats/internal/config"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Settler decides when the page has finished repainting after a click. Arm
// runs before the click, Wait after it.
type Settler interface {
	Arm() chromedp.Action
	Wait() chromedp.Action
}

func NewSettler(cfg *config.Config) Settler {
	if cfg.SettleMode == config.SettleMutation {
		return MutationSettler{
			Target: cfg.SettleTarget,
			Min:    cfg.SettleMin,
			Quiet:  cfg.SettleQuiet,
			Max:    cfg.SettleDelay,
		}
	}
	return FixedSettler{Delay: cfg.SettleDelay}
}

// FixedSettler pauses for Delay regardless of what the page does.
type FixedSettler struct {
	Delay time.Duration
}

func (FixedSettler) Arm() chromedp.Action {
	return chromedp.ActionFunc(func(context.Context) error { return nil })
}

func (f FixedSettler) Wait() chromedp.Action {
	return chromedp.Sleep(f.Delay)
}

// MutationSettler watches the Target subtree with a MutationObserver. Wait
// returns once Min has passed since Arm, at least one mutation happened under
// Target and none followed for Quiet. It gives up without error after Max.
// Changes elsewhere on the page, such as the clicked filter turning active,
// are not observed.
type MutationSettler struct {
	Target string
	Min    time.Duration
	Quiet  time.Duration
	Max    time.Duration
}

func (m MutationSettler) Arm() chromedp.Action {
	var armed bool
	return chromedp.Evaluate(armObserverJS(m.Target), &armed)
}

func (m MutationSettler) Wait() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var quiet bool
		err := chromedp.Evaluate(waitQuietJS(m.Min, m.Quiet, m.Max), &quiet, awaitPromise).Do(ctx)
		if err != nil {
			return fmt.Errorf("wait for page to settle: %w", err)
		}
		return nil
	})
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// armObserverJS starts counting mutations under target. A missing target is
// never observed, so the following wait runs to its upper bound.
func armObserverJS(target string) string {
	return fmt.Sprintf(`(() => {
	const prev = window.__iplstatsSettle;
	if (prev && prev.observer) prev.observer.disconnect();
	const now = Date.now();
	const state = { count: 0, last: now, armed: now, observer: null };
	const target = document.querySelector(%s);
	if (target) {
		state.observer = new MutationObserver(() => { state.count++; state.last = Date.now(); });
		state.observer.observe(target, { subtree: true, childList: true, characterData: true, attributes: true });
	}
	window.__iplstatsSettle = state;
	return target !== null;
})()`, jsString(target))
}

func waitQuietJS(minimum, quiet, limit time.Duration) string {
	return fmt.Sprintf(`new Promise(resolve => {
	const state = window.__iplstatsSettle;
	const started = Date.now();
	const armed = state ? state.armed : started;
	const done = (quiet) => {
		if (state && state.observer) state.observer.disconnect();
		resolve(quiet);
	};
	const tick = () => {
		const now = Date.now();
		if (state && state.count > 0 && now - armed >= %d && now - state.last >= %d) return done(true);
		if (now - armed >= %d) return done(false);
		setTimeout(tick, 50);
	};
	tick();
})`, minimum.Milliseconds(), quiet.Milliseconds(), limit.Milliseconds())
}
