package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Page is what the navigator and extractor need from the live tab.
type Page interface {
	WaitPresent(sel string) error
	AttrValues(sel, attr string) ([]string, error)
	TextValues(sel string) ([]string, error)
	ArmSettle() error
	ClickNth(sel string, index int) (bool, error)
	Settle() error
	RowsHTML(sel string, limit int) ([]string, error)
}

// chromePage runs every operation on the tab under the action timeout.
type chromePage struct {
	ctx           context.Context
	actionTimeout time.Duration
	settler       Settler
}

// runWithTimeout runs actions under the action timeout.
func (p *chromePage) runWithTimeout(actions ...chromedp.Action) error {
	select {
	case <-p.ctx.Done():
		return fmt.Errorf("parent context canceled: %w", p.ctx.Err())
	default:
		timeoutCtx, cancel := context.WithTimeout(p.ctx, p.actionTimeout)
		defer cancel()

		err := chromedp.Run(timeoutCtx, actions...)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("action timed out after %v: %w", p.actionTimeout, err)
			}
			return err
		}
		return nil
	}
}

// WaitPresent waits for at least one node matching sel to exist.
func (p *chromePage) WaitPresent(sel string) error {
	err := p.runWithTimeout(chromedp.WaitReady(sel, chromedp.ByQuery))
	if err != nil && errors.Is(err, context.DeadlineExceeded) && p.ctx.Err() == nil {
		return fmt.Errorf("%w: %s: %v", ErrElementNotReady, sel, err)
	}
	return err
}

func (p *chromePage) AttrValues(sel, attr string) ([]string, error) {
	var values []string
	err := p.runWithTimeout(chromedp.Evaluate(attrListJS(sel, attr), &values))
	return values, err
}

func (p *chromePage) TextValues(sel string) ([]string, error) {
	var labels []string
	err := p.runWithTimeout(chromedp.Evaluate(textListJS(sel), &labels))
	return labels, err
}

func (p *chromePage) ArmSettle() error {
	return p.runWithTimeout(p.settler.Arm())
}

func (p *chromePage) ClickNth(sel string, index int) (bool, error) {
	var clicked bool
	err := p.runWithTimeout(chromedp.Evaluate(clickNthJS(sel, index), &clicked, withUserGesture))
	return clicked, err
}

func (p *chromePage) Settle() error {
	return p.runWithTimeout(p.settler.Wait())
}

// RowsHTML returns the outer HTML of the first limit nodes matching sel, in
// the same querySelectorAll order the row wait saw.
func (p *chromePage) RowsHTML(sel string, limit int) ([]string, error) {
	var rows []string
	err := p.runWithTimeout(chromedp.Evaluate(rowsHTMLJS(sel, limit), &rows))
	return rows, err
}

func rowsHTMLJS(sel string, limit int) string {
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).slice(0, %d).map(el => el.outerHTML)`,
		jsString(sel), limit)
}
