package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/runtime"
)

// MatchSeason returns the index of the first value equal to season, or -1.
func MatchSeason(values []string, season string) int {
	for i, v := range values {
		if v == season {
			return i
		}
	}
	return -1
}

// MatchCategory returns the index of the first label containing category, or
// -1. Category labels on the page carry extra text, so this is a substring
// match where seasons use equality.
func MatchCategory(labels []string, category string) int {
	for i, l := range labels {
		if strings.Contains(l, category) {
			return i
		}
	}
	return -1
}

// SelectSeasonAndCategory sets both filters on the page, overwriting whatever
// the previous pair selected. The season click settles before the category
// list is read.
func (s *Scraper) SelectSeasonAndCategory(season, category string) error {
	if err := s.page.WaitPresent(s.sel.SeasonFilter); err != nil {
		return fmt.Errorf("season filter: %w", err)
	}
	s.logger.Info("Season filter found")

	values, err := s.page.AttrValues(s.sel.SeasonFilter, s.sel.SeasonAttr)
	if err != nil {
		return fmt.Errorf("read season filters: %w", err)
	}
	if err := s.clickAndSettle(s.sel.SeasonFilter, MatchSeason(values, season), "Season", season); err != nil {
		return err
	}

	if err := s.page.WaitPresent(s.sel.CategoryFilter); err != nil {
		return fmt.Errorf("stat category filter: %w", err)
	}
	s.logger.Info("Stat category filter found")

	labels, err := s.page.TextValues(s.sel.CategoryFilter)
	if err != nil {
		return fmt.Errorf("read stat category filters: %w", err)
	}
	return s.clickAndSettle(s.sel.CategoryFilter, MatchCategory(labels, category), "Stat category", category)
}

func (s *Scraper) clickAndSettle(sel string, index int, kind, label string) error {
	if index < 0 {
		s.logger.Warn("Filter element not found", "kind", kind, "label", label)
		return &FilterNotFoundError{Kind: kind, Label: label}
	}

	if err := s.page.ArmSettle(); err != nil {
		return fmt.Errorf("arm settle watch: %w", err)
	}

	clicked, err := s.page.ClickNth(sel, index)
	if err != nil {
		return fmt.Errorf("click %s %q: %w", strings.ToLower(kind), label, err)
	}
	if !clicked {
		// The list changed between reading and clicking.
		return &FilterNotFoundError{Kind: kind, Label: label}
	}

	if err := s.page.Settle(); err != nil {
		return fmt.Errorf("settle after %s %q: %w", strings.ToLower(kind), label, err)
	}
	return nil
}

func withUserGesture(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithUserGesture(true)
}

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func attrListJS(sel, attr string) string {
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).map(el => el.getAttribute(%s) ?? "")`,
		jsString(sel), jsString(attr))
}

func textListJS(sel string) string {
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).map(el => (el.innerText ?? "").trim())`,
		jsString(sel))
}

func clickNthJS(sel string, index int) string {
	return fmt.Sprintf(`(() => {
		const el = document.querySelectorAll(%s)[%d];
		if (!el) return false;
		el.click();
		return true;
	})()`, jsString(sel), index)
}
