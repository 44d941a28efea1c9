package scraper

import (
	"fmt"
	"strings"

	"iplstats/internal/config"
	"iplstats/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// Cell positions within a leaderboard row.
const (
	colPosition  = 0
	colPlayer    = 1
	colRuns      = 5
	colCenturies = 10
	colFifties   = 11
	colFours     = 12
	colSixes     = 13
)

// ExtractTopRows waits for the leaderboard and returns its first rows. Only
// the matched rows are copied out of the tab, so the result reflects the live
// DOM rather than a reparse of the whole page.
func (s *Scraper) ExtractTopRows() ([]model.PlayerStatRecord, error) {
	if err := s.page.WaitPresent(s.sel.TableRows); err != nil {
		return nil, fmt.Errorf("stats table: %w", err)
	}
	s.logger.Info("Stats table rows found")

	rows, err := s.page.RowsHTML(s.sel.TableRows, s.rowLimit)
	if err != nil {
		return nil, fmt.Errorf("snapshot table rows: %w", err)
	}
	return ParseRows(rows, s.sel, s.rowLimit)
}

// ParseRows reads at most limit rows from their outer HTML, in order. Missing
// cells or player markup leave the matching field nil; they never fail the
// row.
func ParseRows(rows []string, sel config.Selectors, limit int) ([]model.PlayerStatRecord, error) {
	// A bare <tr> outside a table is dropped by the HTML parser.
	fragment := "<table><tbody>" + strings.Join(rows, "") + "</tbody></table>"
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse table rows: %w", err)
	}

	records := []model.PlayerStatRecord{}
	doc.Find(rowFragmentSelector).EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		cells := row.Find(sel.RowCells)
		records = append(records, model.PlayerStatRecord{
			Position:  cellText(cells, colPosition),
			Player:    playerName(cells, sel.PlayerName),
			Runs:      cellText(cells, colRuns),
			Fours:     cellText(cells, colFours),
			Sixes:     cellText(cells, colSixes),
			Centuries: cellText(cells, colCenturies),
			Fifties:   cellText(cells, colFifties),
		})
		return true
	})
	return records, nil
}

const rowFragmentSelector = "body > table > tbody > tr"

func cellText(cells *goquery.Selection, i int) *string {
	if i >= cells.Length() {
		return nil
	}
	return model.Text(strings.TrimSpace(cells.Eq(i).Text()))
}

func playerName(cells *goquery.Selection, sel string) *string {
	if colPlayer >= cells.Length() {
		return nil
	}
	name := cells.Eq(colPlayer).Find(sel).First()
	if name.Length() == 0 {
		return nil
	}
	return model.Text(strings.TrimSpace(name.Text()))
}
