// Package model defines the records produced by a scrape run.
package model

// PlayerStatRecord is one row of a leaderboard table. Every field is the
// trimmed cell text as rendered; nil means the cell or its markup was absent.
type PlayerStatRecord struct {
	Position  *string `json:"position,omitempty"`
	Player    *string `json:"player,omitempty"`
	Runs      *string `json:"runs,omitempty"`
	Fours     *string `json:"fours,omitempty"`
	Sixes     *string `json:"sixes,omitempty"`
	Centuries *string `json:"centuries,omitempty"`
	Fifties   *string `json:"fifties,omitempty"`
}

// SeasonCategoryResult is the leaderboard for one (season, category) pair.
type SeasonCategoryResult struct {
	Season       string             `json:"season"`
	StatCategory string             `json:"statCategory"`
	Stats        []PlayerStatRecord `json:"stats"`
}

// ResultSet accumulates results in season-major, category-minor order.
type ResultSet []SeasonCategoryResult

// Normalized returns a copy in which neither the set nor any leaderboard is
// nil, so that both serialise as [] when empty.
func (rs ResultSet) Normalized() ResultSet {
	out := make(ResultSet, 0, len(rs))
	for _, r := range rs {
		if r.Stats == nil {
			r.Stats = []PlayerStatRecord{}
		}
		out = append(out, r)
	}
	return out
}

// Text returns a pointer to s, for building records by hand.
func Text(s string) *string {
	return &s
}
