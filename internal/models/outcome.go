package models

import "time"

// CategoryOutcome holds the win/loss/tie counts for one category of a pairwise
// comparison run.
type CategoryOutcome struct {
	Category string `json:"category"`
	ModelA   string `json:"model_a"`
	ModelB   string `json:"model_b"`
	WinsA    int    `json:"wins_a"`
	WinsB    int    `json:"wins_b"`
	Ties     int    `json:"ties"`
}

// Total returns the number of judged comparisons in this category.
func (c CategoryOutcome) Total() int {
	return c.WinsA + c.WinsB + c.Ties
}

// PairOutcome is the persisted result of one complete comparison run between
// two models over a promptset. It is immutable: a re-run between the same pair
// replaces the record, it is never merged.
type PairOutcome struct {
	ModelA          string                     `json:"model_a"`
	ModelB          string                     `json:"model_b"`
	Promptset       string                     `json:"promptset"`
	CategoryResults map[string]CategoryOutcome `json:"category_results"`
	Timestamp       time.Time                  `json:"timestamp"`
}

// Key returns the canonical unordered pair key for the outcome.
func (p *PairOutcome) Key() PairKey {
	return NewPairKey(p.ModelA, p.ModelB)
}

// OverallWinsA returns model A's wins summed across all categories.
func (p *PairOutcome) OverallWinsA() int {
	n := 0
	for _, c := range p.CategoryResults {
		n += c.WinsA
	}
	return n
}

// OverallWinsB returns model B's wins summed across all categories.
func (p *PairOutcome) OverallWinsB() int {
	n := 0
	for _, c := range p.CategoryResults {
		n += c.WinsB
	}
	return n
}

// OverallTies returns the tie count summed across all categories.
func (p *PairOutcome) OverallTies() int {
	n := 0
	for _, c := range p.CategoryResults {
		n += c.Ties
	}
	return n
}

// OverallTotal returns the total number of judged comparisons in the run.
func (p *PairOutcome) OverallTotal() int {
	return p.OverallWinsA() + p.OverallWinsB() + p.OverallTies()
}

// WinsFor returns the overall wins for the given member of the pair.
// Returns 0 for a model that is not part of the outcome.
func (p *PairOutcome) WinsFor(model string) int {
	switch model {
	case p.ModelA:
		return p.OverallWinsA()
	case p.ModelB:
		return p.OverallWinsB()
	}
	return 0
}

// WinRateFor returns the overall win rate for the given member, counting ties
// as half a win to each side. Returns 0 when the outcome has no comparisons.
func (p *PairOutcome) WinRateFor(model string) float64 {
	total := p.OverallTotal()
	if total == 0 {
		return 0
	}
	wins := float64(p.WinsFor(model)) + 0.5*float64(p.OverallTies())
	return wins / float64(total)
}

// MatchRecord is one append-only audit entry for an ELO update: ratings of both
// participants before and after, the aggregate score used, and the category
// (empty for an overall match). Records are history only; current ratings are
// never re-derived from them.
type MatchRecord struct {
	ModelA     string  `json:"model_a"`
	ModelB     string  `json:"model_b"`
	OldRatingA float64 `json:"old_rating_a"`
	OldRatingB float64 `json:"old_rating_b"`
	NewRatingA float64 `json:"new_rating_a"`
	NewRatingB float64 `json:"new_rating_b"`
	ScoreA     float64 `json:"score_a"`
	Category   string  `json:"category,omitempty"`
}
