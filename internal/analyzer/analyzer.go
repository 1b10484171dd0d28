// Package analyzer inspects the comparison corpus for a promptset and
// suggests which comparisons to run next, in priority order: pairs never
// compared, pairs with too little data, pairs with close ELO ratings, and
// per-category gaps.
package analyzer

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/rankllms/rankllms/internal/aggregate"
	"github.com/rankllms/rankllms/internal/elo"
	"github.com/rankllms/rankllms/internal/models"
	"github.com/rankllms/rankllms/internal/statistics"
)

// Suggestion priorities, highest first.
const (
	PriorityMissing       = 1
	PriorityLowConfidence = 2
	PriorityCloseRatings  = 3
	PriorityCategoryGap   = 4
)

// Low-confidence suggestions are annotated with a bootstrap win-rate
// interval. Seeded so repeated runs over the same archive agree.
const (
	bootstrapConfidence = 0.95
	bootstrapSeed       = 1
)

// Options are the thresholds for suggestion generation.
type Options struct {
	MinComparisons int     `mapstructure:"min_comparisons"`
	MinPerCategory int     `mapstructure:"min_per_category"`
	MaxRatingDiff  float64 `mapstructure:"max_rating_diff"`
	MaxSuggestions int     `mapstructure:"max_suggestions"`
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MinComparisons: 5,
		MinPerCategory: 2,
		MaxRatingDiff:  50,
		MaxSuggestions: 10,
	}
}

// Suggestion is one recommended comparison.
type Suggestion struct {
	ModelA    string `json:"model_a"`
	ModelB    string `json:"model_b"`
	Reason    string `json:"reason"`
	Priority  int    `json:"priority"`
	Category  string `json:"category,omitempty"`
	Promptset string `json:"promptset"`
}

// PairCount pairs an unordered model pair with a comparison count.
type PairCount struct {
	Key   models.PairKey `json:"pair"`
	Count int            `json:"count"`
}

// PairRatingDiff pairs an unordered model pair with its ELO rating gap.
type PairRatingDiff struct {
	Key  models.PairKey `json:"pair"`
	Diff float64        `json:"diff"`
}

// CategoryGap groups under-compared pairs for one category.
type CategoryGap struct {
	Category string      `json:"category"`
	Pairs    []PairCount `json:"pairs"`
}

// ModelCount pairs a model with its total comparison count.
type ModelCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// Summary describes corpus coverage per model.
type Summary struct {
	TotalModels          int                           `json:"total_models"`
	TotalComparisons     int                           `json:"total_comparisons"`
	ModelCounts          []ModelCount                  `json:"model_counts"`
	CategoryDistribution map[string]map[string]float64 `json:"category_distribution"`
	Ratings              map[string]float64            `json:"ratings,omitempty"`
}

// Analyzer examines one promptset's corpus.
type Analyzer struct {
	promptset  string
	corpus     *aggregate.Corpus
	categories []string
	ratings    *elo.RatingStore
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRatings supplies an ELO store for the close-ratings criterion. Without
// it that criterion is skipped entirely.
func WithRatings(store *elo.RatingStore) Option {
	return func(a *Analyzer) { a.ratings = store }
}

// WithCategories fixes the category list checked for gaps. The default is
// every category observed in the corpus.
func WithCategories(categories []string) Option {
	return func(a *Analyzer) { a.categories = categories }
}

// New creates an Analyzer over the loaded corpus.
func New(promptset string, corpus *aggregate.Corpus, opts ...Option) *Analyzer {
	a := &Analyzer{promptset: promptset, corpus: corpus}
	for _, opt := range opts {
		opt(a)
	}
	if a.categories == nil {
		a.categories = corpus.Categories()
	}
	return a
}

// allPairs returns every unordered pair of known models, sorted.
func (a *Analyzer) allPairs() []models.PairKey {
	modelList := a.corpus.Models()
	var out []models.PairKey
	for i := range modelList {
		for j := i + 1; j < len(modelList); j++ {
			out = append(out, models.NewPairKey(modelList[i], modelList[j]))
		}
	}
	return out
}

// MissingComparisons returns all pairs of known models with zero recorded
// outcomes.
func (a *Analyzer) MissingComparisons() []models.PairKey {
	var out []models.PairKey
	for _, key := range a.allPairs() {
		if a.corpus.PairCount(key) == 0 {
			out = append(out, key)
		}
	}
	return out
}

// LowConfidencePairs returns pairs with some but fewer than minComparisons
// recorded comparisons, fewest first.
func (a *Analyzer) LowConfidencePairs(minComparisons int) []PairCount {
	var out []PairCount
	for _, key := range a.corpus.Pairs() {
		count := a.corpus.PairCount(key)
		if count > 0 && count < minComparisons {
			out = append(out, PairCount{Key: key, Count: count})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count < out[j].Count })
	return out
}

// CloseRatingPairs returns pairs whose current ELO ratings differ by at most
// maxDiff, smallest difference first. Without a rating store the criterion
// is skipped and nil is returned.
func (a *Analyzer) CloseRatingPairs(maxDiff float64) []PairRatingDiff {
	if a.ratings == nil {
		slog.Warn("no ELO ratings available, skipping close-rating analysis", "promptset", a.promptset)
		return nil
	}

	var out []PairRatingDiff
	for _, key := range a.allPairs() {
		diff := math.Abs(a.ratings.Rating(key.Low) - a.ratings.Rating(key.High))
		if diff <= maxDiff {
			out = append(out, PairRatingDiff{Key: key, Diff: diff})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Diff < out[j].Diff })
	return out
}

// CategoryGaps returns, per category, the compared pairs with fewer than
// minPerCategory comparisons in that category, fewest first. A pair with
// plenty of overall data can still gap in a single category.
func (a *Analyzer) CategoryGaps(minPerCategory int) []CategoryGap {
	var out []CategoryGap
	for _, category := range a.categories {
		var pairs []PairCount
		for _, key := range a.corpus.Pairs() {
			count := a.corpus.CategoryCount(category, key)
			if count < minPerCategory {
				pairs = append(pairs, PairCount{Key: key, Count: count})
			}
		}
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Count < pairs[j].Count })
		out = append(out, CategoryGap{Category: category, Pairs: pairs})
	}
	return out
}

// GenerateSuggestions merges the four criteria into one prioritized list,
// deduplicated on unordered pair: a pair already suggested at a higher
// priority never repeats at a lower one. Output is capped at MaxSuggestions.
func (a *Analyzer) GenerateSuggestions(opts Options) []Suggestion {
	var out []Suggestion
	suggested := map[models.PairKey]bool{}

	add := func(key models.PairKey, reason string, priority int, category string) {
		if suggested[key] || len(out) >= opts.MaxSuggestions {
			return
		}
		suggested[key] = true
		out = append(out, Suggestion{
			ModelA:    key.Low,
			ModelB:    key.High,
			Reason:    reason,
			Priority:  priority,
			Category:  category,
			Promptset: a.promptset,
		})
	}

	for _, key := range a.MissingComparisons() {
		add(key, "these models have never been compared", PriorityMissing, "")
	}

	for _, pc := range a.LowConfidencePairs(opts.MinComparisons) {
		reason := fmt.Sprintf("only %d comparisons (recommended: %d)", pc.Count, opts.MinComparisons)
		if ci, ok := a.WinRateInterval(pc.Key, bootstrapConfidence, bootstrapSeed); ok && !statistics.Decisive(ci) {
			reason += fmt.Sprintf(", %.0f%% win-rate interval [%.2f, %.2f] still spans even odds",
				ci.ConfidenceLevel*100, ci.Lower, ci.Upper)
		}
		add(pc.Key, reason, PriorityLowConfidence, "")
	}

	for _, pd := range a.CloseRatingPairs(opts.MaxRatingDiff) {
		add(pd.Key,
			fmt.Sprintf("close ELO ratings (diff: %.1f)", pd.Diff),
			PriorityCloseRatings, "")
	}

	for _, gap := range a.CategoryGaps(opts.MinPerCategory) {
		for _, pc := range gap.Pairs {
			add(pc.Key,
				fmt.Sprintf("only %d comparisons in %q category", pc.Count, gap.Category),
				PriorityCategoryGap, gap.Category)
		}
	}

	return out
}

// WinRateInterval bootstraps a confidence interval for key.Low's win rate
// against key.High from the stored record. The second return is false when
// the pair has no stored comparisons.
func (a *Analyzer) WinRateInterval(key models.PairKey, confidenceLevel float64, seed int64) (statistics.ConfidenceInterval, bool) {
	outcome, ok := a.corpus.Outcome(key.Low, key.High)
	if !ok || outcome.OverallTotal() == 0 {
		return statistics.ConfidenceInterval{}, false
	}

	samples := statistics.WinRateSamples(
		outcome.WinsFor(key.Low), outcome.WinsFor(key.High), outcome.OverallTies())
	return statistics.BootstrapCIWithSeed(samples, confidenceLevel, seed), true
}

// ModelSummary reports per-model coverage across the corpus.
func (a *Analyzer) ModelSummary() Summary {
	counts := map[string]int{}
	categoryTotals := map[string]map[string]int{}

	for _, key := range a.corpus.Pairs() {
		count := a.corpus.PairCount(key)
		counts[key.Low] += count
		counts[key.High] += count

		for _, category := range a.corpus.Categories() {
			catCount := a.corpus.CategoryCount(category, key)
			if catCount == 0 {
				continue
			}
			for _, model := range []string{key.Low, key.High} {
				if categoryTotals[model] == nil {
					categoryTotals[model] = map[string]int{}
				}
				categoryTotals[model][category] += catCount
			}
		}
	}

	summary := Summary{
		TotalModels:          len(a.corpus.Models()),
		TotalComparisons:     a.corpus.TotalComparisons(),
		CategoryDistribution: map[string]map[string]float64{},
	}

	for model, count := range counts {
		summary.ModelCounts = append(summary.ModelCounts, ModelCount{Model: model, Count: count})
	}
	sort.SliceStable(summary.ModelCounts, func(i, j int) bool {
		if summary.ModelCounts[i].Count != summary.ModelCounts[j].Count {
			return summary.ModelCounts[i].Count > summary.ModelCounts[j].Count
		}
		return summary.ModelCounts[i].Model < summary.ModelCounts[j].Model
	})

	for model, cats := range categoryTotals {
		total := 0
		for _, n := range cats {
			total += n
		}
		if total == 0 {
			continue
		}
		dist := map[string]float64{}
		for cat, n := range cats {
			dist[cat] = float64(n) / float64(total) * 100
		}
		summary.CategoryDistribution[model] = dist
	}

	if a.ratings != nil {
		summary.Ratings = map[string]float64{}
		for _, model := range a.corpus.Models() {
			summary.Ratings[model] = a.ratings.Rating(model)
		}
	}

	return summary
}
