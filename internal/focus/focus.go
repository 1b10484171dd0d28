// Package focus ranks every known model relative to one designated focus
// model. Pairs with a stored outcome against the focus model get a direct
// win-ratio; other models get a ratio composed transitively along a bounded
// path of win-ratio edges through intermediate models.
package focus

import (
	"log/slog"
	"math"
	"sort"

	"github.com/rankllms/rankllms/internal/aggregate"
)

// Kind tags how a ranking entry's ratio was obtained.
type Kind string

const (
	KindDirect     Kind = "direct"
	KindFocus      Kind = "focus"
	KindTransitive Kind = "transitive"
)

// Entry is one row of the focus ranking table.
type Entry struct {
	Model string  `json:"model"`
	Ratio float64 `json:"ratio"`
	Kind  Kind    `json:"kind"`
}

// CategoryData is the per-category slice of a direct comparison against the
// focus model.
type CategoryData struct {
	FocusWins int `json:"focus_wins"`
	OtherWins int `json:"other_wins"`
	Ties      int `json:"ties"`
	Total     int `json:"total"`
}

// ComparisonData summarizes one direct comparison against the focus model.
type ComparisonData struct {
	FocusWins  int                     `json:"focus_wins"`
	OtherWins  int                     `json:"other_wins"`
	Ties       int                     `json:"ties"`
	Total      int                     `json:"total"`
	Categories map[string]CategoryData `json:"categories"`
}

// Ranking computes win-ratio rankings relative to a focus model.
type Ranking struct {
	focusModel string
	corpus     *aggregate.Corpus

	// graph[u][v] is the factor that converts u's ratio-to-focus into v's:
	// v's win rate over u's win rate in their pairing. An absent key means
	// no usable signal, never a ratio of 1.
	graph map[string]map[string]float64

	direct     map[string]float64
	transitive map[string]float64
}

// New creates a Ranking for the given focus model.
func New(focusModel string) *Ranking {
	return &Ranking{focusModel: focusModel}
}

// FocusModel returns the reference model.
func (r *Ranking) FocusModel() string { return r.focusModel }

// ComputeRankings builds the win-ratio graph from the corpus and returns the
// ratio of every reachable model to the focus model. Models compared directly
// against the focus always use the direct ratio; transitive composition, up
// to maxDepth hops of breadth-first search, covers the rest. When multiple
// shortest paths exist the first one found wins; intermediates are expanded
// in sorted name order, so the choice is stable for a given corpus.
// An unknown focus model yields an empty map: no ranking is possible.
func (r *Ranking) ComputeRankings(corpus *aggregate.Corpus, maxDepth int) map[string]float64 {
	r.corpus = corpus
	r.graph = map[string]map[string]float64{}
	r.direct = map[string]float64{}
	r.transitive = map[string]float64{}

	known := false
	for _, m := range corpus.Models() {
		if m == r.focusModel {
			known = true
			break
		}
	}
	if !known {
		slog.Warn("focus model absent from all comparisons", "focus", r.focusModel)
		return map[string]float64{}
	}

	r.buildGraph()
	r.computeDirectRatios()
	if maxDepth > 1 {
		r.computeTransitiveRatios(maxDepth)
	}

	ratios := map[string]float64{r.focusModel: 1.0}
	for model, ratio := range r.direct {
		ratios[model] = ratio
	}
	for model, ratio := range r.transitive {
		if _, hasDirect := r.direct[model]; !hasDirect {
			ratios[model] = ratio
		}
	}
	return ratios
}

// buildGraph adds a pair of edges for every outcome where the denominator
// side has a non-zero win rate.
func (r *Ranking) buildGraph() {
	for _, key := range r.corpus.Pairs() {
		outcome, _ := r.corpus.Outcome(key.Low, key.High)
		if outcome.OverallTotal() == 0 {
			continue
		}

		rateLow := outcome.WinRateFor(key.Low)
		rateHigh := outcome.WinRateFor(key.High)

		if rateLow > 0 {
			r.addEdge(key.Low, key.High, rateHigh/rateLow)
		}
		if rateHigh > 0 {
			r.addEdge(key.High, key.Low, rateLow/rateHigh)
		}
	}
}

func (r *Ranking) addEdge(from, to string, weight float64) {
	if r.graph[from] == nil {
		r.graph[from] = map[string]float64{}
	}
	r.graph[from][to] = weight
}

// computeDirectRatios fills ratios for every model with a stored outcome
// against the focus model. A focus win rate of exactly zero yields +Inf:
// the focus has never won against that model.
func (r *Ranking) computeDirectRatios() {
	for _, model := range r.corpus.Models() {
		if model == r.focusModel {
			continue
		}
		outcome, ok := r.corpus.Outcome(r.focusModel, model)
		if !ok || outcome.OverallTotal() == 0 {
			continue
		}

		focusRate := outcome.WinRateFor(r.focusModel)
		otherRate := outcome.WinRateFor(model)
		if focusRate == 0 {
			r.direct[model] = math.Inf(1)
			continue
		}
		r.direct[model] = otherRate / focusRate
	}
}

func (r *Ranking) computeTransitiveRatios(maxDepth int) {
	paths := r.shortestPaths(maxDepth)
	for model, path := range paths {
		if model == r.focusModel {
			continue
		}
		if _, hasDirect := r.direct[model]; hasDirect {
			continue
		}
		ratio := 1.0
		for i := 0; i < len(path)-1; i++ {
			ratio *= r.graph[path[i]][path[i+1]]
		}
		r.transitive[model] = ratio
	}
}

// shortestPaths runs a breadth-first search from the focus model, bounded to
// maxDepth hops, keeping the first path found to each model. Neighbors are
// expanded in sorted order so equal-depth ties always resolve the same way.
func (r *Ranking) shortestPaths(maxDepth int) map[string][]string {
	paths := map[string][]string{r.focusModel: {r.focusModel}}
	queue := []string{r.focusModel}
	visited := map[string]bool{r.focusModel: true}

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		levelSize := len(queue)
		for i := 0; i < levelSize; i++ {
			current := queue[0]
			queue = queue[1:]

			neighbors := make([]string, 0, len(r.graph[current]))
			for neighbor := range r.graph[current] {
				neighbors = append(neighbors, neighbor)
			}
			sort.Strings(neighbors)

			for _, neighbor := range neighbors {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				queue = append(queue, neighbor)
				path := make([]string, 0, len(paths[current])+1)
				path = append(path, paths[current]...)
				paths[neighbor] = append(path, neighbor)
			}
		}
	}
	return paths
}

// RankingTable tags each ratio with how it was derived and sorts descending,
// +Inf first. Equal ratios are ordered by model name.
func (r *Ranking) RankingTable(ratios map[string]float64) []Entry {
	entries := make([]Entry, 0, len(ratios))
	for model, ratio := range ratios {
		kind := KindTransitive
		switch {
		case model == r.focusModel:
			kind = KindFocus
		default:
			if _, ok := r.direct[model]; ok {
				kind = KindDirect
			}
		}
		entries = append(entries, Entry{Model: model, Ratio: ratio, Kind: kind})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Ratio != entries[j].Ratio {
			return entries[i].Ratio > entries[j].Ratio
		}
		return entries[i].Model < entries[j].Model
	})
	return entries
}

// RawComparisonData returns, for every model compared directly against the
// focus model, the overall and per-category counts from the focus model's
// perspective.
func (r *Ranking) RawComparisonData() map[string]ComparisonData {
	out := map[string]ComparisonData{}
	if r.corpus == nil {
		return out
	}

	for _, model := range r.corpus.Models() {
		if model == r.focusModel {
			continue
		}
		outcome, ok := r.corpus.Outcome(r.focusModel, model)
		if !ok {
			continue
		}

		data := ComparisonData{
			FocusWins:  outcome.WinsFor(r.focusModel),
			OtherWins:  outcome.WinsFor(model),
			Ties:       outcome.OverallTies(),
			Total:      outcome.OverallTotal(),
			Categories: map[string]CategoryData{},
		}

		for category, cat := range outcome.CategoryResults {
			focusWins, otherWins := cat.WinsA, cat.WinsB
			if outcome.ModelA != r.focusModel {
				focusWins, otherWins = otherWins, focusWins
			}
			data.Categories[category] = CategoryData{
				FocusWins: focusWins,
				OtherWins: otherWins,
				Ties:      cat.Ties,
				Total:     cat.Total(),
			}
		}
		out[model] = data
	}
	return out
}
