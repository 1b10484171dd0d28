// Package direct ranks a fixed subset of models using only their observed
// head-to-head results. It never infers anything beyond the data: the subset
// must be fully connected by stored outcomes before a ranking exists.
package direct

import (
	"errors"
	"log/slog"
	"math"
	"sort"

	"github.com/rankllms/rankllms/internal/aggregate"
	"github.com/rankllms/rankllms/internal/models"
)

// ErrNotComputed is returned when results are requested before a successful
// ComputeRankings call.
var ErrNotComputed = errors.New("direct comparison rankings have not been computed")

// ModelScore pairs a model with its mean win probability against the rest of
// the subset.
type ModelScore struct {
	Model string  `json:"model"`
	Score float64 `json:"score"`
}

// ComparisonRequest names one missing comparison a caller should run.
type ComparisonRequest struct {
	ModelA    string `json:"model_a"`
	ModelB    string `json:"model_b"`
	Promptset string `json:"promptset"`
}

// Ranking computes empirical win-probability rankings over one model subset.
type Ranking struct {
	modelList []string
	matrix    *aggregate.PairMatrix
	probs     [][]float64
	missing   []models.PairKey
	complete  bool
}

// New creates an empty Ranking.
func New() *Ranking {
	return &Ranking{}
}

// ComputeRankings loads the outcome for every pair within the subset. It
// returns false when any pair has no stored outcome; the gaps are then
// available from MissingComparisons and no probabilities are computed. Only a
// fully covered subset yields a ranking.
func (r *Ranking) ComputeRankings(subset []string, src aggregate.OutcomeSource) (bool, error) {
	r.modelList = subset
	r.matrix = aggregate.NewPairMatrix(subset)
	r.probs = nil
	r.missing = nil
	r.complete = false

	for i, modelA := range subset {
		for j := i + 1; j < len(subset); j++ {
			modelB := subset[j]
			outcome, err := src.Load(modelA, modelB)
			if err != nil {
				return false, err
			}
			if outcome == nil {
				r.missing = append(r.missing, models.NewPairKey(modelA, modelB))
				continue
			}

			r.matrix.Wins[i][j] = outcome.WinsFor(modelA)
			r.matrix.Wins[j][i] = outcome.WinsFor(modelB)
			total := outcome.OverallTotal()
			r.matrix.Matches[i][j] = total
			r.matrix.Matches[j][i] = total
		}
	}

	if len(r.missing) > 0 {
		slog.Info("direct comparison incomplete",
			"models", len(subset), "missing_pairs", len(r.missing))
		return false, nil
	}

	r.computeProbabilities()
	r.complete = true
	return true, nil
}

// computeProbabilities fills the win-probability matrix. Entries for pairs
// with zero matches are NaN; completeness checking happens before this runs,
// so NaN only appears for a stored outcome with no judged comparisons.
func (r *Ranking) computeProbabilities() {
	n := len(r.modelList)
	r.probs = make([][]float64, n)
	for i := range r.probs {
		r.probs[i] = make([]float64, n)
		for j := range r.probs[i] {
			if i == j {
				r.probs[i][j] = 0.5
				continue
			}
			total := r.matrix.Matches[i][j]
			if total == 0 {
				r.probs[i][j] = math.NaN()
				continue
			}
			winsI := r.matrix.Wins[i][j]
			ties := total - winsI - r.matrix.Wins[j][i]
			r.probs[i][j] = (float64(winsI) + 0.5*float64(ties)) / float64(total)
		}
	}
}

// Rankings returns each model's mean win probability against the rest of the
// subset, sorted descending. It is a round-robin average of observed data,
// not a model-based estimate.
func (r *Ranking) Rankings() ([]ModelScore, error) {
	if !r.complete {
		return nil, ErrNotComputed
	}

	out := make([]ModelScore, 0, len(r.modelList))
	for i, model := range r.modelList {
		sum, count := 0.0, 0
		for j := range r.modelList {
			if i == j || math.IsNaN(r.probs[i][j]) {
				continue
			}
			sum += r.probs[i][j]
			count++
		}
		score := 0.0
		if count > 0 {
			score = sum / float64(count)
		}
		out = append(out, ModelScore{Model: model, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

// Models returns the subset the ranking was computed over.
func (r *Ranking) Models() []string { return r.modelList }

// Matrix returns the win/match matrices loaded for the subset.
func (r *Ranking) Matrix() *aggregate.PairMatrix { return r.matrix }

// WinProbability returns P(modelA beats modelB) from the observed data.
// The second return is false before a complete computation or for unknown
// models, or when the pair's probability is undefined.
func (r *Ranking) WinProbability(modelA, modelB string) (float64, bool) {
	if !r.complete || r.matrix == nil {
		return 0, false
	}
	i, okA := r.matrix.Index(modelA)
	j, okB := r.matrix.Index(modelB)
	if !okA || !okB || math.IsNaN(r.probs[i][j]) {
		return 0, false
	}
	return r.probs[i][j], true
}

// MissingComparisons returns the unordered pairs in the subset with no stored
// outcome, in subset iteration order.
func (r *Ranking) MissingComparisons() []models.PairKey {
	return r.missing
}

// MissingComparisonRequests returns the missing pairs as structured requests
// for the comparison runner. Rendering them as commands is the caller's job.
func (r *Ranking) MissingComparisonRequests(promptset string) []ComparisonRequest {
	out := make([]ComparisonRequest, 0, len(r.missing))
	for _, key := range r.missing {
		out = append(out, ComparisonRequest{
			ModelA:    key.Low,
			ModelB:    key.High,
			Promptset: promptset,
		})
	}
	return out
}
