// Package bradleyterry fits per-model strength parameters to an observed win
// matrix using Zermelo's iterative maximum-likelihood procedure. Strengths are
// meaningful only up to a multiplicative constant and are normalized to sum
// to 1 after each fit.
package bradleyterry

import (
	"errors"
	"log/slog"
	"math"
	"sort"

	"github.com/rankllms/rankllms/internal/aggregate"
)

const (
	// DefaultMaxIterations caps the MLE sweep count. Hitting the cap is not
	// an error; the best estimate so far is returned.
	DefaultMaxIterations = 100
	// DefaultConvergenceThreshold is the maximum absolute per-model strength
	// change below which the fit is considered converged.
	DefaultConvergenceThreshold = 1e-6
)

// ErrNotFitted is returned when results are requested before Fit has run.
var ErrNotFitted = errors.New("bradley-terry model has not been fitted")

// Strength pairs a model with its fitted strength parameter.
type Strength struct {
	Model    string  `json:"model"`
	Strength float64 `json:"strength"`
}

// ProbMatrix is the pairwise win-probability matrix implied by fitted
// strengths, over the fit's model ordering. The diagonal is fixed at 0.5.
type ProbMatrix struct {
	Models []string
	P      [][]float64
}

// Model is a Bradley-Terry estimator. Zero-valued options fall back to the
// package defaults.
type Model struct {
	maxIterations        int
	convergenceThreshold float64

	models    []string
	strengths []float64
	fitted    bool
}

// Option configures a Model.
type Option func(*Model)

// WithMaxIterations overrides the iteration cap.
func WithMaxIterations(n int) Option {
	return func(m *Model) { m.maxIterations = n }
}

// WithConvergenceThreshold overrides the convergence threshold.
func WithConvergenceThreshold(t float64) Option {
	return func(m *Model) { m.convergenceThreshold = t }
}

// New creates an unfitted Model.
func New(opts ...Option) *Model {
	m := &Model{
		maxIterations:        DefaultMaxIterations,
		convergenceThreshold: DefaultConvergenceThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit estimates strengths for the win matrix and returns them keyed by model.
// Ties carry no likelihood information, so a model with no wins or losses
// keeps its initial strength: it neither rises nor falls.
func (m *Model) Fit(matrix *aggregate.PairMatrix) map[string]float64 {
	n := len(matrix.Models)
	m.models = matrix.Models

	strengths := make([]float64, n)
	for i := range strengths {
		strengths[i] = 1.0 / float64(n)
	}

	iterations := 0
	for ; iterations < m.maxIterations; iterations++ {
		next := make([]float64, n)

		for i := 0; i < n; i++ {
			// Only decisive comparisons carry likelihood information; a
			// model whose record is all ties keeps its initial strength.
			if matrix.TotalDecisiveMatches(i) == 0 {
				next[i] = strengths[i]
				continue
			}

			wins := float64(matrix.TotalWins(i))
			denominator := 0.0
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				decisive := matrix.DecisiveMatches(i, j)
				if decisive == 0 {
					continue
				}
				denominator += float64(decisive) * strengths[j] / (strengths[i] + strengths[j])
			}

			if denominator > 0 {
				next[i] = wins / denominator
			} else {
				next[i] = strengths[i]
			}
		}

		normalize(next)

		if maxAbsDiff(next, strengths) < m.convergenceThreshold {
			strengths = next
			break
		}
		strengths = next
	}

	m.strengths = strengths
	m.fitted = true

	slog.Debug("fitted bradley-terry model", "models", n, "iterations", iterations+1)

	out := make(map[string]float64, n)
	for i, model := range m.models {
		out[model] = strengths[i]
	}
	return out
}

// ProbabilityMatrix returns P(i beats j) = s_i / (s_i + s_j) for the fitted
// strengths. Calling it before Fit is a usage error.
func (m *Model) ProbabilityMatrix() (*ProbMatrix, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	n := len(m.models)
	p := make([][]float64, n)
	for i := range p {
		p[i] = make([]float64, n)
		for j := range p[i] {
			if i == j {
				p[i][j] = 0.5
				continue
			}
			si, sj := m.strengths[i], m.strengths[j]
			if si+sj == 0 {
				p[i][j] = 0.5
				continue
			}
			p[i][j] = si / (si + sj)
		}
	}
	return &ProbMatrix{Models: m.models, P: p}, nil
}

// Rankings returns the fitted strengths sorted descending. The sort is
// stable, so equal strengths keep the fit's model order.
func (m *Model) Rankings() ([]Strength, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	out := make([]Strength, len(m.models))
	for i, model := range m.models {
		out[i] = Strength{Model: model, Strength: m.strengths[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Strength > out[j].Strength
	})
	return out, nil
}

func normalize(values []float64) {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range values {
		values[i] /= sum
	}
}

func maxAbsDiff(a, b []float64) float64 {
	maxDiff := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}
