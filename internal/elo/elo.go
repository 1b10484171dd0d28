// Package elo maintains incrementally updated skill ratings for models from
// pairwise comparison results, using the logistic ELO update rule.
package elo

import (
	"log/slog"
	"math"
	"sort"

	"github.com/rankllms/rankllms/internal/models"
)

const (
	// DefaultKFactor controls how quickly ratings move after each match.
	DefaultKFactor = 32
	// DefaultStartingElo is the rating assigned to models never yet rated.
	DefaultStartingElo = 1400.0
)

// ModelRating pairs a model identifier with its current rating.
type ModelRating struct {
	Model  string  `json:"model"`
	Rating float64 `json:"rating"`
}

// RatingStore holds the mutable rating state for one promptset. It is an
// explicit value owned by the caller: load it, apply match registrations, and
// save it once per logical update. Concurrent writers must be serialized by
// the caller.
type RatingStore struct {
	kFactor     int
	startingElo float64
	promptset   string
	ratings     map[models.RatingKey]float64
	history     []models.MatchRecord
}

// Option configures a new RatingStore.
type Option func(*RatingStore)

// WithKFactor overrides the default K-factor.
func WithKFactor(k int) Option {
	return func(s *RatingStore) { s.kFactor = k }
}

// WithStartingElo overrides the default starting rating.
func WithStartingElo(v float64) Option {
	return func(s *RatingStore) { s.startingElo = v }
}

// New creates an empty RatingStore for the given promptset.
func New(promptset string, opts ...Option) *RatingStore {
	s := &RatingStore{
		kFactor:     DefaultKFactor,
		startingElo: DefaultStartingElo,
		promptset:   promptset,
		ratings:     map[models.RatingKey]float64{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KFactor returns the configured K-factor.
func (s *RatingStore) KFactor() int { return s.kFactor }

// StartingElo returns the rating used for unrated models.
func (s *RatingStore) StartingElo() float64 { return s.startingElo }

// Promptset returns the promptset label the store belongs to.
func (s *RatingStore) Promptset() string { return s.promptset }

// History returns the append-only match log.
func (s *RatingStore) History() []models.MatchRecord { return s.history }

// Rating returns the current overall rating for a model, or the starting
// rating if the model has never been rated. It never fails.
func (s *RatingStore) Rating(model string) float64 {
	return s.RatingFor(models.OverallKey(model))
}

// RatingFor returns the current rating for a rating key, falling back to the
// starting rating for unknown keys.
func (s *RatingStore) RatingFor(key models.RatingKey) float64 {
	if r, ok := s.ratings[key]; ok {
		return r
	}
	return s.startingElo
}

// ExpectedScore returns the probability of modelA beating modelB implied by
// their current overall ratings. ExpectedScore(a, b) + ExpectedScore(b, a)
// is always 1.
func (s *RatingStore) ExpectedScore(modelA, modelB string) float64 {
	return s.expectedFor(models.OverallKey(modelA), models.OverallKey(modelB))
}

func (s *RatingStore) expectedFor(a, b models.RatingKey) float64 {
	ratingA := s.RatingFor(a)
	ratingB := s.RatingFor(b)
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

// UpdateRatings applies one ELO update for a match between the two keys with
// the given aggregate score for a (1 win, 0.5 draw, 0 loss). The update is
// zero-sum: a's delta is exactly the negation of b's. Both new ratings are
// returned and one MatchRecord is appended.
func (s *RatingStore) UpdateRatings(a, b models.RatingKey, scoreA float64) (float64, float64) {
	ratingA := s.RatingFor(a)
	ratingB := s.RatingFor(b)

	expectedA := s.expectedFor(a, b)
	delta := float64(s.kFactor) * (scoreA - expectedA)

	newA := ratingA + delta
	newB := ratingB - delta

	s.ratings[a] = newA
	s.ratings[b] = newB

	s.history = append(s.history, models.MatchRecord{
		ModelA:     a.Model,
		ModelB:     b.Model,
		OldRatingA: ratingA,
		OldRatingB: ratingB,
		NewRatingA: newA,
		NewRatingB: newB,
		ScoreA:     scoreA,
		Category:   a.Category,
	})

	return newA, newB
}

// RegisterMatchResult registers the aggregate result of a batch of comparisons
// between two models as a single ELO match. An empty category updates the
// overall ratings; otherwise the per-category ratings are updated, which never
// affects the overall ones. A zero total is a logged no-op, never an error.
func (s *RatingStore) RegisterMatchResult(modelA, modelB string, winsA, winsB, draws int, category string) {
	total := winsA + winsB + draws
	if total == 0 {
		slog.Warn("skipping match registration with zero comparisons",
			"model_a", modelA, "model_b", modelB, "category", category)
		return
	}

	scoreA := (float64(winsA) + 0.5*float64(draws)) / float64(total)

	keyA := models.RatingKey{Model: modelA, Category: category}
	keyB := models.RatingKey{Model: modelB, Category: category}
	s.UpdateRatings(keyA, keyB, scoreA)

	slog.Info("registered match result",
		"model_a", modelA, "model_b", modelB,
		"wins_a", winsA, "wins_b", winsB, "draws", draws,
		"category", category, "score_a", scoreA)
}

// Rankings returns all overall-rated models sorted by rating, highest first.
// Per-category ratings are excluded.
func (s *RatingStore) Rankings() []ModelRating {
	return s.rankingsWhere(func(k models.RatingKey) bool { return k.IsOverall() })
}

// CategoryRankings returns the rated models for one category sorted by
// rating, highest first.
func (s *RatingStore) CategoryRankings(category string) []ModelRating {
	return s.rankingsWhere(func(k models.RatingKey) bool { return k.Category == category })
}

func (s *RatingStore) rankingsWhere(match func(models.RatingKey) bool) []ModelRating {
	var out []ModelRating
	for key, rating := range s.ratings {
		if match(key) {
			out = append(out, ModelRating{Model: key.Model, Rating: rating})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// Categories returns the distinct categories with at least one rating, sorted.
func (s *RatingStore) Categories() []string {
	seen := map[string]bool{}
	for key := range s.ratings {
		if !key.IsOverall() {
			seen[key.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// AllModels returns every distinct model identifier in the store, sorted.
// Models rated only within a category are included.
func (s *RatingStore) AllModels() []string {
	seen := map[string]bool{}
	for key := range s.ratings {
		seen[key.Model] = true
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
