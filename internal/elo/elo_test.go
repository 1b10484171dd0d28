package elo

import (
	"math"
	"testing"

	"github.com/rankllms/rankllms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRating_DefaultForUnknownModel(t *testing.T) {
	s := New("basic1")
	assert.Equal(t, DefaultStartingElo, s.Rating("never-seen:model"))
}

func TestExpectedScore_EqualRatings(t *testing.T) {
	s := New("basic1")
	assert.InDelta(t, 0.5, s.ExpectedScore("a", "b"), 1e-9)
}

func TestExpectedScore_Symmetry(t *testing.T) {
	s := New("basic1")
	s.RegisterMatchResult("a", "b", 9, 1, 0, "")
	s.RegisterMatchResult("b", "c", 3, 7, 2, "")

	pairs := [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}, {"a", "unrated"}}
	for _, p := range pairs {
		sum := s.ExpectedScore(p[0], p[1]) + s.ExpectedScore(p[1], p[0])
		assert.InDelta(t, 1.0, sum, 1e-12, "pair %v", p)
	}
}

func TestExpectedScore_400PointAdvantage(t *testing.T) {
	s := New("basic1")
	s.UpdateRatings(models.OverallKey("strong"), models.OverallKey("weak"), 1.0)
	// Force a 400 point gap directly.
	s.ratings[models.OverallKey("strong")] = 1800
	s.ratings[models.OverallKey("weak")] = 1400

	// A 400 point gap implies 10:1 odds.
	assert.InDelta(t, 10.0/11.0, s.ExpectedScore("strong", "weak"), 1e-9)
}

func TestRegisterMatchResult_KnownScenario(t *testing.T) {
	// Both start at 1400, K=32, A wins 10-0-0: expected 0.5, score 1.0,
	// so A moves to 1416 and B to 1384.
	s := New("basic1")
	s.RegisterMatchResult("a", "b", 10, 0, 0, "")

	assert.InDelta(t, 1416.0, s.Rating("a"), 1e-9)
	assert.InDelta(t, 1384.0, s.Rating("b"), 1e-9)
}

func TestUpdateRatings_ZeroSum(t *testing.T) {
	s := New("basic1")

	scores := []float64{1.0, 0.0, 0.5, 0.73}
	for _, score := range scores {
		oldA := s.Rating("a")
		oldB := s.Rating("b")
		newA, newB := s.UpdateRatings(models.OverallKey("a"), models.OverallKey("b"), score)
		assert.InDelta(t, newA-oldA, -(newB-oldB), 1e-12, "score %v", score)
	}
}

func TestRegisterMatchResult_ZeroTotalIsNoOp(t *testing.T) {
	s := New("basic1")
	s.RegisterMatchResult("a", "b", 0, 0, 0, "")

	assert.Empty(t, s.History())
	assert.Empty(t, s.AllModels())
}

func TestRegisterMatchResult_DrawsCountHalf(t *testing.T) {
	s := New("basic1")
	s.RegisterMatchResult("a", "b", 0, 0, 4, "")

	// All draws: score 0.5 against expected 0.5, ratings unchanged.
	assert.InDelta(t, DefaultStartingElo, s.Rating("a"), 1e-9)
	assert.InDelta(t, DefaultStartingElo, s.Rating("b"), 1e-9)
	assert.Len(t, s.History(), 1)
}

func TestRegisterMatchResult_CategoryIsolatedFromOverall(t *testing.T) {
	s := New("basic1")
	s.RegisterMatchResult("a", "b", 5, 0, 0, "Programming")

	// Category matches never move the overall rating.
	assert.Equal(t, DefaultStartingElo, s.Rating("a"))
	assert.NotEqual(t, DefaultStartingElo, s.RatingFor(models.CategoryKey("a", "Programming")))

	// And the overall leaderboard stays empty.
	assert.Empty(t, s.Rankings())
	assert.Len(t, s.CategoryRankings("Programming"), 2)
}

func TestRankings_SortedDescending(t *testing.T) {
	s := New("basic1")
	s.RegisterMatchResult("a", "b", 8, 2, 0, "")
	s.RegisterMatchResult("b", "c", 7, 3, 0, "")

	rankings := s.Rankings()
	require.Len(t, rankings, 3)
	for i := 1; i < len(rankings); i++ {
		assert.GreaterOrEqual(t, rankings[i-1].Rating, rankings[i].Rating)
	}
	assert.Equal(t, "a", rankings[0].Model)
}

func TestMatchHistory_RecordsBeforeAndAfter(t *testing.T) {
	s := New("basic1")
	s.RegisterMatchResult("a", "b", 10, 0, 0, "")

	require.Len(t, s.History(), 1)
	rec := s.History()[0]
	assert.Equal(t, "a", rec.ModelA)
	assert.Equal(t, "b", rec.ModelB)
	assert.Equal(t, 1400.0, rec.OldRatingA)
	assert.Equal(t, 1400.0, rec.OldRatingB)
	assert.InDelta(t, 1416.0, rec.NewRatingA, 1e-9)
	assert.InDelta(t, 1384.0, rec.NewRatingB, 1e-9)
	assert.Equal(t, 1.0, rec.ScoreA)
	assert.Empty(t, rec.Category)
}

func TestWithOptions(t *testing.T) {
	s := New("custom", WithKFactor(16), WithStartingElo(1000))
	assert.Equal(t, 16, s.KFactor())
	assert.Equal(t, 1000.0, s.StartingElo())
	assert.Equal(t, 1000.0, s.Rating("fresh"))
}

func TestRegisterMatchResult_NeverProducesNaN(t *testing.T) {
	s := New("basic1")
	s.RegisterMatchResult("a", "b", 1000000, 0, 0, "")
	s.RegisterMatchResult("a", "b", 0, 1000000, 0, "")
	assert.False(t, math.IsNaN(s.Rating("a")))
	assert.False(t, math.IsNaN(s.Rating("b")))
}
