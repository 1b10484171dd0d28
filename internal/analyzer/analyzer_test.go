package analyzer

import (
	"testing"

	"github.com/rankllms/rankllms/internal/aggregate"
	"github.com/rankllms/rankllms/internal/elo"
	"github.com/rankllms/rankllms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wins is [winsA, winsB, ties] per category.
func outcome(modelA, modelB string, cats map[string][3]int) *models.PairOutcome {
	results := map[string]models.CategoryOutcome{}
	for category, w := range cats {
		results[category] = models.CategoryOutcome{
			Category: category,
			ModelA:   modelA,
			ModelB:   modelB,
			WinsA:    w[0],
			WinsB:    w[1],
			Ties:     w[2],
		}
	}
	return &models.PairOutcome{
		ModelA:          modelA,
		ModelB:          modelB,
		Promptset:       "basic1",
		CategoryResults: results,
	}
}

// testCorpus has a well-covered a-b pair, a thin b-c pair, and no a-c pair.
func testCorpus(t *testing.T) *aggregate.Corpus {
	t.Helper()
	return aggregate.FromOutcomes(map[models.PairKey]*models.PairOutcome{
		models.NewPairKey("a", "b"): outcome("a", "b", map[string][3]int{
			"general": {3, 2, 0},
			"coding":  {3, 1, 1},
		}),
		models.NewPairKey("b", "c"): outcome("b", "c", map[string][3]int{
			"general": {1, 1, 0},
		}),
	})
}

func TestMissingComparisons(t *testing.T) {
	a := New("basic1", testCorpus(t))

	missing := a.MissingComparisons()
	assert.Equal(t, []models.PairKey{models.NewPairKey("a", "c")}, missing)
}

func TestLowConfidencePairs(t *testing.T) {
	a := New("basic1", testCorpus(t))

	low := a.LowConfidencePairs(5)
	require.Len(t, low, 1, "a-b has 10 comparisons and a-c has none, only b-c qualifies")
	assert.Equal(t, models.NewPairKey("b", "c"), low[0].Key)
	assert.Equal(t, 2, low[0].Count)
}

func TestLowConfidencePairs_SortedAscending(t *testing.T) {
	corpus := aggregate.FromOutcomes(map[models.PairKey]*models.PairOutcome{
		models.NewPairKey("a", "b"): outcome("a", "b", map[string][3]int{"general": {2, 1, 0}}),
		models.NewPairKey("b", "c"): outcome("b", "c", map[string][3]int{"general": {1, 0, 0}}),
		models.NewPairKey("a", "c"): outcome("a", "c", map[string][3]int{"general": {1, 1, 0}}),
	})
	a := New("basic1", corpus)

	low := a.LowConfidencePairs(5)
	require.Len(t, low, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{low[0].Count, low[1].Count, low[2].Count})
	assert.Equal(t, models.NewPairKey("b", "c"), low[0].Key)
}

func TestCloseRatingPairs_NoRatings(t *testing.T) {
	a := New("basic1", testCorpus(t))
	assert.Nil(t, a.CloseRatingPairs(50))
}

func TestCloseRatingPairs(t *testing.T) {
	store := elo.New("basic1")
	store.RegisterMatchResult("a", "b", 10, 0, 0, "")

	a := New("basic1", testCorpus(t), WithRatings(store))

	got := a.CloseRatingPairs(20)
	require.Len(t, got, 2, "a-b differ by 32 and fall outside the threshold")
	assert.Equal(t, models.NewPairKey("a", "c"), got[0].Key)
	assert.InDelta(t, 16, got[0].Diff, 1e-9)
	assert.Equal(t, models.NewPairKey("b", "c"), got[1].Key)
	assert.InDelta(t, 16, got[1].Diff, 1e-9)
}

func TestCategoryGaps(t *testing.T) {
	a := New("basic1", testCorpus(t))

	gaps := a.CategoryGaps(3)
	require.Len(t, gaps, 2)

	byCategory := map[string][]PairCount{}
	for _, gap := range gaps {
		byCategory[gap.Category] = gap.Pairs
	}

	// b-c has no coding comparisons at all; a-b has 5 and is covered.
	require.Len(t, byCategory["coding"], 1)
	assert.Equal(t, models.NewPairKey("b", "c"), byCategory["coding"][0].Key)
	assert.Equal(t, 0, byCategory["coding"][0].Count)

	// b-c has 2 general comparisons, below the threshold of 3.
	require.Len(t, byCategory["general"], 1)
	assert.Equal(t, 2, byCategory["general"][0].Count)
}

func TestCategoryGaps_ExplicitCategories(t *testing.T) {
	a := New("basic1", testCorpus(t), WithCategories([]string{"reasoning"}))

	gaps := a.CategoryGaps(2)
	require.Len(t, gaps, 1)
	assert.Equal(t, "reasoning", gaps[0].Category)
	assert.Len(t, gaps[0].Pairs, 2, "no pair has any reasoning comparisons")
}

func TestGenerateSuggestions_PriorityOrderAndDedup(t *testing.T) {
	a := New("basic1", testCorpus(t))

	got := a.GenerateSuggestions(DefaultOptions())
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].ModelA)
	assert.Equal(t, "c", got[0].ModelB)
	assert.Equal(t, PriorityMissing, got[0].Priority)
	assert.Equal(t, "basic1", got[0].Promptset)

	// b-c is low-confidence and also gaps in the coding category, but it
	// must only appear once, at the higher priority.
	assert.Equal(t, "b", got[1].ModelA)
	assert.Equal(t, "c", got[1].ModelB)
	assert.Equal(t, PriorityLowConfidence, got[1].Priority)
}

func TestGenerateSuggestions_LowConfidenceCarriesWinRateInterval(t *testing.T) {
	a := New("basic1", testCorpus(t))

	got := a.GenerateSuggestions(DefaultOptions())
	require.Len(t, got, 2)

	// b-c is 1-1-0: far too little data to call, so the suggestion carries
	// the bootstrap interval showing the win rate is still wide open.
	assert.Equal(t, PriorityLowConfidence, got[1].Priority)
	assert.Contains(t, got[1].Reason, "only 2 comparisons (recommended: 5)")
	assert.Contains(t, got[1].Reason, "win-rate interval")
	assert.Contains(t, got[1].Reason, "spans even odds")
}

func TestGenerateSuggestions_DecisiveRecordSkipsInterval(t *testing.T) {
	// a-b is 3-0-0: thin, but every resample is all wins, so the interval
	// excludes even odds and the annotation is omitted.
	corpus := aggregate.FromOutcomes(map[models.PairKey]*models.PairOutcome{
		models.NewPairKey("a", "b"): outcome("a", "b", map[string][3]int{"general": {3, 0, 0}}),
	})
	a := New("basic1", corpus)

	got := a.GenerateSuggestions(DefaultOptions())
	require.Len(t, got, 1)
	assert.Equal(t, PriorityLowConfidence, got[0].Priority)
	assert.NotContains(t, got[0].Reason, "win-rate interval")
}

func TestGenerateSuggestions_Cap(t *testing.T) {
	a := New("basic1", testCorpus(t))

	opts := DefaultOptions()
	opts.MaxSuggestions = 1
	got := a.GenerateSuggestions(opts)
	require.Len(t, got, 1)
	assert.Equal(t, PriorityMissing, got[0].Priority)
}

func TestModelSummary(t *testing.T) {
	store := elo.New("basic1")
	store.RegisterMatchResult("a", "b", 10, 0, 0, "")

	a := New("basic1", testCorpus(t), WithRatings(store))
	summary := a.ModelSummary()

	assert.Equal(t, 3, summary.TotalModels)
	assert.Equal(t, 12, summary.TotalComparisons)

	require.Len(t, summary.ModelCounts, 3)
	assert.Equal(t, ModelCount{Model: "b", Count: 12}, summary.ModelCounts[0])

	dist := summary.CategoryDistribution["a"]
	require.NotNil(t, dist)
	assert.InDelta(t, 50, dist["general"], 1e-9)
	assert.InDelta(t, 50, dist["coding"], 1e-9)

	require.NotNil(t, summary.Ratings)
	assert.InDelta(t, 1416, summary.Ratings["a"], 1e-9)
	assert.InDelta(t, 1400, summary.Ratings["c"], 1e-9)
}

func TestWinRateInterval(t *testing.T) {
	a := New("basic1", testCorpus(t))

	ci, ok := a.WinRateInterval(models.NewPairKey("a", "b"), 0.95, 42)
	require.True(t, ok)
	// a won 6 of 10 with 1 tie: 6.5/10 counting ties as half.
	assert.InDelta(t, 0.65, ci.Mean, 1e-9)
	assert.Less(t, ci.Lower, ci.Upper)

	_, ok = a.WinRateInterval(models.NewPairKey("a", "c"), 0.95, 42)
	assert.False(t, ok, "a and c were never compared")
}

func TestModelSummary_NoRatings(t *testing.T) {
	a := New("basic1", testCorpus(t))
	assert.Nil(t, a.ModelSummary().Ratings)
}
