package reporting

import (
	"strings"
	"testing"

	"github.com/rankllms/rankllms/internal/aggregate"
	"github.com/rankllms/rankllms/internal/analyzer"
	"github.com/rankllms/rankllms/internal/bradleyterry"
	"github.com/rankllms/rankllms/internal/direct"
	"github.com/rankllms/rankllms/internal/elo"
	"github.com/rankllms/rankllms/internal/focus"
	"github.com/rankllms/rankllms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// headings parses markdown and returns the text of every heading, verifying
// along the way that the output is well-formed enough for goldmark.
func headings(t *testing.T, source string) []string {
	t.Helper()

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader([]byte(source)))

	var out []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var sb strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					sb.Write(txt.Segment.Value([]byte(source)))
				}
			}
			out = append(out, sb.String())
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return out
}

type fakeSource struct {
	outcomes map[models.PairKey]*models.PairOutcome
}

func (f *fakeSource) Load(a, b string) (*models.PairOutcome, error) {
	return f.outcomes[models.NewPairKey(a, b)], nil
}

func (f *fakeSource) ListPairs() ([]models.PairKey, error) {
	keys := make([]models.PairKey, 0, len(f.outcomes))
	for k := range f.outcomes {
		keys = append(keys, k)
	}
	return keys, nil
}

func outcome(a, b string, perCategory map[string][3]int) *models.PairOutcome {
	o := &models.PairOutcome{
		ModelA:          a,
		ModelB:          b,
		Promptset:       "basic1",
		CategoryResults: map[string]models.CategoryOutcome{},
	}
	for cat, counts := range perCategory {
		o.CategoryResults[cat] = models.CategoryOutcome{
			Category: cat,
			ModelA:   a,
			ModelB:   b,
			WinsA:    counts[0],
			WinsB:    counts[1],
			Ties:     counts[2],
		}
	}
	return o
}

func testSource() *fakeSource {
	ab := outcome("gpt-4o", "llama3:8b", map[string][3]int{
		"Programming": {5, 2, 0},
		"Reasoning":   {4, 1, 2},
	})
	bc := outcome("llama3:8b", "mistral:7b", map[string][3]int{
		"Programming": {6, 2, 2},
	})
	return &fakeSource{outcomes: map[models.PairKey]*models.PairOutcome{
		ab.Key(): ab,
		bc.Key(): bc,
	}}
}

func testCorpus(t *testing.T) *aggregate.Corpus {
	t.Helper()
	c, err := aggregate.LoadCorpus(testSource())
	require.NoError(t, err)
	return c
}

func TestLeaderboard(t *testing.T) {
	store := elo.New("basic1")
	store.RegisterMatchResult("gpt-4o", "llama3:8b", 10, 0, 0, "")
	store.RegisterMatchResult("gpt-4o", "llama3:8b", 5, 2, 0, "Programming")

	got := Leaderboard(store)

	assert.Equal(t, []string{
		"LLM Model Leaderboard",
		"Overall Rankings",
		"Programming Rankings",
	}, headings(t, got))
	assert.Contains(t, got, "| 1 | gpt-4o | 1416 |")
	assert.Contains(t, got, "| 2 | llama3:8b | 1384 |")
}

func TestBradleyTerryReport(t *testing.T) {
	corpus := testCorpus(t)
	model := bradleyterry.New()
	model.Fit(corpus.BuildMatrix(corpus.Models()))

	got, err := BradleyTerryReport(model)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Bradley-Terry Model Win Probability Matrix",
		"Model Strength Parameters",
	}, headings(t, got))
	assert.Contains(t, got, "| **gpt-4o** |")
	assert.Contains(t, got, " - |", "diagonal entries are dashes")
}

func TestBradleyTerryReport_NotFitted(t *testing.T) {
	_, err := BradleyTerryReport(bradleyterry.New())
	require.ErrorIs(t, err, bradleyterry.ErrNotFitted)
}

func TestDirectReport(t *testing.T) {
	// A recorded but empty outcome: the ranking is complete, yet the pair
	// has no judged comparisons and renders as N/A.
	src := testSource()
	empty := outcome("gpt-4o", "mistral:7b", map[string][3]int{"Programming": {0, 0, 0}})
	src.outcomes[empty.Key()] = empty

	ranking := direct.New()
	complete, err := ranking.ComputeRankings([]string{"gpt-4o", "llama3:8b", "mistral:7b"}, src)
	require.NoError(t, err)
	assert.True(t, complete)

	got, err := DirectReport(ranking)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Direct Comparison Results",
		"Overall Rankings",
		"Win Probability Matrix",
		"Detailed Head-to-Head Results",
		"gpt-4o vs llama3:8b",
		"llama3:8b vs mistral:7b",
	}, headings(t, got))
	assert.Contains(t, got, " N/A |", "uncompared pairs show N/A")
	assert.Contains(t, got, "- **Overall**: gpt-4o wins 9/14 (71.4%), llama3:8b wins 3/14 (28.6%), Ties 2/14 (14.3%)")
}

func TestMissingComparisons(t *testing.T) {
	ranking := direct.New()
	_, err := ranking.ComputeRankings([]string{"gpt-4o", "llama3:8b", "mistral:7b"}, testSource())
	require.NoError(t, err)

	got := MissingComparisons(ranking, "basic1")
	assert.Equal(t, []string{"Missing Comparisons"}, headings(t, got))
	assert.Contains(t, got, "1. Compare **gpt-4o** with **mistral:7b** on the `basic1` promptset")
}

func TestFocusReport(t *testing.T) {
	ranking := focus.New("gpt-4o")
	ratios := ranking.ComputeRankings(testCorpus(t), 2)
	require.NotEmpty(t, ratios)

	got := FocusReport(ranking, ratios, "basic1", 2)

	h := headings(t, got)
	assert.Equal(t, "Focus-Based Model Rankings: gpt-4o", h[0])
	assert.Contains(t, h, "Model Rankings")
	assert.Contains(t, h, "Direct Comparison Details")
	assert.Contains(t, got, "Transitive relationships up to depth 2 are included.")
	assert.Contains(t, got, "| transitive |")
	assert.Contains(t, got, "**Category Breakdown:**")
}

func TestFocusReport_DirectOnly(t *testing.T) {
	ranking := focus.New("gpt-4o")
	ratios := ranking.ComputeRankings(testCorpus(t), 1)

	got := FocusReport(ranking, ratios, "basic1", 1)
	assert.Contains(t, got, "Only direct comparisons are included.")
	assert.NotContains(t, got, "| transitive |")
}

func TestSuggestions(t *testing.T) {
	got := Suggestions([]analyzer.Suggestion{
		{
			ModelA:    "gpt-4o",
			ModelB:    "mistral:7b",
			Reason:    "these models have never been compared",
			Priority:  analyzer.PriorityMissing,
			Promptset: "basic1",
		},
		{
			ModelA:    "llama3:8b",
			ModelB:    "mistral:7b",
			Reason:    `only 0 comparisons in "Reasoning" category`,
			Priority:  analyzer.PriorityCategoryGap,
			Category:  "Reasoning",
			Promptset: "basic1",
		},
	})

	assert.Equal(t, []string{"Suggested Additional Comparisons", "Comparisons to Run"}, headings(t, got))
	assert.Contains(t, got, "| 1 | gpt-4o | mistral:7b | 1 |")
	assert.Contains(t, got, "llama3:8b vs mistral:7b (promptset `basic1`, category \"Reasoning\")")
}

func TestSuggestions_Empty(t *testing.T) {
	got := Suggestions(nil)
	assert.Contains(t, got, "No additional comparisons needed.")
}
