// Package aggregate converts persisted comparison records into the in-memory
// aggregates the estimators consume: the model set, per-pair and per-category
// comparison counts, and win/match matrices.
package aggregate

import (
	"sort"

	"github.com/rankllms/rankllms/internal/models"
)

// OutcomeSource is the boundary to the outcome store. Absent outcomes are
// returned as nil, not as errors.
type OutcomeSource interface {
	Load(modelA, modelB string) (*models.PairOutcome, error)
	ListPairs() ([]models.PairKey, error)
}

// Corpus is the full set of outcomes loaded for one scope, indexed for the
// estimators. It is derived fresh per invocation and never mutated afterwards.
type Corpus struct {
	outcomes       map[models.PairKey]*models.PairOutcome
	modelList      []string
	pairCounts     map[models.PairKey]int
	categoryCounts map[string]map[models.PairKey]int
}

// LoadCorpus reads every stored outcome from the source and aggregates it.
func LoadCorpus(src OutcomeSource) (*Corpus, error) {
	keys, err := src.ListPairs()
	if err != nil {
		return nil, err
	}

	outcomes := make(map[models.PairKey]*models.PairOutcome, len(keys))
	for _, key := range keys {
		outcome, err := src.Load(key.Low, key.High)
		if err != nil {
			return nil, err
		}
		if outcome == nil {
			continue
		}
		outcomes[key] = outcome
	}
	return FromOutcomes(outcomes), nil
}

// FromOutcomes aggregates an already loaded outcome set.
func FromOutcomes(outcomes map[models.PairKey]*models.PairOutcome) *Corpus {
	c := &Corpus{
		outcomes:       outcomes,
		pairCounts:     map[models.PairKey]int{},
		categoryCounts: map[string]map[models.PairKey]int{},
	}

	seen := map[string]bool{}
	for key, outcome := range outcomes {
		seen[key.Low] = true
		seen[key.High] = true

		c.pairCounts[key] = outcome.OverallTotal()
		for category, cat := range outcome.CategoryResults {
			if cat.Total() == 0 {
				continue
			}
			if c.categoryCounts[category] == nil {
				c.categoryCounts[category] = map[models.PairKey]int{}
			}
			c.categoryCounts[category][key] += cat.Total()
		}
	}

	c.modelList = make([]string, 0, len(seen))
	for m := range seen {
		c.modelList = append(c.modelList, m)
	}
	sort.Strings(c.modelList)
	return c
}

// Models returns every model appearing in at least one outcome, sorted.
func (c *Corpus) Models() []string {
	return c.modelList
}

// Pairs returns the keys of all loaded outcomes, sorted.
func (c *Corpus) Pairs() []models.PairKey {
	keys := make([]models.PairKey, 0, len(c.outcomes))
	for k := range c.outcomes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Low != keys[j].Low {
			return keys[i].Low < keys[j].Low
		}
		return keys[i].High < keys[j].High
	})
	return keys
}

// Outcome returns the loaded outcome for the unordered pair, if any.
func (c *Corpus) Outcome(modelA, modelB string) (*models.PairOutcome, bool) {
	o, ok := c.outcomes[models.NewPairKey(modelA, modelB)]
	return o, ok
}

// PairCount returns the total number of judged comparisons for the pair.
func (c *Corpus) PairCount(key models.PairKey) int {
	return c.pairCounts[key]
}

// Categories returns the distinct categories with at least one comparison,
// sorted.
func (c *Corpus) Categories() []string {
	out := make([]string, 0, len(c.categoryCounts))
	for cat := range c.categoryCounts {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// CategoryCount returns the number of comparisons for the pair within one
// category.
func (c *Corpus) CategoryCount(category string, key models.PairKey) int {
	counts, ok := c.categoryCounts[category]
	if !ok {
		return 0
	}
	return counts[key]
}

// TotalComparisons returns the comparison count across all pairs.
func (c *Corpus) TotalComparisons() int {
	n := 0
	for _, count := range c.pairCounts {
		n += count
	}
	return n
}
