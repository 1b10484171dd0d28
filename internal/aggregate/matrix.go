package aggregate

// PairMatrix holds the win and match-count matrices for a fixed ordered list
// of models. Wins[i][j] is the total wins of model i over model j; Matches is
// symmetric: Matches[i][j] == Matches[j][i].
type PairMatrix struct {
	Models  []string
	Wins    [][]int
	Matches [][]int

	index map[string]int
}

// NewPairMatrix allocates a zero matrix over the given model ordering.
func NewPairMatrix(modelList []string) *PairMatrix {
	n := len(modelList)
	m := &PairMatrix{
		Models:  modelList,
		Wins:    make([][]int, n),
		Matches: make([][]int, n),
		index:   make(map[string]int, n),
	}
	for i, model := range modelList {
		m.Wins[i] = make([]int, n)
		m.Matches[i] = make([]int, n)
		m.index[model] = i
	}
	return m
}

// Index returns the row/column of a model, and whether it is present.
func (m *PairMatrix) Index(model string) (int, bool) {
	i, ok := m.index[model]
	return i, ok
}

// TotalWins returns the total wins of model i across all opponents.
func (m *PairMatrix) TotalWins(i int) int {
	n := 0
	for j := range m.Wins[i] {
		n += m.Wins[i][j]
	}
	return n
}

// DecisiveMatches returns the comparisons between models i and j that ended
// in a win for either side. Ties are excluded.
func (m *PairMatrix) DecisiveMatches(i, j int) int {
	return m.Wins[i][j] + m.Wins[j][i]
}

// TotalDecisiveMatches returns the decisive comparisons involving model i
// across all opponents.
func (m *PairMatrix) TotalDecisiveMatches(i int) int {
	n := 0
	for j := range m.Wins[i] {
		if i == j {
			continue
		}
		n += m.DecisiveMatches(i, j)
	}
	return n
}

// TotalMatches returns the total comparisons involving model i.
func (m *PairMatrix) TotalMatches(i int) int {
	n := 0
	for j := range m.Matches[i] {
		n += m.Matches[i][j]
	}
	return n
}

// BuildMatrix fills a PairMatrix for the given subset of models from the
// corpus. Pairs without a stored outcome stay zero.
func (c *Corpus) BuildMatrix(subset []string) *PairMatrix {
	m := NewPairMatrix(subset)
	for i, modelA := range subset {
		for j := i + 1; j < len(subset); j++ {
			modelB := subset[j]
			outcome, ok := c.Outcome(modelA, modelB)
			if !ok {
				continue
			}
			m.Wins[i][j] = outcome.WinsFor(modelA)
			m.Wins[j][i] = outcome.WinsFor(modelB)
			total := outcome.OverallTotal()
			m.Matches[i][j] = total
			m.Matches[j][i] = total
		}
	}
	return m
}
