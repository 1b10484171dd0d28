package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testOutcome() *PairOutcome {
	return &PairOutcome{
		ModelA:    "llama3:8b",
		ModelB:    "phi3:mini",
		Promptset: "basic1",
		CategoryResults: map[string]CategoryOutcome{
			"Programming": {
				Category: "Programming",
				ModelA:   "llama3:8b",
				ModelB:   "phi3:mini",
				WinsA:    4,
				WinsB:    1,
				Ties:     0,
			},
			"Reasoning": {
				Category: "Reasoning",
				ModelA:   "llama3:8b",
				ModelB:   "phi3:mini",
				WinsA:    3,
				WinsB:    2,
				Ties:     2,
			},
		},
	}
}

func TestPairOutcome_OverallCounts(t *testing.T) {
	o := testOutcome()

	assert.Equal(t, 7, o.OverallWinsA())
	assert.Equal(t, 3, o.OverallWinsB())
	assert.Equal(t, 2, o.OverallTies())
	assert.Equal(t, 12, o.OverallTotal())
}

func TestPairOutcome_WinsFor(t *testing.T) {
	o := testOutcome()

	assert.Equal(t, 7, o.WinsFor("llama3:8b"))
	assert.Equal(t, 3, o.WinsFor("phi3:mini"))
	assert.Equal(t, 0, o.WinsFor("unknown:model"))
}

func TestPairOutcome_WinRateFor(t *testing.T) {
	o := testOutcome()

	// Ties count as half a win to each side.
	assert.InDelta(t, 8.0/12.0, o.WinRateFor("llama3:8b"), 1e-9)
	assert.InDelta(t, 4.0/12.0, o.WinRateFor("phi3:mini"), 1e-9)

	// Win rates sum to 1 when there are any comparisons.
	assert.InDelta(t, 1.0, o.WinRateFor("llama3:8b")+o.WinRateFor("phi3:mini"), 1e-9)
}

func TestPairOutcome_WinRateFor_Empty(t *testing.T) {
	o := &PairOutcome{ModelA: "a", ModelB: "b"}
	assert.Equal(t, 0.0, o.WinRateFor("a"))
}

func TestCategoryOutcome_Total(t *testing.T) {
	c := CategoryOutcome{WinsA: 2, WinsB: 3, Ties: 1}
	assert.Equal(t, 6, c.Total())
}

func TestPairOutcome_Key(t *testing.T) {
	o := &PairOutcome{ModelA: "phi3:mini", ModelB: "llama3:8b"}
	assert.Equal(t, NewPairKey("llama3:8b", "phi3:mini"), o.Key())
}
