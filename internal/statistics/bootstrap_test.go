package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinRateSamples(t *testing.T) {
	samples := WinRateSamples(2, 1, 1)
	assert.Equal(t, []float64{1, 1, 0, 0.5}, samples)
	assert.InDelta(t, 0.625, mean(samples), 1e-9)
}

func TestBootstrapCI_TooFewSamples(t *testing.T) {
	ci := BootstrapCI([]float64{1}, 0.95)
	assert.Equal(t, 1.0, ci.Lower)
	assert.Equal(t, 1.0, ci.Upper)
	assert.Equal(t, 0, ci.NumBootstraps)
}

func TestBootstrapCIWithSeed(t *testing.T) {
	samples := WinRateSamples(7, 3, 0)

	ci := BootstrapCIWithSeed(samples, 0.95, 42)
	assert.InDelta(t, 0.7, ci.Mean, 1e-9)
	assert.Equal(t, DefaultBootstrapIterations, ci.NumBootstraps)
	assert.LessOrEqual(t, ci.Lower, ci.Mean)
	assert.GreaterOrEqual(t, ci.Upper, ci.Mean)
	assert.Greater(t, ci.Upper, ci.Lower)

	// Same seed reproduces the interval exactly.
	again := BootstrapCIWithSeed(samples, 0.95, 42)
	assert.Equal(t, ci, again)
}

func TestBootstrapCI_CoversObservedRate(t *testing.T) {
	samples := WinRateSamples(5, 5, 0)
	ci := BootstrapCIWithSeed(samples, 0.95, 7)
	assert.LessOrEqual(t, ci.Lower, 0.5)
	assert.GreaterOrEqual(t, ci.Upper, 0.5)
}

func TestDecisive(t *testing.T) {
	tests := []struct {
		name string
		ci   ConfidenceInterval
		want bool
	}{
		{name: "clearly ahead", ci: ConfidenceInterval{Lower: 0.6, Upper: 0.9}, want: true},
		{name: "clearly behind", ci: ConfidenceInterval{Lower: 0.1, Upper: 0.4}, want: true},
		{name: "straddles even", ci: ConfidenceInterval{Lower: 0.4, Upper: 0.7}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decisive(tt.ci))
		})
	}

	// An all-wins record resamples to all wins at any size.
	samples := WinRateSamples(2, 0, 0)
	require.Len(t, samples, 2)
	ci := BootstrapCIWithSeed(samples, 0.95, 11)
	assert.True(t, Decisive(ci), "2-0 bootstrap resamples are all wins")
}
