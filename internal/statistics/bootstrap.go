// Package statistics provides bootstrap confidence intervals over observed
// win rates, quantifying how much a pair's head-to-head record can be
// trusted.
package statistics

import (
	"math"
	"math/rand"
	"sort"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// WinRateSamples expands a win/loss/tie record into per-comparison scores:
// 1 per win, 0 per loss, 0.5 per tie. The mean of the samples is the win
// rate with ties counted as half.
func WinRateSamples(wins, losses, ties int) []float64 {
	samples := make([]float64, 0, wins+losses+ties)
	for i := 0; i < wins; i++ {
		samples = append(samples, 1)
	}
	for i := 0; i < losses; i++ {
		samples = append(samples, 0)
	}
	for i := 0; i < ties; i++ {
		samples = append(samples, 0.5)
	}
	return samples
}

// BootstrapCI computes a bootstrap confidence interval over the given scores
// using the percentile method. confidenceLevel should be in (0, 1), e.g. 0.95.
// Returns a zero-width interval when fewer than 2 data points exist.
func BootstrapCI(scores []float64, confidenceLevel float64) ConfidenceInterval {
	return BootstrapCIWithSeed(scores, confidenceLevel, -1)
}

// BootstrapCIWithSeed is like BootstrapCI but accepts a seed for reproducibility.
// A negative seed uses a non-deterministic source.
func BootstrapCIWithSeed(scores []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	n := len(scores)
	if n < 2 {
		m := mean(scores)
		return ConfidenceInterval{
			Lower:           m,
			Upper:           m,
			Mean:            m,
			ConfidenceLevel: confidenceLevel,
			NumBootstraps:   0,
		}
	}

	var rng *rand.Rand
	if seed >= 0 {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	m := mean(scores)
	iters := DefaultBootstrapIterations

	// Resample with replacement, taking the mean of each resample.
	bootMeans := make([]float64, iters)
	sample := make([]float64, n)
	for i := 0; i < iters; i++ {
		for j := 0; j < n; j++ {
			sample[j] = scores[rng.Intn(n)]
		}
		bootMeans[i] = mean(sample)
	}

	sort.Float64s(bootMeans)

	// Percentile method
	alpha := 1.0 - confidenceLevel
	loIdx := int(math.Floor(alpha / 2.0 * float64(iters)))
	hiIdx := int(math.Floor((1.0 - alpha/2.0) * float64(iters)))
	if hiIdx >= iters {
		hiIdx = iters - 1
	}

	return ConfidenceInterval{
		Lower:           bootMeans[loIdx],
		Upper:           bootMeans[hiIdx],
		Mean:            m,
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}
}

// Decisive returns true when the interval excludes an even 0.5 win rate:
// one model is ahead of the other beyond what resampling noise explains.
func Decisive(ci ConfidenceInterval) bool {
	return ci.Lower > 0.5 || ci.Upper < 0.5
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
