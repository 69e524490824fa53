package dataset

import (
	"math/rand/v2"

	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/utils"
	"gonum.org/v1/gonum/stat/distuv"
)

// Defaults of the synthetic height sample
const (
	DefaultSize   = 1000
	DefaultMean   = 170.0
	DefaultStdDev = 10.0
)

// GenerateNormal draws size values from N(mean, stdDev²).
// A nil src uses the process-wide generator.
func GenerateNormal(size int, mean, stdDev float64, src rand.Source) (summary.Sample, error) {
	if size <= 0 {
		return nil, summary.InvalidInputf("generate", "size must be positive, got %d", size)
	}
	if !utils.IsFinite(mean) {
		return nil, summary.InvalidInputf("generate", "mean %v is not finite", mean)
	}
	if !utils.IsFinite(stdDev) || stdDev <= 0 {
		return nil, summary.InvalidInputf("generate", "std dev must be positive, got %v", stdDev)
	}

	dist := distuv.Normal{Mu: mean, Sigma: stdDev, Src: src}
	out := make(summary.Sample, size)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out, nil
}

// GenerateFromValues is GenerateNormal for loosely typed parameters.
// size must be a whole number and mean/stdDev numeric, otherwise the error
// wraps summary.ErrTypeMismatch.
func GenerateFromValues(size, mean, stdDev interface{}, src rand.Source) (summary.Sample, error) {
	n, ok := utils.ToInt(size)
	if !ok {
		return nil, summary.TypeMismatchf("generate", "size %v is not a whole number", size)
	}
	mu, err := summary.NumberFromValue("mean", mean)
	if err != nil {
		return nil, err
	}
	sigma, err := summary.NumberFromValue("std_dev", stdDev)
	if err != nil {
		return nil, err
	}
	return GenerateNormal(n, mu, sigma, src)
}
