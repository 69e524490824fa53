package summary

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// DefaultSubsampleSize is the number of values drawn by the reports
const DefaultSubsampleSize = 50

// Subsample draws size values uniformly without replacement. A nil src uses
// the process-wide generator; pass a seeded source for reproducible draws.
// Each call is independent of previous ones.
func Subsample(sample Sample, size int, src rand.Source) (Sample, error) {
	if size <= 0 {
		return nil, InvalidInputf("subsample", "size must be positive, got %d", size)
	}
	if len(sample) < size {
		return nil, InvalidInputf("subsample", "sample must have at least %d elements, got %d", size, len(sample))
	}
	if err := validate("subsample", sample); err != nil {
		return nil, err
	}

	idxs := make([]int, size)
	sampleuv.WithoutReplacement(idxs, len(sample), src)

	out := make(Sample, size)
	for i, idx := range idxs {
		out[i] = sample[idx]
	}
	return out, nil
}
