package summary

import "github.com/soltixdb/eda/internal/utils"

// ExceedanceProbability returns the fraction of values strictly greater
// than threshold.
func ExceedanceProbability(sample Sample, threshold float64) (float64, error) {
	if err := validate("exceedance", sample); err != nil {
		return 0, err
	}
	if !utils.IsFinite(threshold) {
		return 0, InvalidInputf("exceedance", "threshold %v is not finite", threshold)
	}

	count := 0
	for _, v := range sample {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(sample)), nil
}
