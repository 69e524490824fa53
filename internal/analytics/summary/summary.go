// Package summary computes descriptive statistics over numeric samples:
// mean, standard deviation and median, quartiles, IQR fences and outliers,
// random subsamples, a one-sample t-test and threshold exceedance.
//
// Every operation validates its input eagerly and returns an error wrapping
// ErrInvalidInput or ErrTypeMismatch instead of a partial result.
package summary

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary is the mean, population standard deviation and median of a sample.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
}

// Summarize computes the Summary of a non-empty sample.
func Summarize(sample Sample) (Summary, error) {
	if err := validate("summarize", sample); err != nil {
		return Summary{}, err
	}

	mean, variance := stat.PopMeanVariance(sample, nil)
	stdDev := 0.0
	if len(sample) > 1 {
		stdDev = math.Sqrt(variance)
	}

	return Summary{
		Count:  len(sample),
		Mean:   mean,
		StdDev: stdDev,
		Median: percentile(sample.Sorted(), 50),
	}, nil
}
