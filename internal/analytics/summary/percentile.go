package summary

// Percentiles holds the quartile ranks of a sample.
// P25 <= P50 <= P75 always holds.
type Percentiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
}

// IQR returns the interquartile range P75 - P25
func (p Percentiles) IQR() float64 {
	return p.P75 - p.P25
}

// CalculatePercentiles returns the 25th, 50th and 75th percentiles using
// linear interpolation over the sorted sample.
func CalculatePercentiles(sample Sample) (Percentiles, error) {
	if err := validate("percentiles", sample); err != nil {
		return Percentiles{}, err
	}
	return percentilesOfSorted(sample.Sorted()), nil
}

// Percentile returns the p-th percentile, p in [0, 100].
func Percentile(sample Sample, p float64) (float64, error) {
	if err := validate("percentile", sample); err != nil {
		return 0, err
	}
	if p < 0 || p > 100 {
		return 0, InvalidInputf("percentile", "rank %v outside [0, 100]", p)
	}
	return percentile(sample.Sorted(), p), nil
}

func percentilesOfSorted(sorted []float64) Percentiles {
	return Percentiles{
		P25: percentile(sorted, 25),
		P50: percentile(sorted, 50),
		P75: percentile(sorted, 75),
	}
}

// percentile calculates the p-th percentile of sorted data.
// The rank index is p/100 * (n-1); fractional ranks interpolate between
// the two neighbouring values.
func percentile(sortedData []float64, p float64) float64 {
	if len(sortedData) == 0 {
		return 0
	}
	if len(sortedData) == 1 {
		return sortedData[0]
	}

	index := (p / 100) * float64(len(sortedData)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sortedData) {
		return sortedData[len(sortedData)-1]
	}

	lo, hi := sortedData[lower], sortedData[upper]
	weight := index - float64(lower)
	v := lo + (hi-lo)*weight

	// Rounding must not push the result outside its bracket, or quartile
	// ordering breaks for near-constant data.
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
