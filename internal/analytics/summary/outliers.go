package summary

// DefaultFenceMultiplier is the conventional Tukey fence width in IQRs
const DefaultFenceMultiplier = 1.5

// Fences are the IQR-based outlier boundaries of a sample.
// Values on a boundary are inside the fences.
type Fences struct {
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	IQR        float64 `json:"iqr"`
	Multiplier float64 `json:"multiplier"`
}

// Contains reports whether v lies within [Lower, Upper]
func (f Fences) Contains(v float64) bool {
	return v >= f.Lower && v <= f.Upper
}

func fencesFrom(p Percentiles, k float64) Fences {
	iqr := p.IQR()
	return Fences{
		Lower:      p.P25 - k*iqr,
		Upper:      p.P75 + k*iqr,
		IQR:        iqr,
		Multiplier: k,
	}
}

// IQRFences returns the 1.5·IQR fences of the sample.
func IQRFences(sample Sample) (Fences, error) {
	return IQRFencesWithMultiplier(sample, DefaultFenceMultiplier)
}

// IQRFencesWithMultiplier returns fences k·IQR beyond the quartiles.
func IQRFencesWithMultiplier(sample Sample, k float64) (Fences, error) {
	if err := validate("fences", sample); err != nil {
		return Fences{}, err
	}
	if k <= 0 {
		return Fences{}, InvalidInputf("fences", "multiplier must be positive, got %v", k)
	}
	return fencesFrom(percentilesOfSorted(sample.Sorted()), k), nil
}

// Outliers returns the values strictly outside the 1.5·IQR fences, in
// ascending order. The result is never nil.
func Outliers(sample Sample) ([]float64, error) {
	return OutliersWithMultiplier(sample, DefaultFenceMultiplier)
}

// OutliersWithMultiplier is Outliers with a custom fence width.
func OutliersWithMultiplier(sample Sample, k float64) ([]float64, error) {
	if err := validate("outliers", sample); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, InvalidInputf("outliers", "multiplier must be positive, got %v", k)
	}

	sorted := sample.Sorted()
	fences := fencesFrom(percentilesOfSorted(sorted), k)

	outliers := make([]float64, 0)
	for _, v := range sorted {
		if v < fences.Lower || v > fences.Upper {
			outliers = append(outliers, v)
		}
	}
	return outliers, nil
}
