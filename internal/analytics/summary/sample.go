package summary

import (
	"sort"

	"github.com/soltixdb/eda/internal/utils"
)

// Sample is an ordered sequence of real numbers. Operations never modify it.
type Sample []float64

// Len returns the number of values
func (s Sample) Len() int {
	return len(s)
}

// Sorted returns an ascending copy of the sample
func (s Sample) Sorted() Sample {
	sorted := make(Sample, len(s))
	copy(sorted, s)
	sort.Float64s(sorted)
	return sorted
}

// Min returns the smallest value, or 0 for an empty sample
func (s Sample) Min() float64 {
	if len(s) == 0 {
		return 0
	}
	m := s[0]
	for _, v := range s[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, or 0 for an empty sample
func (s Sample) Max() float64 {
	if len(s) == 0 {
		return 0
	}
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// validate rejects empty samples and samples holding NaN or ±Inf.
func validate(op string, s Sample) error {
	if len(s) == 0 {
		return InvalidInputf(op, "sample cannot be empty")
	}
	for i, v := range s {
		if !utils.IsFinite(v) {
			return InvalidInputf(op, "value at index %d is not finite", i)
		}
	}
	return nil
}

// SampleFromValues builds a Sample from loosely typed values such as a
// decoded JSON array. Any non-numeric element yields ErrTypeMismatch.
// An empty input is returned as an empty Sample; emptiness is reported by
// the operation that consumes it.
func SampleFromValues(values []interface{}) (Sample, error) {
	floats, bad := utils.ToFloat64s(values)
	if bad >= 0 {
		return nil, TypeMismatchf("sample", "element %d (%v) is not numeric", bad, values[bad])
	}
	return Sample(floats), nil
}

// NumberFromValue converts a loosely typed companion parameter, such as a
// hypothesized mean or a threshold, to float64.
func NumberFromValue(name string, v interface{}) (float64, error) {
	f, ok := utils.ToFloat64(v)
	if !ok {
		return 0, TypeMismatchf(name, "%v is not numeric", v)
	}
	if !utils.IsFinite(f) {
		return 0, InvalidInputf(name, "%v is not finite", f)
	}
	return f, nil
}
