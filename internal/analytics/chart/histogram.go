package chart

import (
	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/utils"
)

// Histogram holds equal-width bin edges and the count of values per bin.
// len(Edges) == len(Counts)+1. Every bin is half-open except the last,
// which includes its right edge, so the counts always sum to the sample size.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// Bins returns the number of bins
func (h *Histogram) Bins() int {
	return len(h.Counts)
}

// Total returns the number of values counted
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// NewHistogram bins the sample over [min, max] into bins equal-width bins.
// A sample with a single distinct value is binned over [v-0.5, v+0.5].
func NewHistogram(sample summary.Sample, bins int) (*Histogram, error) {
	if bins <= 0 {
		return nil, invalid("histogram", "bins must be positive, got %d", bins)
	}
	if len(sample) == 0 {
		return nil, invalid("histogram", "sample cannot be empty")
	}
	for i, v := range sample {
		if !utils.IsFinite(v) {
			return nil, invalid("histogram", "value at index %d is not finite", i)
		}
	}

	lo, hi := sample.Min(), sample.Max()
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := make([]float64, bins+1)
	step := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[bins] = hi

	counts := make([]int, bins)
	norm := float64(bins) / (hi - lo)
	for _, v := range sample {
		counts[binIndex(edges, v, norm)]++
	}

	return &Histogram{Edges: edges, Counts: counts}, nil
}

// binIndex estimates the bin from the value's offset and then corrects the
// estimate against the stored edges, which absorbs rounding in the division.
func binIndex(edges []float64, v, norm float64) int {
	n := len(edges) - 1
	idx := int((v - edges[0]) * norm)
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	if idx > 0 && v < edges[idx] {
		idx--
	}
	if idx < n-1 && v >= edges[idx+1] {
		idx++
	}
	return idx
}
