package chart

import (
	"github.com/soltixdb/eda/internal/analytics/summary"
)

// BoxPlot holds the five-number summary of a labelled group together with
// whisker ends and outliers under the 1.5·IQR rule.
type BoxPlot struct {
	Label        string    `json:"label"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// NewBoxPlot computes box statistics for one group.
// Whiskers end at the most extreme values still inside the fences.
func NewBoxPlot(label string, sample summary.Sample) (BoxPlot, error) {
	fences, err := summary.IQRFences(sample)
	if err != nil {
		return BoxPlot{}, err
	}
	q, err := summary.CalculatePercentiles(sample)
	if err != nil {
		return BoxPlot{}, err
	}

	sorted := sample.Sorted()
	box := BoxPlot{
		Label:        label,
		Count:        len(sorted),
		Min:          sorted[0],
		Q1:           q.P25,
		Median:       q.P50,
		Q3:           q.P75,
		Max:          sorted[len(sorted)-1],
		LowerWhisker: q.P25,
		UpperWhisker: q.P75,
		Outliers:     make([]float64, 0),
	}

	// sorted is ascending, so the first in-fence value is the lower whisker
	// and the last one the upper whisker.
	seenInside := false
	for _, v := range sorted {
		if !fences.Contains(v) {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		if !seenInside {
			box.LowerWhisker = v
			seenInside = true
		}
		box.UpperWhisker = v
	}

	return box, nil
}
