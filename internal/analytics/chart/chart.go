// Package chart turns samples into ready-to-draw chart data. Rendering is
// left to whatever consumes a Sink.
package chart

import (
	"fmt"

	"github.com/soltixdb/eda/internal/analytics/summary"
)

// Kind identifies the chart payload carried by a Chart
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindBoxPlot   Kind = "boxplot"
	KindCrossTab  Kind = "crosstab"
)

// Chart is one figure's worth of data plus its labels.
// Exactly one of Histogram, BoxPlots or CrossTab is set, matching Kind.
type Chart struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`

	Histogram *Histogram `json:"histogram,omitempty"`
	BoxPlots  []BoxPlot  `json:"box_plots,omitempty"`
	CrossTab  *CrossTab  `json:"cross_tab,omitempty"`
}

// Validate checks that the payload matches Kind
func (c Chart) Validate() error {
	switch c.Kind {
	case KindHistogram:
		if c.Histogram == nil {
			return fmt.Errorf("chart %q: histogram payload missing", c.Title)
		}
	case KindBoxPlot:
		if len(c.BoxPlots) == 0 {
			return fmt.Errorf("chart %q: box plot payload missing", c.Title)
		}
	case KindCrossTab:
		if c.CrossTab == nil {
			return fmt.Errorf("chart %q: cross tab payload missing", c.Title)
		}
	default:
		return fmt.Errorf("chart %q: unknown kind %q", c.Title, c.Kind)
	}
	return nil
}

func invalid(op, format string, args ...interface{}) error {
	return summary.InvalidInputf(op, format, args...)
}
