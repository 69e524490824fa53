package models

import (
	"time"

	"github.com/soltixdb/eda/internal/analytics/summary"
)

// SummaryJob is a unit of work consumed by the summary worker.
//
// When Sample is empty and the worker has a result store, the sample is read
// from the store's samples table using Page and PerPage.
type SummaryJob struct {
	ID               string        `json:"id"`
	Sample           []interface{} `json:"sample,omitempty"`
	Page             int           `json:"page,omitempty"`
	PerPage          int           `json:"per_page,omitempty"`
	HypothesizedMean interface{}   `json:"hypothesized_mean,omitempty"`
	Threshold        interface{}   `json:"threshold,omitempty"`
	FenceMultiplier  interface{}   `json:"fence_multiplier,omitempty"`
	SubmittedAt      time.Time     `json:"submitted_at,omitempty"`
}

// SummaryResult is the full analysis of one sample.
// On failure only ID, Error and ProcessedAt are set.
type SummaryResult struct {
	ID          string              `json:"id"`
	Summary     summary.Summary     `json:"summary"`
	Percentiles summary.Percentiles `json:"percentiles"`
	Fences      summary.Fences      `json:"fences"`
	Outliers    []float64           `json:"outliers"`
	TTest       *summary.TestResult `json:"t_test,omitempty"`
	Exceedance  *ExceedanceResponse `json:"exceedance,omitempty"`
	Error       *ErrorDetail        `json:"error,omitempty"`
	ProcessedAt time.Time           `json:"processed_at"`
}

// Failed reports whether the job could not be analysed
func (r *SummaryResult) Failed() bool {
	return r.Error != nil
}
