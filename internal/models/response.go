package models

import "github.com/soltixdb/eda/internal/analytics/summary"

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Queue     string `json:"queue,omitempty"`
	Store     string `json:"store,omitempty"`
}

// PercentilesResponse represents the quartiles of a sample
type PercentilesResponse struct {
	summary.Percentiles
	IQR float64 `json:"iqr"`
}

// OutliersResponse represents IQR fences and the values outside them
type OutliersResponse struct {
	Fences   summary.Fences `json:"fences"`
	Outliers []float64      `json:"outliers"`
	Count    int            `json:"count"`
}

// SubsampleResponse represents a random subsample
type SubsampleResponse struct {
	Size   int       `json:"size"`
	Sample []float64 `json:"sample"`
}

// ExceedanceResponse represents the fraction of values above a threshold
type ExceedanceResponse struct {
	Threshold   float64 `json:"threshold"`
	Probability float64 `json:"probability"`
}

// GenerateResponse represents a generated sample and its summary
type GenerateResponse struct {
	Sample  []float64       `json:"sample"`
	Summary summary.Summary `json:"summary"`
	Stored  bool            `json:"stored,omitempty"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
