package models

// SampleRequest carries a loosely typed sample as decoded from JSON.
// Non-numeric entries are reported as a type mismatch, not dropped.
type SampleRequest struct {
	Sample []interface{} `json:"sample"`
}

// OutliersRequest requests IQR outliers. FenceMultiplier defaults to 1.5.
type OutliersRequest struct {
	Sample          []interface{} `json:"sample"`
	FenceMultiplier interface{}   `json:"fence_multiplier,omitempty"`
}

// SubsampleRequest requests a random subsample without replacement
type SubsampleRequest struct {
	Sample []interface{} `json:"sample"`
	Size   interface{}   `json:"size,omitempty"` // default: analysis.subsample_size
	Seed   uint64        `json:"seed,omitempty"` // 0 draws from the process-wide generator
}

// TTestRequest requests a one-sample t-test
type TTestRequest struct {
	Sample           []interface{} `json:"sample"`
	HypothesizedMean interface{}   `json:"hypothesized_mean,omitempty"` // default: analysis.hypothesized_mean
}

// ExceedanceRequest requests the fraction of values above a threshold
type ExceedanceRequest struct {
	Sample    []interface{} `json:"sample"`
	Threshold interface{}   `json:"threshold,omitempty"` // default: analysis.threshold
}

// GenerateRequest requests a synthetic normal sample.
// Missing fields fall back to the generator configuration.
type GenerateRequest struct {
	Size   interface{} `json:"size,omitempty"`
	Mean   interface{} `json:"mean,omitempty"`
	StdDev interface{} `json:"std_dev,omitempty"`
	Seed   uint64      `json:"seed,omitempty"`
}

// GenerateSampleRequest is the body of POST /v1/generate. Store also
// appends the generated values to the samples table read by paged jobs.
type GenerateSampleRequest struct {
	GenerateRequest
	Store bool `json:"store,omitempty"`
}

// HeightReportRequest overrides the height report parameters
type HeightReportRequest struct {
	GenerateRequest
	SubsampleSize    interface{} `json:"subsample_size,omitempty"`
	HypothesizedMean interface{} `json:"hypothesized_mean,omitempty"`
	Threshold        interface{} `json:"threshold,omitempty"`
	HistogramBins    interface{} `json:"histogram_bins,omitempty"`
	Publish          bool        `json:"publish,omitempty"` // also publish report and charts to the queue
}
