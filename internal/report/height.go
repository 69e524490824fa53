package report

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/soltixdb/eda/internal/analytics/chart"
	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/dataset"
)

// DefaultHeightBins is the histogram bin count of the height report
const DefaultHeightBins = 8

// HeightParams configures the height report
type HeightParams struct {
	Size             int     `json:"size"`
	Mean             float64 `json:"mean"`
	StdDev           float64 `json:"std_dev"`
	SubsampleSize    int     `json:"subsample_size"`
	HypothesizedMean float64 `json:"hypothesized_mean"`
	Threshold        float64 `json:"threshold"`
	HistogramBins    int     `json:"histogram_bins"`
}

// DefaultHeightParams returns 1000 heights ~ N(170, 10), a 50 value
// subsample, a t-test against 170 and the exceedance over 180.
func DefaultHeightParams() HeightParams {
	return HeightParams{
		Size:             dataset.DefaultSize,
		Mean:             dataset.DefaultMean,
		StdDev:           dataset.DefaultStdDev,
		SubsampleSize:    summary.DefaultSubsampleSize,
		HypothesizedMean: dataset.DefaultMean,
		Threshold:        180,
		HistogramBins:    DefaultHeightBins,
	}
}

// HeightParamsFromConfig builds parameters from the generator and analysis sections
func HeightParamsFromConfig(gen config.GeneratorConfig, analysis config.AnalysisConfig) HeightParams {
	return HeightParams{
		Size:             gen.Size,
		Mean:             gen.Mean,
		StdDev:           gen.StdDev,
		SubsampleSize:    analysis.SubsampleSize,
		HypothesizedMean: analysis.HypothesizedMean,
		Threshold:        analysis.Threshold,
		HistogramBins:    analysis.HistogramBins,
	}
}

// HeightReport is the full analysis of one generated height sample
type HeightReport struct {
	ID          string              `json:"id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Params      HeightParams        `json:"params"`
	Sample      summary.Sample      `json:"sample"`
	Summary     summary.Summary     `json:"summary"`
	Histogram   *chart.Histogram    `json:"histogram"`
	Percentiles summary.Percentiles `json:"percentiles"`
	Fences      summary.Fences      `json:"fences"`
	Outliers    []float64           `json:"outliers"`
	Subsample   summary.Sample      `json:"subsample"`
	TTest       summary.TestResult  `json:"t_test"`
	Exceedance  float64             `json:"exceedance"`
}

// Height generates a sample with params and runs every analysis on it.
// src seeds both the generator and the subsample; nil uses the process-wide
// generator.
func Height(params HeightParams, src rand.Source) (*HeightReport, error) {
	sample, err := dataset.GenerateNormal(params.Size, params.Mean, params.StdDev, src)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return HeightFromSample(params, sample, src)
}

// HeightFromSample runs the height analyses on an existing sample.
// params.Size, Mean and StdDev are informational here.
func HeightFromSample(params HeightParams, sample summary.Sample, src rand.Source) (*HeightReport, error) {
	r := &HeightReport{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Params:      params,
		Sample:      sample,
	}

	var err error
	if r.Summary, err = summary.Summarize(sample); err != nil {
		return nil, err
	}
	if r.Histogram, err = chart.NewHistogram(sample, params.HistogramBins); err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	if r.Percentiles, err = summary.CalculatePercentiles(sample); err != nil {
		return nil, err
	}
	if r.Fences, err = summary.IQRFences(sample); err != nil {
		return nil, err
	}
	if r.Outliers, err = summary.Outliers(sample); err != nil {
		return nil, err
	}
	if r.Subsample, err = summary.Subsample(sample, params.SubsampleSize, src); err != nil {
		return nil, err
	}
	if r.TTest, err = summary.OneSampleTTest(sample, params.HypothesizedMean); err != nil {
		return nil, err
	}
	if r.Exceedance, err = summary.ExceedanceProbability(sample, params.Threshold); err != nil {
		return nil, err
	}
	return r, nil
}

// ReportID implements Report
func (r *HeightReport) ReportID() string { return r.ID }

// Kind implements Report
func (r *HeightReport) Kind() string { return KindHeight }

// Charts returns the height histogram
func (r *HeightReport) Charts() []chart.Chart {
	return []chart.Chart{{
		ID:        r.ID + "-histogram",
		Kind:      chart.KindHistogram,
		Title:     "Histogram of Height",
		XLabel:    "Height [cm]",
		YLabel:    "Count",
		Histogram: r.Histogram,
	}}
}

// WriteText prints the report in plain text
func (r *HeightReport) WriteText(w io.Writer) error {
	p := &printer{w: w}

	p.println("Statistics:")
	p.printf("Mean:  %v\n", r.Summary.Mean)
	p.printf("Standard Deviation:  %v\n", r.Summary.StdDev)
	p.printf("Median:  %v\n", r.Summary.Median)

	if r.Histogram != nil {
		p.printf("\nHistogram of Height (%d bins):\n", r.Histogram.Bins())
		for i, count := range r.Histogram.Counts {
			closing := ")"
			if i == len(r.Histogram.Counts)-1 {
				closing = "]"
			}
			p.printf("[%.2f, %.2f%s  %d\n", r.Histogram.Edges[i], r.Histogram.Edges[i+1], closing, count)
		}
	}

	p.println("\nPercentiles:")
	p.printf("25th percentile:  %v\n", r.Percentiles.P25)
	p.printf("50th percentile:  %v\n", r.Percentiles.P50)
	p.printf("75th percentile:  %v\n", r.Percentiles.P75)

	p.println("\nOutliers:")
	p.println(formatList(r.Outliers))

	p.println("\nRandom Sampling:")
	p.println(formatList(r.Subsample))

	p.println("\nHypothesis Testing:")
	p.printf("T-statistic:  %v\n", r.TTest.Statistic)
	p.printf("Probability-value:  %v\n", r.TTest.PValue)

	p.println("\nCalculate Probability:")
	p.printf("%v\n", r.Exceedance)

	return p.err
}
