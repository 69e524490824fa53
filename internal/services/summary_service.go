package services

import (
	"math/rand/v2"

	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/dataset"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/utils"
)

// SummaryService runs the sample statistics for the HTTP API and the worker.
// Parameters missing from a request fall back to the analysis and generator
// configuration.
type SummaryService struct {
	logger    *logging.Logger
	analysis  config.AnalysisConfig
	generator config.GeneratorConfig
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(
	logger *logging.Logger,
	analysis config.AnalysisConfig,
	generator config.GeneratorConfig,
) *SummaryService {
	return &SummaryService{
		logger:    logger,
		analysis:  analysis,
		generator: generator,
	}
}

// Summarize returns the mean, population standard deviation and median
func (s *SummaryService) Summarize(req *models.SampleRequest) (summary.Summary, error) {
	sample, err := summary.SampleFromValues(req.Sample)
	if err != nil {
		return summary.Summary{}, wrapError(err)
	}
	result, err := summary.Summarize(sample)
	return result, wrapError(err)
}

// Percentiles returns the quartiles and the IQR
func (s *SummaryService) Percentiles(req *models.SampleRequest) (*models.PercentilesResponse, error) {
	sample, err := summary.SampleFromValues(req.Sample)
	if err != nil {
		return nil, wrapError(err)
	}
	p, err := summary.CalculatePercentiles(sample)
	if err != nil {
		return nil, wrapError(err)
	}
	return &models.PercentilesResponse{Percentiles: p, IQR: p.IQR()}, nil
}

// Outliers returns the IQR fences and the sorted values outside them
func (s *SummaryService) Outliers(req *models.OutliersRequest) (*models.OutliersResponse, error) {
	sample, err := summary.SampleFromValues(req.Sample)
	if err != nil {
		return nil, wrapError(err)
	}
	k, err := numberOr("fence_multiplier", req.FenceMultiplier, s.fenceMultiplier())
	if err != nil {
		return nil, wrapError(err)
	}
	return outliers(sample, k)
}

// Subsample draws a random subsample without replacement
func (s *SummaryService) Subsample(req *models.SubsampleRequest) (*models.SubsampleResponse, error) {
	sample, err := summary.SampleFromValues(req.Sample)
	if err != nil {
		return nil, wrapError(err)
	}
	size, err := intOr("size", req.Size, s.analysis.SubsampleSize)
	if err != nil {
		return nil, wrapError(err)
	}

	sub, err := summary.Subsample(sample, size, s.source(req.Seed))
	if err != nil {
		return nil, wrapError(err)
	}
	return &models.SubsampleResponse{Size: len(sub), Sample: sub}, nil
}

// TTest runs a one-sample t-test against the hypothesized mean
func (s *SummaryService) TTest(req *models.TTestRequest) (summary.TestResult, error) {
	sample, err := summary.SampleFromValues(req.Sample)
	if err != nil {
		return summary.TestResult{}, wrapError(err)
	}
	mean, err := numberOr("hypothesized_mean", req.HypothesizedMean, s.analysis.HypothesizedMean)
	if err != nil {
		return summary.TestResult{}, wrapError(err)
	}
	result, err := summary.OneSampleTTest(sample, mean)
	return result, wrapError(err)
}

// Exceedance returns the fraction of values strictly above the threshold
func (s *SummaryService) Exceedance(req *models.ExceedanceRequest) (*models.ExceedanceResponse, error) {
	sample, err := summary.SampleFromValues(req.Sample)
	if err != nil {
		return nil, wrapError(err)
	}
	threshold, err := numberOr("threshold", req.Threshold, s.analysis.Threshold)
	if err != nil {
		return nil, wrapError(err)
	}
	return exceedance(sample, threshold)
}

// Generate draws a normal sample and summarizes it
func (s *SummaryService) Generate(req *models.GenerateRequest) (*models.GenerateResponse, error) {
	size := req.Size
	if size == nil {
		size = s.generator.Size
	}
	mean := req.Mean
	if mean == nil {
		mean = s.generator.Mean
	}
	stdDev := req.StdDev
	if stdDev == nil {
		stdDev = s.generator.StdDev
	}

	sample, err := dataset.GenerateFromValues(size, mean, stdDev, s.source(req.Seed))
	if err != nil {
		return nil, wrapError(err)
	}
	sum, err := summary.Summarize(sample)
	if err != nil {
		return nil, wrapError(err)
	}

	s.logger.Debug("Sample generated", "size", len(sample), "mean", sum.Mean)
	return &models.GenerateResponse{Sample: sample, Summary: sum}, nil
}

// Analyze converts the job's sample and runs AnalyzeSample on it
func (s *SummaryService) Analyze(job *models.SummaryJob) (*models.SummaryResult, error) {
	sample, err := summary.SampleFromValues(job.Sample)
	if err != nil {
		return nil, wrapError(err)
	}
	return s.AnalyzeSample(job, sample)
}

// AnalyzeSample runs every statistic on sample using the job's parameters.
// The t-test is skipped for samples of one value, where it is undefined.
func (s *SummaryService) AnalyzeSample(job *models.SummaryJob, sample summary.Sample) (*models.SummaryResult, error) {
	hypothesized, err := numberOr("hypothesized_mean", job.HypothesizedMean, s.analysis.HypothesizedMean)
	if err != nil {
		return nil, wrapError(err)
	}
	threshold, err := numberOr("threshold", job.Threshold, s.analysis.Threshold)
	if err != nil {
		return nil, wrapError(err)
	}
	k, err := numberOr("fence_multiplier", job.FenceMultiplier, s.fenceMultiplier())
	if err != nil {
		return nil, wrapError(err)
	}

	result := &models.SummaryResult{ID: job.ID}
	if result.Summary, err = summary.Summarize(sample); err != nil {
		return nil, wrapError(err)
	}
	if result.Percentiles, err = summary.CalculatePercentiles(sample); err != nil {
		return nil, wrapError(err)
	}
	out, err := outliers(sample, k)
	if err != nil {
		return nil, err
	}
	result.Fences, result.Outliers = out.Fences, out.Outliers

	if len(sample) > 1 {
		tt, err := summary.OneSampleTTest(sample, hypothesized)
		if err != nil {
			return nil, wrapError(err)
		}
		result.TTest = &tt
	}
	if result.Exceedance, err = exceedance(sample, threshold); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SummaryService) fenceMultiplier() float64 {
	if s.analysis.FenceMultiplier > 0 {
		return s.analysis.FenceMultiplier
	}
	return summary.DefaultFenceMultiplier
}

// source returns a source seeded with seed, or the configured generator
// source when seed is 0
func (s *SummaryService) source(seed uint64) rand.Source {
	if seed != 0 {
		return rand.NewPCG(seed, seed)
	}
	return s.generator.Source()
}

func outliers(sample summary.Sample, k float64) (*models.OutliersResponse, error) {
	fences, err := summary.IQRFencesWithMultiplier(sample, k)
	if err != nil {
		return nil, wrapError(err)
	}
	values, err := summary.OutliersWithMultiplier(sample, k)
	if err != nil {
		return nil, wrapError(err)
	}
	if values == nil {
		values = []float64{}
	}
	return &models.OutliersResponse{Fences: fences, Outliers: values, Count: len(values)}, nil
}

func exceedance(sample summary.Sample, threshold float64) (*models.ExceedanceResponse, error) {
	p, err := summary.ExceedanceProbability(sample, threshold)
	if err != nil {
		return nil, wrapError(err)
	}
	return &models.ExceedanceResponse{Threshold: threshold, Probability: p}, nil
}

// numberOr converts v, or returns def when v is absent
func numberOr(name string, v interface{}, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	return summary.NumberFromValue(name, v)
}

// intOr converts v to a whole number, or returns def when v is absent
func intOr(name string, v interface{}, def int) (int, error) {
	if v == nil {
		return def, nil
	}
	n, ok := utils.ToInt(v)
	if !ok {
		return 0, summary.TypeMismatchf(name, "%v is not a whole number", v)
	}
	return n, nil
}
