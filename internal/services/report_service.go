package services

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/dataset"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/report"
)

// ReportService builds the height and heart-disease reports and optionally
// publishes them
type ReportService struct {
	logger    *logging.Logger
	cfg       *config.Config
	publisher *report.Publisher
}

// NewReportService creates a new ReportService. publisher may be nil when
// queue publishing is disabled.
func NewReportService(logger *logging.Logger, cfg *config.Config, publisher *report.Publisher) *ReportService {
	return &ReportService{
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
	}
}

// Height runs the height report with req overriding the configured parameters
func (s *ReportService) Height(ctx context.Context, req *models.HeightReportRequest) (*report.HeightReport, error) {
	params, err := s.heightParams(req)
	if err != nil {
		return nil, wrapError(err)
	}

	var src rand.Source
	if req.Seed != 0 {
		src = rand.NewPCG(req.Seed, req.Seed)
	} else {
		src = s.cfg.Generator.Source()
	}

	r, err := report.Height(params, src)
	if err != nil {
		return nil, wrapError(err)
	}
	s.logger.Info("Height report built",
		"report_id", r.ID,
		"size", params.Size,
		"outliers", len(r.Outliers),
	)

	if req.Publish {
		if err := s.publish(ctx, r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Heart runs the heart report on CSV data read from body
func (s *ReportService) Heart(ctx context.Context, body io.Reader, bins int, publish bool) (*report.HeartReport, error) {
	t, err := dataset.ReadTable(body)
	if err != nil {
		return nil, wrapError(err)
	}
	return s.heart(ctx, t, bins, publish)
}

// HeartFromDataset runs the heart report on the configured dataset file
func (s *ReportService) HeartFromDataset(ctx context.Context, bins int, publish bool) (*report.HeartReport, error) {
	t, err := dataset.LoadTable(s.cfg.Heart.DatasetPath)
	if err != nil {
		return nil, wrapError(err)
	}
	return s.heart(ctx, t, bins, publish)
}

func (s *ReportService) heart(ctx context.Context, t *dataset.Table, bins int, publish bool) (*report.HeartReport, error) {
	if bins <= 0 {
		bins = s.cfg.Heart.HistogramBins
	}

	r, err := report.Heart(t, bins)
	if err != nil {
		return nil, wrapError(err)
	}
	s.logger.Info("Heart report built",
		"report_id", r.ID,
		"rows", r.Rows,
		"group", r.Comparison.Group,
	)

	if publish {
		if err := s.publish(ctx, r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (s *ReportService) publish(ctx context.Context, r report.Report) error {
	if s.publisher == nil {
		return NewServiceError(CodeInvalidInput, "report publishing is not enabled (queue.enabled is false)")
	}
	if err := s.publisher.Publish(ctx, r); err != nil {
		s.logger.Error("Failed to publish report", "report_id", r.ReportID(), "error", err)
		return NewServiceError(CodeInternalError, err.Error())
	}
	return nil
}

func (s *ReportService) heightParams(req *models.HeightReportRequest) (report.HeightParams, error) {
	p := report.HeightParamsFromConfig(s.cfg.Generator, s.cfg.Analysis)

	var err error
	if p.Size, err = intOr("size", req.Size, p.Size); err != nil {
		return p, err
	}
	if p.Mean, err = numberOr("mean", req.Mean, p.Mean); err != nil {
		return p, err
	}
	if p.StdDev, err = numberOr("std_dev", req.StdDev, p.StdDev); err != nil {
		return p, err
	}
	if p.SubsampleSize, err = intOr("subsample_size", req.SubsampleSize, p.SubsampleSize); err != nil {
		return p, err
	}
	if p.HypothesizedMean, err = numberOr("hypothesized_mean", req.HypothesizedMean, p.HypothesizedMean); err != nil {
		return p, err
	}
	if p.Threshold, err = numberOr("threshold", req.Threshold, p.Threshold); err != nil {
		return p, err
	}
	if p.HistogramBins, err = intOr("histogram_bins", req.HistogramBins, p.HistogramBins); err != nil {
		return p, err
	}
	return p, nil
}
