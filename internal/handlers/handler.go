package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/eda/internal/compression"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/queue"
	"github.com/soltixdb/eda/internal/report"
	"github.com/soltixdb/eda/internal/services"
)

// ResultReader looks up stored worker results
type ResultReader interface {
	GetResult(ctx context.Context, id string) (*models.SummaryResult, error)
	Ping(ctx context.Context) error
}

// SampleWriter is implemented by result stores that also hold the samples
// table
type SampleWriter interface {
	InsertSample(ctx context.Context, values []float64) error
}

// Handler contains all HTTP handlers
type Handler struct {
	logger         *logging.Logger
	cfg            *config.Config
	queuePublisher queue.Publisher
	codec          *compression.Codec
	results        ResultReader
	// Services
	summaryService *services.SummaryService
	reportService  *services.ReportService
}

// New creates a new handler instance. queuePublisher and results may be nil
// when the queue or the result store is not configured.
func New(logger *logging.Logger, cfg *config.Config, queuePublisher queue.Publisher, codec *compression.Codec, results ResultReader) *Handler {
	if codec == nil {
		codec = compression.DefaultCodec()
	}

	var reportPublisher *report.Publisher
	if queuePublisher != nil {
		reportPublisher = report.NewPublisher(queuePublisher, codec, logger)
	}

	return &Handler{
		logger:         logger,
		cfg:            cfg,
		queuePublisher: queuePublisher,
		codec:          codec,
		results:        results,
		summaryService: services.NewSummaryService(logger, cfg.Analysis, cfg.Generator),
		reportService:  services.NewReportService(logger, cfg, reportPublisher),
	}
}

// parseJSON decodes the request body into v. An empty body leaves v untouched
// when allowEmpty is set.
func parseJSON(c *fiber.Ctx, v interface{}, allowEmpty bool) error {
	if len(c.Body()) == 0 {
		if allowEmpty {
			return nil
		}
		return fiber.NewError(fiber.StatusBadRequest, "request body is required")
	}
	if err := c.BodyParser(v); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	return nil
}
