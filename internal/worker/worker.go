// Package worker consumes summary jobs from the queue, analyses their
// samples and publishes the results. Results are also saved to the result
// store when one is configured.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/compression"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/queue"
	"github.com/soltixdb/eda/internal/services"
)

// ResultStore is the part of the result store the worker needs
type ResultStore interface {
	SaveResult(ctx context.Context, r *models.SummaryResult) error
	FetchSample(ctx context.Context, page, perPage int) (summary.Sample, error)
}

// Stats counts processed jobs
type Stats struct {
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Worker runs summary jobs
type Worker struct {
	logger  *logging.Logger
	cfg     config.WorkerConfig
	queue   queue.Queue
	codec   *compression.Codec
	service *services.SummaryService
	store   ResultStore

	mu      sync.Mutex
	running bool

	processed atomic.Int64
	failed    atomic.Int64
}

// New creates a worker. store may be nil, in which case jobs must carry
// their sample and results are only published.
func New(
	logger *logging.Logger,
	cfg config.WorkerConfig,
	q queue.Queue,
	codec *compression.Codec,
	service *services.SummaryService,
	store ResultStore,
) *Worker {
	if codec == nil {
		codec = compression.DefaultCodec()
	}
	return &Worker{
		logger:  logger.With("component", "worker"),
		cfg:     cfg,
		queue:   q,
		codec:   codec,
		service: service,
		store:   store,
	}
}

// Start subscribes to the jobs subject
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("worker already running")
	}
	if err := w.queue.Subscribe(w.cfg.JobsSubject, w.handle); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", w.cfg.JobsSubject, err)
	}
	w.running = true

	w.logger.Info("Worker started",
		"jobs_subject", w.cfg.JobsSubject,
		"results_subject", w.cfg.ResultsSubject,
		"store", w.store != nil,
	)
	return nil
}

// Stop unsubscribes from the jobs subject
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false

	stats := w.Stats()
	w.logger.Info("Worker stopped", "processed", stats.Processed, "failed", stats.Failed)
	return w.queue.Unsubscribe(w.cfg.JobsSubject)
}

// Stats returns the job counters
func (w *Worker) Stats() Stats {
	return Stats{
		Processed: w.processed.Load(),
		Failed:    w.failed.Load(),
	}
}

// handle processes one queued message. Undecodable messages are dropped;
// delivery failures are returned so the backend can redeliver.
func (w *Worker) handle(data []byte) error {
	var job models.SummaryJob
	if err := w.codec.Decode(data, &job); err != nil {
		w.failed.Add(1)
		w.logger.Error("Dropping undecodable job", "bytes", len(data), "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
	defer cancel()

	result := w.Process(ctx, &job)
	return w.deliver(ctx, result)
}

// Process analyses one job. Failures are reported in the result's Error
// field rather than returned.
func (w *Worker) Process(ctx context.Context, job *models.SummaryJob) *models.SummaryResult {
	start := time.Now()
	ctx = logging.WithJobID(ctx, job.ID)
	logger := w.logger.WithContext(ctx)

	result, err := w.analyze(ctx, job)
	if err != nil {
		se := services.FromError(err)
		result = &models.SummaryResult{
			ID: job.ID,
			Error: &models.ErrorDetail{
				Code:    se.Code,
				Message: se.Message,
				Details: se.Details,
			},
		}
		w.failed.Add(1)
		logger.Warn("Job failed", "code", se.Code, "error", err)
	} else {
		w.processed.Add(1)
		logger.Debug("Job processed",
			"count", result.Summary.Count,
			"outliers", len(result.Outliers),
			"duration", time.Since(start),
		)
	}

	result.ProcessedAt = time.Now().UTC()
	return result
}

func (w *Worker) analyze(ctx context.Context, job *models.SummaryJob) (*models.SummaryResult, error) {
	if len(job.Sample) > 0 || w.store == nil {
		return w.service.Analyze(job)
	}

	sample, err := w.store.FetchSample(ctx, job.Page, job.PerPage)
	if err != nil {
		return nil, fmt.Errorf("fetch sample page %d: %w", job.Page, err)
	}
	return w.service.AnalyzeSample(job, sample)
}

// deliver publishes the result and saves it to the store
func (w *Worker) deliver(ctx context.Context, result *models.SummaryResult) error {
	data, err := w.codec.Encode(result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", result.ID, err)
	}
	if err := w.queue.Publish(ctx, w.cfg.ResultsSubject, data); err != nil {
		w.logger.Error("Failed to publish result", "job_id", result.ID, "error", err)
		return err
	}

	if w.store == nil {
		return nil
	}
	if err := w.store.SaveResult(ctx, result); err != nil {
		w.logger.Error("Failed to save result", "job_id", result.ID, "error", err)
		return err
	}
	return nil
}
