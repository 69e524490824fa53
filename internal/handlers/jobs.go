package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/services"
	"github.com/soltixdb/eda/internal/store"
)

// SubmitJob handles POST /v1/jobs. The job is encoded with the queue codec
// and published for the summary worker.
func (h *Handler) SubmitJob(c *fiber.Ctx) error {
	if h.queuePublisher == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "queue is not enabled")
	}

	var job models.SummaryJob
	if err := parseJSON(c, &job, false); err != nil {
		return err
	}
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	job.SubmittedAt = time.Now().UTC()

	data, err := h.codec.Encode(job)
	if err != nil {
		return services.NewServiceError(services.CodeInternalError, err.Error())
	}

	ctx := logging.WithJobID(c.UserContext(), job.ID)
	logger := h.logger.WithContext(ctx)

	subject := h.cfg.Worker.JobsSubject
	if err := h.queuePublisher.Publish(ctx, subject, data); err != nil {
		logger.Error("Failed to publish job", "subject", subject, "error", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "failed to queue job")
	}

	logger.Info("Job queued", "subject", subject, "bytes", len(data))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"id":      job.ID,
		"subject": subject,
	})
}

// GetJobResult handles GET /v1/jobs/:id from the result store
func (h *Handler) GetJobResult(c *fiber.Ctx) error {
	if h.results == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "result store is not enabled")
	}

	id := c.Params("id")
	res, err := h.results.GetResult(c.UserContext(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no result for job "+id)
	}
	if err != nil {
		return err
	}
	return c.JSON(res)
}
