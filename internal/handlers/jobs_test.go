package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_SubmitJob(t *testing.T) {
	h, q := newQueuedHandler(t, nil)
	app := newTestApp(h)

	received := make(chan models.SummaryJob, 1)
	require.NoError(t, q.Subscribe(h.cfg.Worker.JobsSubject, func(data []byte) error {
		var job models.SummaryJob
		if err := h.codec.Decode(data, &job); err != nil {
			return err
		}
		received <- job
		return nil
	}))

	resp := postJSON(t, app, "/v1/jobs", models.SummaryJob{Sample: []interface{}{1, 2, 3}, Threshold: 2})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, h.cfg.Worker.JobsSubject, body["subject"])

	select {
	case job := <-received:
		assert.Equal(t, body["id"], job.ID)
		assert.Len(t, job.Sample, 3)
		assert.Equal(t, 2.0, job.Threshold)
		assert.False(t, job.SubmittedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("job was not published")
	}
}

func TestHandler_SubmitJobKeepsID(t *testing.T) {
	h, _ := newQueuedHandler(t, nil)

	resp := postJSON(t, newTestApp(h), "/v1/jobs", models.SummaryJob{ID: "job-1", Page: 2, PerPage: 100})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "job-1", body["id"])
}

func TestHandler_SubmitJobWithoutQueue(t *testing.T) {
	resp := postJSON(t, newTestApp(newTestHandler()), "/v1/jobs", models.SummaryJob{ID: "job-1"})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandler_GetJobResult(t *testing.T) {
	stored := &models.SummaryResult{
		ID:          "job-1",
		Summary:     summary.Summary{Count: 3, Mean: 2, StdDev: 0.816496580927726, Median: 2},
		Outliers:    []float64{},
		ProcessedAt: time.Now().UTC(),
	}
	h, _ := newQueuedHandler(t, &fakeResults{results: map[string]*models.SummaryResult{"job-1": stored}})
	app := newTestApp(h)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/jobs/job-1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res models.SummaryResult
	decode(t, resp, &res)
	assert.Equal(t, "job-1", res.ID)
	assert.Equal(t, 3, res.Summary.Count)
	assert.False(t, res.Failed())

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/jobs/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandler_GetJobResultWithoutStore(t *testing.T) {
	resp, err := newTestApp(newTestHandler()).Test(httptest.NewRequest("GET", "/v1/jobs/job-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
