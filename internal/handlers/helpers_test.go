package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/middleware"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/queue"
	"github.com/soltixdb/eda/internal/store"
	"github.com/stretchr/testify/require"
)

const heartCSV = `Age,Sex,Disease,Serum cholesterol in mg/dl,Maximum heart rate achieved,Exercise induced angina
63,male,True,233,150,No
67,male,True,286,108,Yes
67,male,True,229,129,Yes
37,male,False,250,187,No
41,female,False,204,172,No
56,male,False,236,178,No
62,female,True,268,160,No
57,female,False,354,163,Yes
`

// fakeResults is an in-memory ResultReader
type fakeResults struct {
	results   map[string]*models.SummaryResult
	pingErr   error
	inserted  [][]float64
	insertErr error
}

func (f *fakeResults) InsertSample(ctx context.Context, values []float64) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, values)
	return nil
}

func (f *fakeResults) GetResult(ctx context.Context, id string) (*models.SummaryResult, error) {
	if r, ok := f.results[id]; ok {
		return r, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeResults) Ping(ctx context.Context) error {
	return f.pingErr
}

// newTestApp wires h the way the router does, without auth
func newTestApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logging.NewNop()),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Get("/health", h.Health)

	v1 := app.Group("/v1")
	v1.Post("/summary", h.Summarize)
	v1.Post("/percentiles", h.Percentiles)
	v1.Post("/outliers", h.Outliers)
	v1.Post("/subsample", h.Subsample)
	v1.Post("/ttest", h.TTest)
	v1.Post("/exceedance", h.Exceedance)
	v1.Post("/generate", h.Generate)
	v1.Post("/reports/height", h.HeightReport)
	v1.Post("/reports/heart", h.HeartReport)
	v1.Get("/reports/heart", h.HeartReportDataset)
	v1.Post("/jobs", h.SubmitJob)
	v1.Get("/jobs/:id", h.GetJobResult)

	app.Use(h.NotFound)
	return app
}

// newTestHandler returns a handler without queue or store
func newTestHandler() *Handler {
	return New(logging.NewNop(), config.DefaultConfig(), nil, nil, nil)
}

// newQueuedHandler returns a handler publishing to an in-memory queue
func newQueuedHandler(t *testing.T, results ResultReader) (*Handler, *queue.MemoryQueue) {
	t.Helper()
	q, err := queue.NewQueue(config.QueueConfig{Type: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })

	cfg := config.DefaultConfig()
	cfg.Queue.Enabled = true
	return New(logging.NewNop(), cfg, q, nil, results), q.(*queue.MemoryQueue)
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest("POST", path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
