package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/compression"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/queue"
	"github.com/soltixdb/eda/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-process ResultStore
type memoryStore struct {
	mu      sync.Mutex
	sample  summary.Sample
	saved   map[string]*models.SummaryResult
	saveErr error
	pages   []int
}

func newMemoryStore(sample ...float64) *memoryStore {
	return &memoryStore{sample: sample, saved: make(map[string]*models.SummaryResult)}
}

func (m *memoryStore) SaveResult(ctx context.Context, r *models.SummaryResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[r.ID] = r
	return nil
}

func (m *memoryStore) FetchSample(ctx context.Context, page, perPage int) (summary.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = append(m.pages, page)
	return m.sample, nil
}

func (m *memoryStore) result(id string) *models.SummaryResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[id]
}

func newTestWorker(t *testing.T, store ResultStore) (*Worker, queue.Queue) {
	t.Helper()
	q, err := queue.NewQueue(config.QueueConfig{Type: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })

	cfg := config.DefaultConfig()
	svc := services.NewSummaryService(logging.NewNop(), cfg.Analysis, cfg.Generator)
	return New(logging.NewNop(), cfg.Worker, q, compression.DefaultCodec(), svc, store), q
}

func TestWorker_Process(t *testing.T) {
	w, _ := newTestWorker(t, nil)

	result := w.Process(context.Background(), &models.SummaryJob{
		ID:               "job-1",
		Sample:           []interface{}{10, 12, 23, 23, 16, 23, 21, 16},
		HypothesizedMean: 18,
		Threshold:        20,
	})

	require.False(t, result.Failed())
	assert.Equal(t, "job-1", result.ID)
	assert.Equal(t, 8, result.Summary.Count)
	assert.InDelta(t, 18.0, result.Summary.Mean, 1e-12)
	assert.InDelta(t, 23.0, result.Percentiles.P75, 1e-12)
	assert.Empty(t, result.Outliers)
	require.NotNil(t, result.TTest)
	assert.InDelta(t, 0.0, result.TTest.Statistic, 1e-12)
	require.NotNil(t, result.Exceedance)
	assert.Equal(t, 0.5, result.Exceedance.Probability)
	assert.False(t, result.ProcessedAt.IsZero())
	assert.Equal(t, Stats{Processed: 1}, w.Stats())
}

func TestWorker_ProcessSingleValueSkipsTTest(t *testing.T) {
	w, _ := newTestWorker(t, nil)

	result := w.Process(context.Background(), &models.SummaryJob{ID: "job-1", Sample: []interface{}{7}})
	require.False(t, result.Failed())
	assert.Nil(t, result.TTest)
	assert.Equal(t, 7.0, result.Summary.Median)
}

func TestWorker_ProcessFailures(t *testing.T) {
	w, _ := newTestWorker(t, nil)

	tests := []struct {
		name string
		job  models.SummaryJob
		code string
	}{
		{"empty sample", models.SummaryJob{ID: "a"}, services.CodeInvalidInput},
		{"non-numeric sample", models.SummaryJob{ID: "b", Sample: []interface{}{1, "x"}}, services.CodeTypeMismatch},
		{"non-numeric threshold", models.SummaryJob{ID: "c", Sample: []interface{}{1, 2}, Threshold: "high"}, services.CodeTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := w.Process(context.Background(), &tt.job)
			require.True(t, result.Failed())
			assert.Equal(t, tt.job.ID, result.ID)
			assert.Equal(t, tt.code, result.Error.Code)
			assert.NotEmpty(t, result.Error.Message)
		})
	}
	assert.Equal(t, int64(3), w.Stats().Failed)
}

func TestWorker_ProcessFetchesSampleFromStore(t *testing.T) {
	store := newMemoryStore(1, 2, 3, 4, 100)
	w, _ := newTestWorker(t, store)

	result := w.Process(context.Background(), &models.SummaryJob{ID: "job-1", Page: 3, PerPage: 5})
	require.False(t, result.Failed())
	assert.Equal(t, 5, result.Summary.Count)
	assert.Equal(t, []float64{100}, result.Outliers)
	assert.Equal(t, []int{3}, store.pages)

	// An inline sample takes precedence over the store
	result = w.Process(context.Background(), &models.SummaryJob{ID: "job-2", Sample: []interface{}{1, 2}})
	require.False(t, result.Failed())
	assert.Equal(t, 2, result.Summary.Count)
	assert.Len(t, store.pages, 1)
}

func TestWorker_EndToEnd(t *testing.T) {
	store := newMemoryStore()
	w, q := newTestWorker(t, store)

	results := make(chan *models.SummaryResult, 2)
	require.NoError(t, q.Subscribe(w.cfg.ResultsSubject, func(data []byte) error {
		var r models.SummaryResult
		if err := w.codec.Decode(data, &r); err != nil {
			return err
		}
		results <- &r
		return nil
	}))

	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	for _, job := range []models.SummaryJob{
		{ID: "ok", Sample: []interface{}{1, 2, 3}},
		{ID: "bad", Sample: []interface{}{"one"}},
	} {
		data, err := w.codec.Encode(job)
		require.NoError(t, err)
		require.NoError(t, q.Publish(context.Background(), w.cfg.JobsSubject, data))
	}

	got := make(map[string]*models.SummaryResult)
	for len(got) < 2 {
		select {
		case r := <-results:
			got[r.ID] = r
		case <-time.After(2 * time.Second):
			t.Fatalf("received %d of 2 results", len(got))
		}
	}

	assert.False(t, got["ok"].Failed())
	assert.Equal(t, 2.0, got["ok"].Summary.Mean)
	assert.True(t, got["bad"].Failed())
	assert.Equal(t, services.CodeTypeMismatch, got["bad"].Error.Code)

	assert.Eventually(t, func() bool {
		return store.result("ok") != nil && store.result("bad") != nil
	}, time.Second, 10*time.Millisecond)
}

func TestWorker_StartTwice(t *testing.T) {
	w, _ := newTestWorker(t, nil)

	require.NoError(t, w.Start())
	assert.Error(t, w.Start())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWorker_HandleDropsUndecodable(t *testing.T) {
	w, _ := newTestWorker(t, nil)

	assert.NoError(t, w.handle([]byte{0xff, 0x01, 0x02}))
	assert.Equal(t, int64(1), w.Stats().Failed)
}

func TestWorker_HandleReturnsSaveError(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("connection reset")
	w, _ := newTestWorker(t, store)

	data, err := w.codec.Encode(models.SummaryJob{ID: "job-1", Sample: []interface{}{1, 2, 3}})
	require.NoError(t, err)

	err = w.handle(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
