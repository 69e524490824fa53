// Package store persists worker summary results in Postgres and serves
// stored samples back to the worker.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/models"
)

func storeLog() *logging.Logger { return logging.Global().With("component", "store.postgres") }

// ErrNotFound is returned when no result exists for an ID
var ErrNotFound = errors.New("result not found")

const schema = `
CREATE TABLE IF NOT EXISTS samples (
  id    BIGSERIAL PRIMARY KEY,
  value DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS summary_results (
  id             TEXT PRIMARY KEY,
  count          INTEGER NOT NULL DEFAULT 0,
  mean           DOUBLE PRECISION,
  std_dev        DOUBLE PRECISION,
  median         DOUBLE PRECISION,
  p25            DOUBLE PRECISION,
  p50            DOUBLE PRECISION,
  p75            DOUBLE PRECISION,
  lower_fence    DOUBLE PRECISION,
  upper_fence    DOUBLE PRECISION,
  fence_mult     DOUBLE PRECISION,
  outliers       DOUBLE PRECISION[],
  t_statistic    DOUBLE PRECISION,
  p_value        DOUBLE PRECISION,
  threshold      DOUBLE PRECISION,
  exceedance     DOUBLE PRECISION,
  error_code     TEXT,
  error_message  TEXT,
  processed_at   TIMESTAMPTZ NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

ALTER TABLE summary_results ADD COLUMN IF NOT EXISTS fence_mult DOUBLE PRECISION;`

// Postgres is the result store backed by lib/pq
type Postgres struct {
	db *sql.DB
}

// Open connects using cfg and verifies the connection
func Open(ctx context.Context, cfg config.PostgresConfig) (*Postgres, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres at %s: %w", cfg.Redacted(), err)
	}

	storeLog().Info("Connected to postgres", "dsn", cfg.Redacted())
	return New(db), nil
}

// New wraps an open database handle
func New(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the samples and summary_results tables if missing
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Ping checks the connection
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the underlying database handle
func (p *Postgres) Close() error {
	return p.db.Close()
}

// SaveResult inserts or replaces the result with the same ID
func (p *Postgres) SaveResult(ctx context.Context, r *models.SummaryResult) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("result ID is required")
	}

	const q = `
INSERT INTO summary_results
  (id, count, mean, std_dev, median, p25, p50, p75, lower_fence, upper_fence, outliers,
   t_statistic, p_value, threshold, exceedance, error_code, error_message, processed_at,
   fence_mult)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
ON CONFLICT (id) DO UPDATE SET
  count = EXCLUDED.count, mean = EXCLUDED.mean, std_dev = EXCLUDED.std_dev,
  median = EXCLUDED.median, p25 = EXCLUDED.p25, p50 = EXCLUDED.p50, p75 = EXCLUDED.p75,
  lower_fence = EXCLUDED.lower_fence, upper_fence = EXCLUDED.upper_fence,
  fence_mult = EXCLUDED.fence_mult, outliers = EXCLUDED.outliers, t_statistic = EXCLUDED.t_statistic,
  p_value = EXCLUDED.p_value, threshold = EXCLUDED.threshold,
  exceedance = EXCLUDED.exceedance, error_code = EXCLUDED.error_code,
  error_message = EXCLUDED.error_message, processed_at = EXCLUDED.processed_at,
  updated_at = NOW()
`
	var tStat, pValue, threshold, exceedance sql.NullFloat64
	if r.TTest != nil {
		tStat = nullFloat(r.TTest.Statistic)
		pValue = nullFloat(r.TTest.PValue)
	}
	if r.Exceedance != nil {
		threshold = nullFloat(r.Exceedance.Threshold)
		exceedance = nullFloat(r.Exceedance.Probability)
	}
	var errCode, errMessage sql.NullString
	if r.Error != nil {
		errCode = sql.NullString{String: r.Error.Code, Valid: true}
		errMessage = sql.NullString{String: r.Error.Message, Valid: true}
	}

	_, err := p.db.ExecContext(ctx, q,
		r.ID, r.Summary.Count,
		r.Summary.Mean, r.Summary.StdDev, r.Summary.Median,
		r.Percentiles.P25, r.Percentiles.P50, r.Percentiles.P75,
		r.Fences.Lower, r.Fences.Upper, pq.Array(r.Outliers),
		tStat, pValue, threshold, exceedance,
		errCode, errMessage, r.ProcessedAt,
		nullFloat(r.Fences.Multiplier),
	)
	if err != nil {
		return fmt.Errorf("failed to save result %s: %w", r.ID, err)
	}
	return nil
}

// GetResult loads a stored result by ID
func (p *Postgres) GetResult(ctx context.Context, id string) (*models.SummaryResult, error) {
	const q = `
SELECT count, mean, std_dev, median, p25, p50, p75, lower_fence, upper_fence, outliers,
       t_statistic, p_value, threshold, exceedance, error_code, error_message, processed_at,
       fence_mult
FROM summary_results
WHERE id = $1`

	r := &models.SummaryResult{ID: id}
	var mean, stdDev, median, p25, p50, p75, lower, upper, mult sql.NullFloat64
	var tStat, pValue, threshold, exceedance sql.NullFloat64
	var errCode, errMessage sql.NullString
	var outliers pq.Float64Array

	err := p.db.QueryRowContext(ctx, q, id).Scan(
		&r.Summary.Count, &mean, &stdDev, &median, &p25, &p50, &p75, &lower, &upper, &outliers,
		&tStat, &pValue, &threshold, &exceedance, &errCode, &errMessage, &r.ProcessedAt,
		&mult,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load result %s: %w", id, err)
	}

	r.Summary.Mean, r.Summary.StdDev, r.Summary.Median = mean.Float64, stdDev.Float64, median.Float64
	r.Percentiles = summary.Percentiles{P25: p25.Float64, P50: p50.Float64, P75: p75.Float64}
	r.Fences = storedFences(r.Percentiles, lower.Float64, upper.Float64, mult)
	r.Outliers = []float64(outliers)
	if tStat.Valid {
		r.TTest = &summary.TestResult{Statistic: tStat.Float64, PValue: pValue.Float64}
		if r.Summary.Count > 1 {
			r.TTest.DegreesOfFreedom = float64(r.Summary.Count - 1)
		}
	}
	if exceedance.Valid {
		r.Exceedance = &models.ExceedanceResponse{Threshold: threshold.Float64, Probability: exceedance.Float64}
	}
	if errCode.Valid {
		r.Error = &models.ErrorDetail{Code: errCode.String, Message: errMessage.String}
	}
	return r, nil
}

// FetchSample reads one page of the samples table in insertion order.
// NULL values are skipped.
func (p *Postgres) FetchSample(ctx context.Context, page, perPage int) (summary.Sample, error) {
	limit, offset := windowLimitOffset(page, perPage)

	rows, err := p.db.QueryContext(ctx, "SELECT value FROM samples ORDER BY id ASC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make(summary.Sample, 0, limit)
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v.Valid {
			values = append(values, v.Float64)
		}
	}
	return values, rows.Err()
}

// storedFences rebuilds Fences from a row. Rows written before the
// multiplier column existed derive it from the lower fence.
func storedFences(p summary.Percentiles, lower, upper float64, mult sql.NullFloat64) summary.Fences {
	f := summary.Fences{Lower: lower, Upper: upper, IQR: p.IQR()}
	switch {
	case mult.Valid:
		f.Multiplier = mult.Float64
	case f.IQR > 0:
		f.Multiplier = (p.P25 - lower) / f.IQR
	}
	return f
}

// InsertSample appends values to the samples table in one statement
func (p *Postgres) InsertSample(ctx context.Context, values []float64) error {
	if len(values) == 0 {
		return nil
	}
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO samples (value) SELECT unnest($1::double precision[])", pq.Array(values))
	if err != nil {
		return fmt.Errorf("failed to insert samples: %w", err)
	}
	return nil
}

// DefaultPageSize is used when a job asks for a page without a size
const DefaultPageSize = 1000

// windowLimitOffset converts a 1-based page into LIMIT/OFFSET
func windowLimitOffset(page, perPage int) (limit, offset int) {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}
