// Package report runs the height and heart-disease analyses end to end,
// prints them, and hands their chart data and results to the queue.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/soltixdb/eda/internal/analytics/chart"
	"github.com/soltixdb/eda/internal/compression"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/queue"
	"github.com/soltixdb/eda/internal/utils"
)

// Report kinds
const (
	KindHeight = "height"
	KindHeart  = "heart"
)

// Report is a finished analysis that can be printed and published
type Report interface {
	ReportID() string
	Kind() string
	Charts() []chart.Chart
	WriteText(w io.Writer) error
}

// Envelope wraps a report on the reports subject
type Envelope struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	PublishedAt time.Time `json:"published_at"`
	Report      Report    `json:"report"`
}

// EmitCharts sends every chart of r to sink
func EmitCharts(ctx context.Context, sink chart.Sink, r Report) error {
	for _, c := range r.Charts() {
		if err := sink.Emit(ctx, c); err != nil {
			return fmt.Errorf("%s report %s: %w", r.Kind(), r.ReportID(), err)
		}
	}
	return nil
}

// Publisher publishes reports to the reports subject and their charts to
// the charts subject
type Publisher struct {
	publisher queue.Publisher
	codec     *compression.Codec
	subject   string
	charts    *chart.PublisherSink
	logger    *logging.Logger
}

// NewPublisher creates a report publisher. A nil codec uses the default codec.
func NewPublisher(publisher queue.Publisher, codec *compression.Codec, logger *logging.Logger) *Publisher {
	if codec == nil {
		codec = compression.DefaultCodec()
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Publisher{
		publisher: publisher,
		codec:     codec,
		subject:   utils.SubjectReports,
		charts:    chart.NewPublisherSink(publisher, utils.SubjectCharts, codec),
		logger:    logger,
	}
}

// Publish sends r, wrapped in an Envelope, and its charts in one batch.
// A batch the backend only partly accepts is an error naming the count.
func (p *Publisher) Publish(ctx context.Context, r Report) error {
	ctx, cancel := context.WithTimeout(ctx, utils.PublishTimeout)
	defer cancel()

	batch, err := p.batch(r)
	if err != nil {
		return err
	}

	n, err := p.publisher.PublishBatch(ctx, batch)
	if err != nil {
		return fmt.Errorf("failed to publish %s report: %w", r.Kind(), err)
	}
	if n != len(batch) {
		return fmt.Errorf("%s report %s: published %d of %d messages", r.Kind(), r.ReportID(), n, len(batch))
	}

	p.logger.Info("Report published",
		"report_id", r.ReportID(),
		"kind", r.Kind(),
		"bytes", len(batch[0].Data),
		"charts", len(batch)-1,
	)
	return nil
}

// batch encodes the envelope followed by every chart
func (p *Publisher) batch(r Report) ([]queue.BatchMessage, error) {
	data, err := p.codec.Encode(Envelope{
		ID:          r.ReportID(),
		Kind:        r.Kind(),
		PublishedAt: time.Now().UTC(),
		Report:      r,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s report: %w", r.Kind(), err)
	}

	charts := r.Charts()
	batch := make([]queue.BatchMessage, 0, len(charts)+1)
	batch = append(batch, queue.BatchMessage{Subject: p.subject, Data: data})
	for _, c := range charts {
		msg, err := p.charts.Message(c)
		if err != nil {
			return nil, fmt.Errorf("%s report %s: %w", r.Kind(), r.ReportID(), err)
		}
		batch = append(batch, msg)
	}
	return batch, nil
}

// printer keeps the first write error so report text can be written
// without checking every line
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}

// formatList renders values as "[a, b, c]"
func formatList(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
