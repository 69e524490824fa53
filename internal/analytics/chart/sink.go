package chart

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/goccy/go-json"
	"github.com/soltixdb/eda/internal/compression"
	"github.com/soltixdb/eda/internal/queue"
	"github.com/soltixdb/eda/internal/utils"
)

// Sink receives finished chart data
type Sink interface {
	Emit(ctx context.Context, c Chart) error
}

// JSONSink writes each chart as one JSON document per line
type JSONSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONSink creates a sink writing to w
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

// Emit writes c to the underlying writer
func (s *JSONSink) Emit(ctx context.Context, c Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write chart %q: %w", c.Title, err)
	}
	return nil
}

// PublisherSink publishes charts to a queue subject
type PublisherSink struct {
	publisher queue.Publisher
	subject   string
	codec     *compression.Codec
}

// NewPublisherSink creates a sink that publishes to subject, or to the
// default charts subject when subject is empty
func NewPublisherSink(publisher queue.Publisher, subject string, codec *compression.Codec) *PublisherSink {
	if subject == "" {
		subject = utils.SubjectCharts
	}
	if codec == nil {
		codec = compression.DefaultCodec()
	}
	return &PublisherSink{publisher: publisher, subject: subject, codec: codec}
}

// Message validates and encodes c for the sink's subject without sending
// it, so callers can put charts in one PublishBatch with other messages.
func (s *PublisherSink) Message(c Chart) (queue.BatchMessage, error) {
	if err := c.Validate(); err != nil {
		return queue.BatchMessage{}, err
	}
	data, err := s.codec.Encode(c)
	if err != nil {
		return queue.BatchMessage{}, err
	}
	return queue.BatchMessage{Subject: s.subject, Data: data}, nil
}

// Emit encodes and publishes c
func (s *PublisherSink) Emit(ctx context.Context, c Chart) error {
	msg, err := s.Message(c)
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, msg.Subject, msg.Data); err != nil {
		return fmt.Errorf("failed to publish chart %q: %w", c.Title, err)
	}
	return nil
}

// MultiSink fans a chart out to several sinks, stopping at the first error
type MultiSink []Sink

// Emit sends c to every sink in order
func (m MultiSink) Emit(ctx context.Context, c Chart) error {
	for _, s := range m {
		if err := s.Emit(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
