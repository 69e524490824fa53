// Package queue carries summary jobs, results, reports and chart data
// between the API, the worker and downstream consumers. Backends are NATS
// JetStream, Redis Streams, Kafka and an in-process channel queue; all of
// them move opaque payloads produced by compression.Codec.
package queue

import "context"

// BatchMessage is one entry of a PublishBatch call
type BatchMessage struct {
	Subject string
	Data    []byte
}

// MessageHandler receives one payload. Returning an error asks the backend
// to deliver the payload again; how often depends on the backend.
type MessageHandler func(data []byte) error

// Publisher sends payloads to subjects
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch reports how many messages were accepted. A partial
	// batch returns the count with a nil error when at least one succeeded.
	PublishBatch(ctx context.Context, messages []BatchMessage) (int, error)

	Close() error
}

// Subscriber delivers payloads from subjects to handlers, one
// subscription per subject.
type Subscriber interface {
	Subscribe(subject string, handler MessageHandler) error
	Unsubscribe(subject string) error
	Close() error
}

// Queue is a backend that can both publish and subscribe
type Queue interface {
	Publisher
	Subscriber
}
