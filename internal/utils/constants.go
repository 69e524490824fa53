package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// PublishTimeout bounds publishing one report or result to the queue
	PublishTimeout = 5 * time.Second

	// StoreTimeout bounds a single Postgres round trip
	StoreTimeout = 10 * time.Second

	// ShutdownTimeout is the graceful shutdown window for services
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Queue Subjects
// =============================================================================

const (
	// SubjectJobs carries summary jobs consumed by the worker
	SubjectJobs = "eda.jobs"

	// SubjectResults carries summary results produced by the worker
	SubjectResults = "eda.results"

	// SubjectReports carries finished height/heart reports
	SubjectReports = "eda.reports"

	// SubjectCharts carries chart data for external renderers
	SubjectCharts = "eda.charts"
)

// =============================================================================
// Queue Type Constants
// =============================================================================

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (default, no external service)
	QueueTypeMemory QueueType = "memory"
)
