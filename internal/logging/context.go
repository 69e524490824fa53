package logging

import "context"

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
	jobIDKey
)

// WithLogger stores logger in ctx
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the global logger,
// with any request and job IDs from ctx attached.
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(loggerKey).(*Logger)
	if !ok {
		logger = Global()
	}
	return logger.WithContext(ctx)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the HTTP request ID stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithJobID tags ctx with a summary job ID
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDKey, jobID)
}

// JobID returns the summary job ID stored in ctx, if any
func JobID(ctx context.Context) string {
	id, _ := ctx.Value(jobIDKey).(string)
	return id
}

func contextFields(ctx context.Context) []interface{} {
	var fields []interface{}
	if id := RequestID(ctx); id != "" {
		fields = append(fields, "request_id", id)
	}
	if id := JobID(ctx); id != "" {
		fields = append(fields, "job_id", id)
	}
	return fields
}
