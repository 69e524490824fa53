package queue

import (
	"context"
	"time"
)

// Defaults shared by the backends
const (
	DefaultConsumerGroup = "eda-group"
	DefaultStreamPrefix  = "eda"
)

// handleWithRetry calls handler until it succeeds, attempts run out or ctx
// ends, sleeping backoff between calls. It returns the last handler error.
func handleWithRetry(ctx context.Context, handler MessageHandler, data []byte, attempts int, backoff time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = handler(data); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
	}
	return err
}
