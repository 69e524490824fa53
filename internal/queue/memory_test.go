package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_PublishSubscribe(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	c := &collector{}
	require.NoError(t, q.Subscribe("eda.jobs", c.handle))

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Publish(context.Background(), "eda.jobs", []byte(fmt.Sprintf("job-%d", i))))
	}

	waitFor(t, func() bool { return c.count() == 3 }, 2*time.Second)
	assert.Equal(t, []string{"job-0", "job-1", "job-2"}, c.messages())
}

func TestMemoryQueue_PublishCopiesData(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	data := []byte("original")
	require.NoError(t, q.Publish(context.Background(), "s", data))
	copy(data, "modified")

	c := &collector{}
	require.NoError(t, q.Subscribe("s", c.handle))
	waitFor(t, func() bool { return c.count() == 1 }, 2*time.Second)
	assert.Equal(t, []string{"original"}, c.messages())
}

func TestMemoryQueue_PendingUntilSubscribed(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	require.NoError(t, q.Publish(context.Background(), "eda.results", []byte("r1")))
	assert.Equal(t, 1, q.GetPendingCount("eda.results"))
	assert.Equal(t, 0, q.GetPendingCount("unknown"))
}

func TestMemoryQueue_PublishCancelledContext(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Publish(ctx, "s", []byte("x")), context.Canceled)
}

func TestMemoryQueue_ChannelFull(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	for i := 0; i < memoryChannelSize; i++ {
		require.NoError(t, q.Publish(ctx, "full", []byte{1}))
	}
	assert.Error(t, q.Publish(ctx, "full", []byte{1}))
}

func TestMemoryQueue_PublishBatch(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	n, err := q.PublishBatch(context.Background(), []BatchMessage{
		{Subject: "a", Data: []byte("1")},
		{Subject: "b", Data: []byte("2")},
		{Subject: "a", Data: []byte("3")},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, q.GetPendingCount("a"))

	n, err = q.PublishBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryQueue_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	var calls atomic.Int32
	require.NoError(t, q.Subscribe("s", func(data []byte) error {
		calls.Add(1)
		return errors.New("bad payload")
	}))

	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, "s", []byte("1")))
	require.NoError(t, q.Publish(ctx, "s", []byte("2")))

	waitFor(t, func() bool { return calls.Load() == 2 }, 2*time.Second)
}

func TestMemoryQueue_LogsThroughCurrentGlobalLogger(t *testing.T) {
	previous := logging.Global()
	defer logging.SetGlobal(previous)

	var out syncBuffer
	logging.SetGlobal(logging.NewWithWriter(&out, zerolog.DebugLevel))

	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	require.NoError(t, q.Subscribe("s", func([]byte) error { return errors.New("bad payload") }))
	require.NoError(t, q.Publish(context.Background(), "s", []byte("1")))

	waitFor(t, func() bool { return strings.Contains(out.String(), "Message handler failed") }, 2*time.Second)
	assert.Contains(t, out.String(), `"component":"queue.memory"`)
}

func TestMemoryQueue_DoubleSubscribe(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	require.NoError(t, q.Subscribe("s", (&collector{}).handle))
	assert.Error(t, q.Subscribe("s", (&collector{}).handle))
}

func TestMemoryQueue_Unsubscribe(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	assert.Error(t, q.Unsubscribe("s"))

	c := &collector{}
	require.NoError(t, q.Subscribe("s", c.handle))
	require.NoError(t, q.Unsubscribe("s"))
	assert.Error(t, q.Unsubscribe("s"))

	// Resubscribing after unsubscribe is allowed
	require.NoError(t, q.Subscribe("s", c.handle))
}

func TestMemoryQueue_Close(t *testing.T) {
	q := newMemoryQueue()
	require.NoError(t, q.Subscribe("s", (&collector{}).handle))
	require.NoError(t, q.Close())

	assert.Error(t, q.Publish(context.Background(), "s", []byte("late")))
	assert.Error(t, q.Subscribe("t", (&collector{}).handle))
}

func TestMemoryQueue_ConcurrentPublish(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	c := &collector{}
	require.NoError(t, q.Subscribe("s", c.handle))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = q.Publish(context.Background(), "s", []byte("m"))
			}
		}()
	}
	wg.Wait()

	waitFor(t, func() bool { return c.count() == 400 }, 5*time.Second)
}
