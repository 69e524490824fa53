package queue

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kafkaBrokers returns EDA_TEST_KAFKA_BROKERS or skips the test
func kafkaBrokers(t *testing.T) []string {
	t.Helper()
	brokers := os.Getenv("EDA_TEST_KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("EDA_TEST_KAFKA_BROKERS not set, skipping Kafka tests")
	}
	return strings.Split(brokers, ",")
}

func TestNewKafkaQueue_Defaults(t *testing.T) {
	q, err := newKafkaQueue(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	assert.Equal(t, "eda-group", q.config.GroupID)
	assert.Equal(t, 100, q.config.BatchSize)
	assert.Equal(t, 10*time.Millisecond, q.config.BatchTimeout)
	assert.Equal(t, 3, q.config.MaxRetries)
	assert.Equal(t, 3, q.config.CommitRetries)
}

func TestNewKafkaQueue_NoBrokers(t *testing.T) {
	_, err := newKafkaQueue(KafkaConfig{})
	assert.Error(t, err)
}

func TestKafkaQueue_WriterReuse(t *testing.T) {
	q, err := newKafkaQueue(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	w1 := q.getOrCreateWriter("eda.results")
	w2 := q.getOrCreateWriter("eda.results")
	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, q.getOrCreateWriter("eda.charts"))
}

func TestKafkaQueue_PublishSubscribe(t *testing.T) {
	brokers := kafkaBrokers(t)
	topic := "eda-test-" + uuid.NewString()

	q, err := newKafkaQueue(KafkaConfig{Brokers: brokers, GroupID: "eda-test-" + uuid.NewString()})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	c := &collector{}
	require.NoError(t, q.Subscribe(topic, c.handle))
	require.NoError(t, q.Publish(ctx, topic, []byte("job-1")))

	waitFor(t, func() bool { return c.count() == 1 }, 20*time.Second)
	assert.NoError(t, q.Unsubscribe(topic))
	assert.Error(t, q.Unsubscribe(topic))
}
