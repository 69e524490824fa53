package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/soltixdb/eda/internal/logging"
)

func kafkaLog() *logging.Logger { return logging.Global().With("component", "queue.kafka") }

// KafkaConfig represents Apache Kafka configuration
type KafkaConfig struct {
	Brokers       []string      // Kafka broker addresses
	GroupID       string        // Consumer group ID (default: "eda-group")
	BatchSize     int           // Producer batch size (default: 100)
	BatchTimeout  time.Duration // Producer batch timeout (default: 10ms)
	RequiredAcks  int           // 0=none, 1=leader, -1=all (default: 1)
	MaxRetries    int           // Producer attempts and handler attempts per message (default: 3)
	RetryBackoff  time.Duration // Backoff between retries (default: 100ms)
	CommitRetries int           // Consumer commit retries (default: 3)
}

func (c *KafkaConfig) applyDefaults() {
	if c.GroupID == "" {
		c.GroupID = DefaultConsumerGroup
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = 10 * time.Millisecond
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = int(kafka.RequireOne)
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = 100 * time.Millisecond
	}
	if c.CommitRetries == 0 {
		c.CommitRetries = 3
	}
}

// KafkaQueue implements Queue on Kafka topics named after subjects.
//
// A kafka-go group reader does not redeliver an uncommitted message while
// it keeps running, so a failing handler is retried in place MaxRetries
// times; after that the message is logged and committed so the partition
// keeps moving.
type KafkaQueue struct {
	config        KafkaConfig
	writers       map[string]*kafka.Writer
	readers       map[string]*kafka.Reader
	subscriptions map[string]context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
}

// newKafkaQueue creates a new Kafka queue instance. No connection is made
// until the first publish or subscribe.
func newKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	cfg.applyDefaults()

	return &KafkaQueue{
		config:        cfg,
		writers:       make(map[string]*kafka.Writer),
		readers:       make(map[string]*kafka.Reader),
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

// getOrCreateWriter returns the topic's writer, creating it on first use.
// Writes are synchronous so Publish reports delivery failures.
func (q *KafkaQueue) getOrCreateWriter(topic string) *kafka.Writer {
	q.mu.Lock()
	defer q.mu.Unlock()

	if writer, exists := q.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(q.config.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              q.config.BatchSize,
		BatchTimeout:           q.config.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(q.config.RequiredAcks),
		MaxAttempts:            q.config.MaxRetries,
		AllowAutoTopicCreation: true,
	}

	q.writers[topic] = writer
	return writer
}

func kafkaMessage(data []byte) kafka.Message {
	return kafka.Message{Value: data, Time: time.Now()}
}

// Publish writes one message to the subject's topic
func (q *KafkaQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.getOrCreateWriter(subject).WriteMessages(ctx, kafkaMessage(data)); err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", subject, err)
	}
	return nil
}

// PublishBatch groups messages by topic and writes each group in one call
func (q *KafkaQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	byTopic := make(map[string][]kafka.Message)
	for _, msg := range messages {
		byTopic[msg.Subject] = append(byTopic[msg.Subject], kafkaMessage(msg.Data))
	}

	successCount := 0
	var lastErr error
	for topic, msgs := range byTopic {
		if err := q.getOrCreateWriter(topic).WriteMessages(ctx, msgs...); err != nil {
			lastErr = fmt.Errorf("topic %s: %w", topic, err)
			continue
		}
		successCount += len(msgs)
	}

	if lastErr != nil && successCount == 0 {
		return 0, fmt.Errorf("failed to publish batch: %w", lastErr)
	}
	return successCount, nil
}

// Subscribe joins the consumer group on the subject's topic
func (q *KafkaQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to topic: %s", subject)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  q.config.Brokers,
		GroupID:  q.config.GroupID,
		Topic:    subject,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	q.readers[subject] = reader
	q.subscriptions[subject] = cancel

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.consume(ctx, reader, handler)
	}()

	kafkaLog().Debug("Subscribed", "topic", subject, "group", q.config.GroupID)
	return nil
}

// consume fetches, handles and commits messages until ctx ends
func (q *KafkaQueue) consume(ctx context.Context, reader *kafka.Reader, handler MessageHandler) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			kafkaLog().Warn("Fetch failed", "topic", reader.Config().Topic, "error", err)
			time.Sleep(q.config.RetryBackoff)
			continue
		}

		if err := handleWithRetry(ctx, handler, msg.Value, q.config.MaxRetries, q.config.RetryBackoff); err != nil {
			if ctx.Err() != nil {
				return
			}
			kafkaLog().Error("Message handler failed, skipping message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"attempts", q.config.MaxRetries,
				"error", err,
			)
		}

		if !q.commit(ctx, reader, msg) {
			return
		}
	}
}

// commit commits msg with retries. It returns false once ctx has ended.
func (q *KafkaQueue) commit(ctx context.Context, reader *kafka.Reader, msg kafka.Message) bool {
	var err error
	for i := 0; i < q.config.CommitRetries; i++ {
		if err = reader.CommitMessages(ctx, msg); err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		time.Sleep(q.config.RetryBackoff)
	}
	kafkaLog().Warn("Commit failed", "topic", msg.Topic, "offset", msg.Offset, "error", err)
	return true
}

// Unsubscribe leaves the consumer group for subject
func (q *KafkaQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to topic: %s", subject)
	}
	cancel()
	delete(q.subscriptions, subject)

	if reader, ok := q.readers[subject]; ok {
		_ = reader.Close()
		delete(q.readers, subject)
	}
	return nil
}

// Close stops every consumer, then closes readers and writers
func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	for _, cancel := range q.subscriptions {
		cancel()
	}
	q.subscriptions = make(map[string]context.CancelFunc)
	q.mu.Unlock()

	q.wg.Wait()

	q.mu.Lock()
	defer q.mu.Unlock()

	var lastErr error
	for subject, reader := range q.readers {
		if err := reader.Close(); err != nil {
			lastErr = err
		}
		delete(q.readers, subject)
	}
	for topic, writer := range q.writers {
		if err := writer.Close(); err != nil {
			lastErr = err
		}
		delete(q.writers, topic)
	}
	return lastErr
}
