package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/soltixdb/eda/internal/logging"
)

func redisLog() *logging.Logger { return logging.Global().With("component", "queue.redis") }

// redisDataField is the stream entry field holding the payload
const redisDataField = "data"

// RedisConfig represents Redis Streams configuration
type RedisConfig struct {
	URL       string        // redis:// URL or bare host:port
	Password  string        // Optional password, used with a bare address
	DB        int           // Database number, used with a bare address
	Stream    string        // Stream prefix (default: "eda")
	Group     string        // Consumer group name (default: "eda-group")
	Consumer  string        // Consumer name (default: hostname)
	MaxLen    int64         // Approximate stream length cap (default: 100000)
	ReadCount int64         // Entries per read (default: 100)
	Backoff   time.Duration // Wait before retrying failed entries (default: 1s)
}

func (c *RedisConfig) applyDefaults() {
	if c.Stream == "" {
		c.Stream = DefaultStreamPrefix
	}
	if c.Group == "" {
		c.Group = DefaultConsumerGroup
	}
	if c.Consumer == "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "consumer-1"
		}
		c.Consumer = hostname
	}
	if c.MaxLen == 0 {
		c.MaxLen = 100000
	}
	if c.ReadCount == 0 {
		c.ReadCount = 100
	}
	if c.Backoff == 0 {
		c.Backoff = time.Second
	}
}

// RedisQueue implements Queue on Redis Streams, one stream per subject.
//
// Streams are capped at about MaxLen entries so that subjects nobody
// consumes (reports, charts) do not grow without bound. An entry whose
// handler fails stays pending and is read again from the consumer's
// pending list after Backoff.
type RedisQueue struct {
	client        *redis.Client
	config        RedisConfig
	subscriptions map[string]context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
}

// newRedisQueue connects to Redis and checks the connection
func newRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cfg.applyDefaults()
	return &RedisQueue{
		client:        client,
		config:        cfg,
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

// streamName converts a subject to a Redis stream name
func (q *RedisQueue) streamName(subject string) string {
	return q.config.Stream + ":" + subject
}

func (q *RedisQueue) addArgs(subject string, data []byte) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: q.streamName(subject),
		MaxLen: q.config.MaxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{redisDataField: data},
	}
}

// Publish appends a message to the subject's stream
func (q *RedisQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.client.XAdd(ctx, q.addArgs(subject, data)).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis stream %s: %w", q.streamName(subject), err)
	}
	return nil
}

// PublishBatch appends all messages in one pipeline
func (q *RedisQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	pipe := q.client.Pipeline()
	for _, msg := range messages {
		pipe.XAdd(ctx, q.addArgs(msg.Subject, msg.Data))
	}

	// Exec returns the first failed command's error; count the rest
	cmds, err := pipe.Exec(ctx)
	successCount := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			successCount++
		}
	}
	if successCount == 0 && err != nil {
		return 0, fmt.Errorf("failed to execute batch publish: %w", err)
	}
	return successCount, nil
}

// Subscribe creates the consumer group if needed and starts reading
func (q *RedisQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	stream := q.streamName(subject)
	ctx, cancel := context.WithCancel(context.Background())

	err := q.client.XGroupCreateMkStream(ctx, stream, q.config.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		cancel()
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	q.subscriptions[subject] = cancel
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.readStream(ctx, stream, handler)
	}()
	return nil
}

// readStream starts with this consumer's pending entries, left over from a
// previous run, then reads new ones. Any handler failure switches back to
// the pending list after Backoff.
func (q *RedisQueue) readStream(ctx context.Context, stream string, handler MessageHandler) {
	pending := true
	for ctx.Err() == nil {
		id := ">"
		block := 5 * time.Second
		if pending {
			id, block = "0", -1
		}

		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.config.Group,
			Consumer: q.config.Consumer,
			Streams:  []string{stream, id},
			Count:    q.config.ReadCount,
			Block:    block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				pending = false
				continue
			}
			redisLog().Warn("Stream read failed", "stream", stream, "error", err)
			q.sleep(ctx)
			continue
		}

		read, failed := 0, 0
		for _, s := range streams {
			for _, msg := range s.Messages {
				read++
				if !q.handle(ctx, stream, msg, handler) {
					failed++
				}
			}
		}

		switch {
		case failed > 0:
			pending = true
			q.sleep(ctx)
		case pending && read == 0:
			pending = false
		}
	}
}

// handle runs handler on one entry and acks it on success. Entries without
// a payload are acked and dropped.
func (q *RedisQueue) handle(ctx context.Context, stream string, msg redis.XMessage, handler MessageHandler) bool {
	data, ok := msg.Values[redisDataField].(string)
	if !ok {
		redisLog().Warn("Dropping entry without data field", "stream", stream, "id", msg.ID)
		q.client.XAck(ctx, stream, q.config.Group, msg.ID)
		return true
	}

	if err := handler([]byte(data)); err != nil {
		redisLog().Warn("Message handler failed, entry stays pending", "stream", stream, "id", msg.ID, "error", err)
		return false
	}
	q.client.XAck(ctx, stream, q.config.Group, msg.ID)
	return true
}

func (q *RedisQueue) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(q.config.Backoff):
	}
}

// Unsubscribe stops reading subject. Pending entries stay in the group.
func (q *RedisQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Close stops all readers and closes the client
func (q *RedisQueue) Close() error {
	q.mu.Lock()
	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	q.mu.Unlock()

	q.wg.Wait()
	return q.client.Close()
}
