package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/utils"
)

// Kind normalizes the configured queue type. Empty means memory.
func Kind(cfg config.QueueConfig) utils.QueueType {
	kind := utils.QueueType(strings.ToLower(strings.TrimSpace(cfg.Type)))
	if kind == "" {
		return utils.QueueTypeMemory
	}
	return kind
}

// NewQueue opens the backend named by cfg.Type
func NewQueue(cfg config.QueueConfig) (Queue, error) {
	switch kind := Kind(cfg); kind {
	case utils.QueueTypeNATS:
		return newNATSQueue(natsConfig(cfg))
	case utils.QueueTypeRedis:
		return newRedisQueue(redisConfig(cfg))
	case utils.QueueTypeKafka:
		return newKafkaQueue(kafkaConfig(cfg))
	case utils.QueueTypeMemory:
		return newMemoryQueue(), nil
	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", kind)
	}
}

// NewPublisher opens a queue for publishing only
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	return NewQueue(cfg)
}

func natsConfig(cfg config.QueueConfig) NATSConfig {
	return NATSConfig{
		URL:          cfg.URL,
		Username:     cfg.Username,
		Password:     cfg.Password,
		StreamPrefix: cfg.NATSStreamPrefix,
	}
}

func redisConfig(cfg config.QueueConfig) RedisConfig {
	return RedisConfig{
		URL:      cfg.URL,
		Password: cfg.Password,
		DB:       cfg.RedisDB,
		Stream:   cfg.RedisStream,
		Group:    cfg.RedisGroup,
		Consumer: cfg.RedisConsumer,
		MaxLen:   cfg.RedisMaxLen,
	}
}

func kafkaConfig(cfg config.QueueConfig) KafkaConfig {
	return KafkaConfig{
		Brokers:    cfg.KafkaBrokers,
		GroupID:    cfg.KafkaGroupID,
		MaxRetries: cfg.KafkaMaxRetries,
	}
}
