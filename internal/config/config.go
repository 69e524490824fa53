package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Heart     HeartConfig     `mapstructure:"heart"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`          // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort     int           `mapstructure:"http_port"`     // HTTP server port
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // Per-request read timeout
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // Per-request write timeout
	BodyLimit    int           `mapstructure:"body_limit"`    // Max request body in bytes; CSV uploads need room
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Enabled     bool   `mapstructure:"enabled"`     // Publish reports and charts from the API
	Type        string `mapstructure:"type"`        // Queue type: memory (default), nats, redis, kafka
	URL         string `mapstructure:"url"`         // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username    string `mapstructure:"username"`    // Optional authentication
	Password    string `mapstructure:"password"`    // Optional authentication
	Compression string `mapstructure:"compression"` // Payload compression: snappy (default), none

	// NATS-specific options
	NATSStreamPrefix string `mapstructure:"nats_stream_prefix"` // JetStream stream name prefix (default: "eda")

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "eda")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "eda-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)
	RedisMaxLen   int64  `mapstructure:"redis_max_len"`  // Approximate entries kept per stream (default: 100000)

	// Kafka-specific options
	KafkaBrokers    []string `mapstructure:"kafka_brokers"`     // Kafka broker addresses
	KafkaGroupID    string   `mapstructure:"kafka_group_id"`    // Kafka consumer group ID
	KafkaMaxRetries int      `mapstructure:"kafka_max_retries"` // Handler attempts before a message is skipped (default: 3)
}

// PostgresConfig represents the result store connection.
// URL takes precedence over the individual fields.
type PostgresConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	URL          string `mapstructure:"url"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// GeneratorConfig controls the synthetic height sample
type GeneratorConfig struct {
	Size   int     `mapstructure:"size"`
	Mean   float64 `mapstructure:"mean"`
	StdDev float64 `mapstructure:"std_dev"`
	Seed   uint64  `mapstructure:"seed"` // 0 draws from the process-wide generator
}

// AnalysisConfig holds the parameters of the height report and worker jobs
type AnalysisConfig struct {
	SubsampleSize    int     `mapstructure:"subsample_size"`
	HypothesizedMean float64 `mapstructure:"hypothesized_mean"`
	Threshold        float64 `mapstructure:"threshold"`
	FenceMultiplier  float64 `mapstructure:"fence_multiplier"`
	HistogramBins    int     `mapstructure:"histogram_bins"`
}

// HeartConfig holds the heart-disease report parameters
type HeartConfig struct {
	DatasetPath   string `mapstructure:"dataset_path"`
	HistogramBins int    `mapstructure:"histogram_bins"`
}

// WorkerConfig holds the queue subjects used by the summary worker
type WorkerConfig struct {
	JobsSubject    string        `mapstructure:"jobs_subject"`
	ResultsSubject string        `mapstructure:"results_subject"`
	JobTimeout     time.Duration `mapstructure:"job_timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Postgres.Validate(); err != nil {
		return fmt.Errorf("postgres config: %w", err)
	}

	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Heart.Validate(); err != nil {
		return fmt.Errorf("heart config: %w", err)
	}

	if err := c.Worker.Validate(); err != nil {
		return fmt.Errorf("worker config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}

	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	switch c.Type {
	case "", "memory", "nats", "redis", "kafka":
	default:
		return fmt.Errorf("queue.type must be one of: memory, nats, redis, kafka")
	}

	switch c.Compression {
	case "", "snappy", "none":
	default:
		return fmt.Errorf("queue.compression must be 'snappy' or 'none'")
	}

	if c.Type == "kafka" && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("queue.kafka_brokers is required for kafka")
	}

	if c.RedisMaxLen < 0 {
		return fmt.Errorf("queue.redis_max_len must not be negative")
	}

	if c.KafkaMaxRetries < 0 {
		return fmt.Errorf("queue.kafka_max_retries must not be negative")
	}

	return nil
}

// Validate validates postgres configuration
func (c *PostgresConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.URL == "" && c.Database == "" {
		return fmt.Errorf("postgres.database or postgres.url is required")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid postgres.port: %d", c.Port)
	}

	return nil
}

// Validate validates generator configuration
func (c *GeneratorConfig) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("generator.size must be positive")
	}

	if c.StdDev <= 0 {
		return fmt.Errorf("generator.std_dev must be positive")
	}

	return nil
}

// Validate validates analysis configuration
func (c *AnalysisConfig) Validate() error {
	if c.SubsampleSize <= 0 {
		return fmt.Errorf("analysis.subsample_size must be positive")
	}

	if c.FenceMultiplier <= 0 {
		return fmt.Errorf("analysis.fence_multiplier must be positive")
	}

	if c.HistogramBins <= 0 {
		return fmt.Errorf("analysis.histogram_bins must be positive")
	}

	return nil
}

// Validate validates heart report configuration
func (c *HeartConfig) Validate() error {
	if c.HistogramBins <= 0 {
		return fmt.Errorf("heart.histogram_bins must be positive")
	}

	return nil
}

// Validate validates worker configuration
func (c *WorkerConfig) Validate() error {
	if c.JobsSubject == "" || c.ResultsSubject == "" {
		return fmt.Errorf("worker.jobs_subject and worker.results_subject are required")
	}

	if c.JobsSubject == c.ResultsSubject {
		return fmt.Errorf("worker.jobs_subject and worker.results_subject cannot be the same")
	}

	if c.JobTimeout <= 0 {
		return fmt.Errorf("worker.job_timeout must be positive")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
