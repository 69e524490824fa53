package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/soltixdb/eda/internal/utils"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. EDA_SERVER_HTTP_PORT
const EnvPrefix = "EDA"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")         // Current directory
		v.AddConfigPath("./configs") // Project configs directory
		v.AddConfigPath("./config")  // Alternative config directory
		v.AddConfigPath("/etc/eda")  // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())
	v.SetDefault("server.body_limit", d.Server.BodyLimit)

	// Auth defaults
	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.api_keys", d.Auth.APIKeys)

	// Queue defaults
	v.SetDefault("queue.enabled", d.Queue.Enabled)
	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.compression", d.Queue.Compression)
	v.SetDefault("queue.nats_stream_prefix", d.Queue.NATSStreamPrefix)
	v.SetDefault("queue.redis_stream", d.Queue.RedisStream)
	v.SetDefault("queue.redis_group", d.Queue.RedisGroup)
	v.SetDefault("queue.redis_max_len", d.Queue.RedisMaxLen)
	v.SetDefault("queue.kafka_group_id", d.Queue.KafkaGroupID)
	v.SetDefault("queue.kafka_max_retries", d.Queue.KafkaMaxRetries)

	// Postgres defaults
	v.SetDefault("postgres.enabled", d.Postgres.Enabled)
	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.host", d.Postgres.Host)
	v.SetDefault("postgres.port", d.Postgres.Port)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "")
	v.SetDefault("postgres.sslmode", d.Postgres.SSLMode)
	v.SetDefault("postgres.max_open_conns", d.Postgres.MaxOpenConns)

	// Analysis defaults
	v.SetDefault("generator.size", d.Generator.Size)
	v.SetDefault("generator.mean", d.Generator.Mean)
	v.SetDefault("generator.std_dev", d.Generator.StdDev)
	v.SetDefault("generator.seed", d.Generator.Seed)
	v.SetDefault("analysis.subsample_size", d.Analysis.SubsampleSize)
	v.SetDefault("analysis.hypothesized_mean", d.Analysis.HypothesizedMean)
	v.SetDefault("analysis.threshold", d.Analysis.Threshold)
	v.SetDefault("analysis.fence_multiplier", d.Analysis.FenceMultiplier)
	v.SetDefault("analysis.histogram_bins", d.Analysis.HistogramBins)
	v.SetDefault("heart.dataset_path", d.Heart.DatasetPath)
	v.SetDefault("heart.histogram_bins", d.Heart.HistogramBins)

	// Worker defaults
	v.SetDefault("worker.jobs_subject", d.Worker.JobsSubject)
	v.SetDefault("worker.results_subject", d.Worker.ResultsSubject)
	v.SetDefault("worker.job_timeout", d.Worker.JobTimeout.String())

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			HTTPPort:     5555,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			BodyLimit:    16 * 1024 * 1024,
		},
		Auth: AuthConfig{
			Enabled: false,
			APIKeys: []string{},
		},
		Queue: QueueConfig{
			Enabled:          false,
			Type:             "memory",
			URL:              "nats://localhost:4222",
			Compression:      "snappy",
			NATSStreamPrefix: "eda",
			RedisStream:      "eda",
			RedisGroup:       "eda-group",
			RedisMaxLen:      100000,
			KafkaGroupID:     "eda-group",
			KafkaMaxRetries:  3,
		},
		Postgres: PostgresConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         5432,
			SSLMode:      "disable",
			MaxOpenConns: 5,
		},
		Generator: GeneratorConfig{
			Size:   1000,
			Mean:   170,
			StdDev: 10,
		},
		Analysis: AnalysisConfig{
			SubsampleSize:    50,
			HypothesizedMean: 170,
			Threshold:        180,
			FenceMultiplier:  1.5,
			HistogramBins:    8,
		},
		Heart: HeartConfig{
			DatasetPath:   "heart_disease_dataset.csv",
			HistogramBins: 10,
		},
		Worker: WorkerConfig{
			JobsSubject:    utils.SubjectJobs,
			ResultsSubject: utils.SubjectResults,
			JobTimeout:     30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
