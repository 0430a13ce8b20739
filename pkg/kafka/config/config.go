package kafka_config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Brokers []string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int // -1 = all, 0 = none, 1 = leader only

	ConsumerMinBytes       int
	ConsumerMaxBytes       int
	ConsumerMaxWait        time.Duration
	ConsumerCommitInterval time.Duration
	ConsumerMaxRetries     int
	ConsumerRetryBackoff   time.Duration
}

const (
	EnvKafkaBrokers = "KAFKA_BROKERS"

	DefaultKafkaBrokers         = "localhost:9092"
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 100 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultConsumerMinBytes     = 1
	DefaultConsumerMaxBytes     = 10 * 1024 * 1024
	DefaultConsumerMaxWait      = 500 * time.Millisecond
	DefaultCommitInterval       = 0 // synchronous commits
	DefaultConsumerMaxRetries   = 3
	DefaultConsumerRetryBackoff = 2 * time.Second
)

func Load() *Config {
	return &Config{
		Brokers: splitBrokers(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers)),

		ProducerMaxAttempts:  getEnvNum("KAFKA_PRODUCER_MAX_ATTEMPTS", DefaultProducerMaxAttempts),
		ProducerBatchTimeout: getEnvDuration("KAFKA_PRODUCER_BATCH_TIMEOUT", DefaultProducerBatchTimeout),
		ProducerRequireAcks:  getEnvNum("KAFKA_PRODUCER_REQUIRE_ACKS", DefaultProducerRequireAcks),

		ConsumerMinBytes:       getEnvNum("KAFKA_CONSUMER_MIN_BYTES", DefaultConsumerMinBytes),
		ConsumerMaxBytes:       getEnvNum("KAFKA_CONSUMER_MAX_BYTES", DefaultConsumerMaxBytes),
		ConsumerMaxWait:        getEnvDuration("KAFKA_CONSUMER_MAX_WAIT", DefaultConsumerMaxWait),
		ConsumerCommitInterval: getEnvDuration("KAFKA_CONSUMER_COMMIT_INTERVAL", DefaultCommitInterval),
		ConsumerMaxRetries:     getEnvNum("KAFKA_CONSUMER_MAX_RETRIES", DefaultConsumerMaxRetries),
		ConsumerRetryBackoff:   getEnvDuration("KAFKA_CONSUMER_RETRY_BACKOFF", DefaultConsumerRetryBackoff),
	}
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
