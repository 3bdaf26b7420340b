// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// DBDSN is the ClickHouse connection string.
	DBDSN string

	// Kafka contains connection settings for the block topic.
	Kafka KafkaConfig

	// Ingester contains settings for the Kafka-to-ClickHouse ingester.
	Ingester IngesterConfig

	// Importer contains settings for the archive backfill.
	Importer ImporterConfig

	// Stream contains settings for the live WebSocket pipeline.
	Stream StreamConfig

	// ServerPort is the HTTP port of the query API.
	ServerPort string
}

// KafkaConfig holds Kafka connection settings for block data.
type KafkaConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// Topic is the Kafka topic closed blocks are published to.
	Topic string

	// GroupID is the consumer group ID for the ingester.
	GroupID string
}

// IngesterConfig holds settings for batch processing.
type IngesterConfig struct {
	// BatchSize is the maximum number of blocks to accumulate before flushing.
	BatchSize int

	// BatchTimeoutSeconds is the maximum seconds to wait before flushing.
	BatchTimeoutSeconds int
}

// ImporterConfig holds archive backfill settings.
type ImporterConfig struct {
	// DownloadDir is where trade archives are cached on disk.
	DownloadDir string

	// Symbols is the list of trading pairs to import (comma-separated in env).
	Symbols []string

	// Market selects the archive segment: "spot" or "futures".
	Market string

	// Monthly selects monthly archives instead of daily ones.
	Monthly bool

	// RequestsPerSecond throttles archive downloads.
	RequestsPerSecond int
}

// StreamConfig holds live pipeline settings.
type StreamConfig struct {
	// Symbols is the list of trading pairs to stream (comma-separated in env).
	Symbols []string

	// Market selects the stream endpoint: "spot" or "futures".
	Market string
}

// getDatabaseDSN constructs the ClickHouse DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("CLICKHOUSE_USER", "user")
	dbPassword := getEnv("CLICKHOUSE_PASSWORD", "password")
	dbHost := getEnv("CLICKHOUSE_HOST", "localhost")
	dbPort := getEnv("CLICKHOUSE_TCP_PORT", "9000")
	dbName := getEnv("CLICKHOUSE_DB", "blockflow")

	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&read_timeout=20s",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		DBDSN: getDatabaseDSN(),
		Kafka: KafkaConfig{
			Broker:  getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:   getEnv("KAFKA_BLOCK_TOPIC", "blockflow_blocks"),
			GroupID: getEnv("KAFKA_BLOCK_GROUP_ID", "blockflow-block-consumer"),
		},
		Ingester: IngesterConfig{
			BatchSize:           getEnvInt("BATCH_SIZE", 200),
			BatchTimeoutSeconds: getEnvInt("BATCH_TIMEOUT_SECONDS", 5),
		},
		Importer: ImporterConfig{
			DownloadDir:       getEnv("IMPORT_DOWNLOAD_DIR", "./data"),
			Symbols:           getEnvList("IMPORT_SYMBOLS", "BTCUSDT"),
			Market:            getEnv("IMPORT_MARKET", "spot"),
			Monthly:           getEnvBool("IMPORT_MONTHLY", false),
			RequestsPerSecond: getEnvInt("IMPORT_REQUESTS_PER_SECOND", 2),
		},
		Stream: StreamConfig{
			Symbols: getEnvList("STREAM_SYMBOLS", "BTCUSDT"),
			Market:  getEnv("STREAM_MARKET", "spot"),
		},
		ServerPort: getEnv("SERVER_PORT", "8080"),
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvBool returns the environment variable as bool or a default.
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated environment variable.
func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
