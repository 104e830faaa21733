package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all app configuration
type Config struct {
	// Environment: local, dev or prod
	Env string

	// Server
	HTTPPort string

	// Auth
	JWTSecret    string
	TokenExpiry  time.Duration
	DemoUsername string
	DemoPassword string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ClickHouse
	ClickhouseAddr     string
	ClickhouseUsername string
	ClickhousePassword string
	ClickhouseTimeout  int

	// Kafka
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaTopic         string
	KafkaConsumerGroup string
	KafkaBatchSize     int
	KafkaBatchTimeout  int // milliseconds

	// App settings
	EventBufferSize  int
	GeneratorEnabled bool

	// Dashboard client settings
	ServerURL      string
	ReconnectDelay time.Duration
	ChartPath      string
}

// LoadConfig loads configuration from environment variables, with optional .env file
func LoadConfig() *Config {
	// Load .env file if present; plain environment variables work without one
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),

		// Server
		HTTPPort: getEnv("HTTP_PORT", "8000"),

		// Auth
		JWTSecret:    getEnv("SECRET_KEY", "your_default_secret_key"),
		TokenExpiry:  time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		DemoUsername: getEnv("DEMO_USERNAME", "user@example.com"),
		DemoPassword: getEnv("DEMO_PASSWORD", "secret"),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// ClickHouse
		ClickhouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickhouseUsername: getEnv("CLICKHOUSE_USERNAME", ""),
		ClickhousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickhouseTimeout:  getEnvAsInt("CLICKHOUSE_TIMEOUT", 10),

		// Kafka
		KafkaEnabled:       getEnvAsBool("KAFKA_ENABLED", false),
		KafkaBrokers:       getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}, ","),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "transactions"),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "txdash-group"),
		KafkaBatchSize:     getEnvAsInt("KAFKA_BATCH_SIZE", 500),
		KafkaBatchTimeout:  getEnvAsInt("KAFKA_BATCH_TIMEOUT", 3000),

		// App settings
		EventBufferSize:  getEnvAsInt("EVENT_BUFFER_SIZE", 10000),
		GeneratorEnabled: getEnvAsBool("GENERATOR_ENABLED", true),

		// Dashboard client settings
		ServerURL:      getEnv("SERVER_URL", "http://localhost:8000"),
		ReconnectDelay: time.Duration(getEnvAsInt("RECONNECT_DELAY_MS", 5000)) * time.Millisecond,
		ChartPath:      getEnv("CHART_PATH", "transactions.png"),
	}

	return cfg
}

// Helper functions for parsing environment variables
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string, sep string) []string {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal
	}
	return strings.Split(valStr, sep)
}
