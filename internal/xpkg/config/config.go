package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort int

	DB  Postgres
	RMQ RabbitMQ

	// RedisAddr selects the idempotency cache backing; when empty an
	// in-process cache is used instead.
	RedisAddr string

	// WorkflowBaseURL points at the payment/invoice collaborator. Empty
	// disables externalization (settlements still commit locally).
	WorkflowBaseURL string

	// GatewayBaseURL points at the card-network gateway used to re-verify
	// terminal charges. Empty skips verification.
	GatewayBaseURL string

	// TaxRate is the jurisdiction-specific consumption-tax rate applied to
	// the discounted subtotal, e.g. 0.08 for 8%.
	TaxRate  float64
	TaxID    string
	Currency string

	IdempotencyTTL time.Duration
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type RabbitMQ struct {
	User     string
	Password string
	Host     string
	Port     string
	VHost    string
}

// Load reads configuration from environment variables with local defaults.
func Load() *Config {
	return &Config{
		HTTPPort: getEnvInt("POS_HTTP_PORT", 3000),
		DB: Postgres{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Database: getEnv("DB_DATABASE", "restaurant_pos"),
		},
		RMQ: RabbitMQ{
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		WorkflowBaseURL: getEnv("WORKFLOW_BASE_URL", ""),
		GatewayBaseURL:  getEnv("GATEWAY_BASE_URL", ""),
		TaxRate:         getEnvFloat("POS_TAX_RATE", 0.08),
		TaxID:           getEnv("POS_TAX_ID", ""),
		Currency:        getEnv("POS_CURRENCY", "USD"),
		IdempotencyTTL:  getEnvDuration("POS_IDEMPOTENCY_TTL", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
