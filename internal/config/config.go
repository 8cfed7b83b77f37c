package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	Port        string

	DatabaseDriver  string
	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxLifeMs int

	RedisURL string

	EventBus     string
	KafkaBrokers string
	NatsURL      string

	JaegerEndpoint string
}

// Load reads configuration from the environment, after merging an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:     getenv("SERVICE_NAME", "payment-service"),
		Port:            getenv("PORT", "3004"),
		DatabaseDriver:  strings.ToLower(getenv("DATABASE_DRIVER", "postgres")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:  getenvInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:  getenvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifeMs: getenvInt("DB_CONN_MAX_LIFETIME_MS", 300000),
		RedisURL:        os.Getenv("REDIS_URL"),
		EventBus:        strings.ToLower(getenv("EVENT_BUS", "none")),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		NatsURL:         os.Getenv("NATS_URL"),
		JaegerEndpoint:  os.Getenv("JAEGER_ENDPOINT"),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
