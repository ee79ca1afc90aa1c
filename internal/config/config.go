package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP_PORT           string `env:"HTTP_PORT"`
	KAFKA_BROKERS       string `env:"KAFKA_BROKERS"`
	ORDERS_TOPIC        string `env:"ORDERS_TOPIC"`
	ERRORS_QUEUE_PREFIX string `env:"ERRORS_QUEUE_PREFIX"`
	COMMANDS_TOPIC      string `env:"COMMANDS_TOPIC"`
	DEALER_ID           int64  `env:"DEALER_ID"`
	AUTH_TOKEN          string `env:"AUTH_TOKEN"`
	SEED_URL            string `env:"SEED_URL"`
	RECONNECT_INTERVAL  time.Duration
	LOCK_TTL            time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		HTTP_PORT:           os.Getenv("HTTP_PORT"),
		KAFKA_BROKERS:       os.Getenv("KAFKA_BROKERS"),
		ORDERS_TOPIC:        os.Getenv("ORDERS_TOPIC"),
		ERRORS_QUEUE_PREFIX: os.Getenv("ERRORS_QUEUE_PREFIX"),
		COMMANDS_TOPIC:      os.Getenv("COMMANDS_TOPIC"),
		AUTH_TOKEN:          os.Getenv("AUTH_TOKEN"),
		SEED_URL:            os.Getenv("SEED_URL"),
	}

	if cfg.HTTP_PORT == "" {
		cfg.HTTP_PORT = "8080"
	}
	if cfg.KAFKA_BROKERS == "" {
		cfg.KAFKA_BROKERS = "localhost:9092"
	}
	if cfg.ORDERS_TOPIC == "" {
		cfg.ORDERS_TOPIC = "orders.status"
	}
	if cfg.ERRORS_QUEUE_PREFIX == "" {
		cfg.ERRORS_QUEUE_PREFIX = "orders.errors"
	}
	if cfg.COMMANDS_TOPIC == "" {
		cfg.COMMANDS_TOPIC = "orders.commands"
	}

	raw := os.Getenv("DEALER_ID")
	if raw == "" {
		return nil, errors.New("DEALER_ID is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.New("DEALER_ID must be a positive integer")
	}
	cfg.DEALER_ID = id

	cfg.RECONNECT_INTERVAL = durationOr("RECONNECT_INTERVAL", 5*time.Second)
	cfg.LOCK_TTL = durationOr("LOCK_TTL", 30*time.Second)

	return cfg, nil
}

func durationOr(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
