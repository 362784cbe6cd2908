package kafka

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config содержит конфигурацию для подключения к Kafka
type Config struct {
	// Enabled - публиковать ли события. При false сервис работает без брокера.
	Enabled bool `env:"KAFKA_ENABLED" envDefault:"false"`
	// Brokers - список брокеров через запятую: "broker1:9092,broker2:9092".
	// Локально: localhost:19092, в Docker: kafka:9092.
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:19092"`
	// Topic - топик доменных событий витрины
	Topic string `env:"STOREFRONT_EVENTS_TOPIC" envDefault:"storefront.events"`
}

// LoadEnv загружает конфигурацию из переменных окружения через env-теги
func LoadEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse kafka env: %w", err)
	}
	if cfg.Enabled && (len(cfg.Brokers) == 0 || cfg.Topic == "") {
		return Config{}, fmt.Errorf("KAFKA_BROKERS and STOREFRONT_EVENTS_TOPIC are required when KAFKA_ENABLED=true")
	}
	return cfg, nil
}
