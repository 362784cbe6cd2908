package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	platformkafka "github.com/shestoi/GoBigTech/platform/kafka"
)

// Env представляет окружение приложения
type Env string

const (
	// EnvLocal - локальное окружение (для разработки на хосте)
	EnvLocal Env = "local"
	// EnvDocker - Docker окружение (для запуска в контейнерах)
	EnvDocker Env = "docker"
)

// StorageDriver выбирает реализацию хранилищ
type StorageDriver string

const (
	StorageMongo  StorageDriver = "mongo"
	StorageMemory StorageDriver = "memory"
)

// Config содержит конфигурацию Storefront Service
type Config struct {
	AppEnv            Env
	HTTPAddr          string
	LogLevel          string
	LogFormat         string
	StorageDriver     StorageDriver
	MongoURI          string
	MongoDBName       string
	MongoOpTimeout    time.Duration
	RedisAddr         string
	ProductCacheTTL   time.Duration
	CompensateStock   bool
	ShutdownTimeout   time.Duration
	OTelEnabled       bool
	OTelEndpoint      string
	OTelSamplingRatio float64
	Kafka             platformkafka.Config
}

// Load загружает конфигурацию из переменных окружения.
// Если рядом лежит .env, его значения подхватываются, но не перекрывают уже заданные переменные.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{}

	// Читаем APP_ENV
	appEnvStr := getString("APP_ENV", string(EnvLocal))
	appEnv := Env(appEnvStr)
	if appEnv != EnvLocal && appEnv != EnvDocker {
		return Config{}, fmt.Errorf("invalid APP_ENV: %s (must be 'local' or 'docker')", appEnvStr)
	}
	cfg.AppEnv = appEnv

	// HTTP_ADDR
	if cfg.AppEnv == EnvLocal {
		cfg.HTTPAddr = getString("HTTP_ADDR", "127.0.0.1:8080")
	} else {
		cfg.HTTPAddr = getString("HTTP_ADDR", "0.0.0.0:8080")
	}

	cfg.LogLevel = getString("LOG_LEVEL", "info")
	cfg.LogFormat = getString("LOG_FORMAT", "")

	cfg.StorageDriver = StorageDriver(strings.ToLower(getString("STORAGE_DRIVER", string(StorageMongo))))

	// STOREFRONT_MONGO_URI
	if cfg.AppEnv == EnvLocal {
		cfg.MongoURI = getString("STOREFRONT_MONGO_URI", "mongodb://127.0.0.1:27017")
	} else {
		cfg.MongoURI = getString("STOREFRONT_MONGO_URI", "mongodb://mongo:27017")
	}
	cfg.MongoDBName = getString("STOREFRONT_MONGO_DB", "storefront")

	var err error
	if cfg.MongoOpTimeout, err = getDuration("MONGO_OP_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	// REDIS_ADDR: пустое значение выключает кэш товаров
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.ProductCacheTTL, err = getDuration("PRODUCT_CACHE_TTL", time.Minute); err != nil {
		return Config{}, err
	}

	cfg.CompensateStock = getBool("CART_COMPENSATE_STOCK", true)

	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	// OpenTelemetry
	cfg.OTelEnabled = getBool("OTEL_ENABLED", false)
	if cfg.AppEnv == EnvLocal {
		cfg.OTelEndpoint = getString("OTEL_EXPORTER_OTLP_ENDPOINT", "127.0.0.1:4317")
	} else {
		cfg.OTelEndpoint = getString("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317")
	}
	cfg.OTelSamplingRatio = getFloat64("OTEL_SAMPLING_RATIO", 1.0)

	// Kafka читается через caarlos0/env
	if cfg.Kafka, err = platformkafka.LoadEnv(); err != nil {
		return Config{}, err
	}

	// Валидация
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	switch c.StorageDriver {
	case StorageMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("STOREFRONT_MONGO_URI is required")
		}
		if c.MongoDBName == "" {
			return fmt.Errorf("STOREFRONT_MONGO_DB is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: %s (must be 'mongo' or 'memory')", c.StorageDriver)
	}
	if c.MongoOpTimeout <= 0 {
		return fmt.Errorf("MONGO_OP_TIMEOUT must be positive")
	}
	if c.RedisAddr != "" && c.ProductCacheTTL <= 0 {
		return fmt.Errorf("PRODUCT_CACHE_TTL must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.OTelEnabled && (c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1) {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be in [0, 1]")
	}
	return nil
}

// Log выводит конфигурацию в лог (с маскировкой паролей)
func (c Config) Log(logger *zap.Logger) {
	logger.Info("config loaded",
		zap.String("app_env", string(c.AppEnv)),
		zap.String("http_addr", c.HTTPAddr),
		zap.String("storage_driver", string(c.StorageDriver)),
		zap.String("mongo_uri", maskMongoURI(c.MongoURI)),
		zap.String("mongo_db", c.MongoDBName),
		zap.Duration("mongo_op_timeout", c.MongoOpTimeout),
		zap.String("redis_addr", c.RedisAddr),
		zap.Duration("product_cache_ttl", c.ProductCacheTTL),
		zap.Bool("compensate_stock", c.CompensateStock),
		zap.Duration("shutdown_timeout", c.ShutdownTimeout),
		zap.Bool("otel_enabled", c.OTelEnabled),
		zap.String("otel_endpoint", c.OTelEndpoint),
		zap.Float64("otel_sampling_ratio", c.OTelSamplingRatio),
		zap.Bool("kafka_enabled", c.Kafka.Enabled),
		zap.Strings("kafka_brokers", c.Kafka.Brokers),
		zap.String("kafka_topic", c.Kafka.Topic),
	)
}

// getString читает переменную окружения или возвращает дефолт
func getString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getBool читает булеву переменную окружения или возвращает дефолт
func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getFloat64(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

// maskMongoURI маскирует пароль в MongoDB URI для безопасного логирования
func maskMongoURI(uri string) string {
	scheme := strings.Index(uri, "://")
	at := strings.LastIndex(uri, "@")
	if scheme < 0 || at < scheme {
		return uri
	}
	userInfo := uri[scheme+3 : at]
	colon := strings.Index(userInfo, ":")
	if colon < 0 {
		return uri
	}
	return uri[:scheme+3] + userInfo[:colon+1] + "***" + uri[at:]
}
