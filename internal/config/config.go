package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	platformkafka "github.com/mattf196/henrylabs-takehome/platform/kafka"
)

// Env представляет окружение приложения
type Env string

const (
	// EnvLocal - локальное окружение (для разработки на хосте)
	EnvLocal Env = "local"
	// EnvDocker - Docker окружение (для запуска в контейнерах)
	EnvDocker Env = "docker"
)

// Config содержит конфигурацию Checkout Service
type Config struct {
	AppEnv   Env
	HTTPAddr string
	// FrontendOrigin - единственный origin, которому разрешены вызовы /checkout*
	FrontendOrigin string
	// WebhookWaitTimeout - бюджет ожидания deferred webhook
	WebhookWaitTimeout time.Duration
	// RetryMaxAttempts - общий лимит попыток вызова шлюза
	RetryMaxAttempts int
	// RetryBaseDelay - базовая задержка экспоненциального backoff
	RetryBaseDelay time.Duration
	// GatewaySeed - seed симулятора шлюза; 0 = недетерминированный
	GatewaySeed int64
	// Kafka - настройки публикации событий; пустой KAFKA_BROKERS отключает её
	Kafka platformkafka.Config
	// OtelEnabled/OtelEndpoint/OtelSamplingRatio - экспорт трейсов и метрик
	OtelEnabled       bool
	OtelEndpoint      string
	OtelSamplingRatio float64
	ShutdownTimeout   time.Duration
}

// Load загружает конфигурацию из переменных окружения
// Читает APP_ENV и устанавливает дефолты в зависимости от окружения
func Load() (Config, error) {
	cfg := Config{}

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

	// FRONTEND_ORIGIN
	if cfg.AppEnv == EnvLocal {
		cfg.FrontendOrigin = getString("FRONTEND_ORIGIN", "http://localhost:5173")
	} else {
		cfg.FrontendOrigin = getString("FRONTEND_ORIGIN", "http://frontend:5173")
	}

	// WEBHOOK_WAIT_TIMEOUT
	webhookWait, err := getDuration("WEBHOOK_WAIT_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	cfg.WebhookWaitTimeout = webhookWait

	// RETRY_MAX_ATTEMPTS
	cfg.RetryMaxAttempts = getInt("RETRY_MAX_ATTEMPTS", 3)

	// RETRY_BASE_DELAY
	retryBase, err := getDuration("RETRY_BASE_DELAY", "500ms")
	if err != nil {
		return Config{}, err
	}
	cfg.RetryBaseDelay = retryBase

	// GATEWAY_SEED
	cfg.GatewaySeed = int64(getInt("GATEWAY_SEED", 0))

	// KAFKA_BROKERS / CHECKOUT_EVENTS_TOPIC
	if err := platformkafka.LoadEnv(&cfg.Kafka); err != nil {
		return Config{}, fmt.Errorf("invalid kafka config: %w", err)
	}

	// OTEL_*
	cfg.OtelEnabled = getBool("OTEL_ENABLED", false)
	if cfg.AppEnv == EnvLocal {
		cfg.OtelEndpoint = getString("OTEL_ENDPOINT", "127.0.0.1:4317")
	} else {
		cfg.OtelEndpoint = getString("OTEL_ENDPOINT", "otel-collector:4317")
	}
	cfg.OtelSamplingRatio = getFloat("OTEL_SAMPLING_RATIO", 1.0)

	// SHUTDOWN_TIMEOUT
	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout = shutdownTimeout

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
	if c.FrontendOrigin == "" {
		return fmt.Errorf("FRONTEND_ORIGIN is required")
	}
	if c.WebhookWaitTimeout <= 0 {
		return fmt.Errorf("WEBHOOK_WAIT_TIMEOUT must be positive")
	}
	if c.RetryMaxAttempts <= 0 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be positive")
	}
	if c.RetryBaseDelay <= 0 {
		return fmt.Errorf("RETRY_BASE_DELAY must be positive")
	}
	if c.OtelSamplingRatio < 0 || c.OtelSamplingRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be in [0, 1]")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Log выводит конфигурацию в лог
func (c Config) Log() {
	log.Printf("Config loaded:")
	log.Printf("  APP_ENV: %s", c.AppEnv)
	log.Printf("  HTTP_ADDR: %s", c.HTTPAddr)
	log.Printf("  FRONTEND_ORIGIN: %s", c.FrontendOrigin)
	log.Printf("  WEBHOOK_WAIT_TIMEOUT: %s", c.WebhookWaitTimeout)
	log.Printf("  RETRY_MAX_ATTEMPTS: %d", c.RetryMaxAttempts)
	log.Printf("  RETRY_BASE_DELAY: %s", c.RetryBaseDelay)
	log.Printf("  KAFKA_BROKERS: %v", c.Kafka.Brokers)
	log.Printf("  CHECKOUT_EVENTS_TOPIC: %s", c.Kafka.Topic)
	log.Printf("  OTEL_ENABLED: %v", c.OtelEnabled)
	log.Printf("  SHUTDOWN_TIMEOUT: %s", c.ShutdownTimeout)
}

// getString читает переменную окружения или возвращает дефолт
func getString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getInt читает целочисленную переменную окружения или возвращает дефолт
func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
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

// getFloat читает вещественную переменную окружения или возвращает дефолт
func getFloat(key string, defaultValue float64) float64 {
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

// getDuration читает duration-переменную окружения или возвращает дефолт
func getDuration(key, defaultValue string) (time.Duration, error) {
	value := getString(key, defaultValue)
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
