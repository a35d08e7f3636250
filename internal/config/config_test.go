package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_LocalDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != EnvLocal {
		t.Errorf("Expected AppEnv=local, got %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr != "127.0.0.1:8080" {
		t.Errorf("Expected HTTPAddr=127.0.0.1:8080, got %s", cfg.HTTPAddr)
	}
	if cfg.FrontendOrigin != "http://localhost:5173" {
		t.Errorf("Expected FrontendOrigin=http://localhost:5173, got %s", cfg.FrontendOrigin)
	}
	if cfg.WebhookWaitTimeout != 10*time.Second {
		t.Errorf("Expected WebhookWaitTimeout=10s, got %s", cfg.WebhookWaitTimeout)
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Errorf("Expected RetryMaxAttempts=3, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.RetryBaseDelay != 500*time.Millisecond {
		t.Errorf("Expected RetryBaseDelay=500ms, got %s", cfg.RetryBaseDelay)
	}
	if cfg.Kafka.Enabled() {
		t.Errorf("Expected Kafka disabled without KAFKA_BROKERS")
	}
	if cfg.Kafka.Topic != "checkout.events" {
		t.Errorf("Expected Kafka.Topic=checkout.events, got %s", cfg.Kafka.Topic)
	}
	if cfg.OtelEnabled {
		t.Errorf("Expected OtelEnabled=false by default")
	}
}

func TestLoad_DockerDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "docker")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != EnvDocker {
		t.Errorf("Expected AppEnv=docker, got %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("Expected HTTPAddr=0.0.0.0:8080, got %s", cfg.HTTPAddr)
	}
	if cfg.FrontendOrigin != "http://frontend:5173" {
		t.Errorf("Expected FrontendOrigin=http://frontend:5173, got %s", cfg.FrontendOrigin)
	}
	if cfg.OtelEndpoint != "otel-collector:4317" {
		t.Errorf("Expected OtelEndpoint=otel-collector:4317, got %s", cfg.OtelEndpoint)
	}
}

func TestLoad_InvalidAppEnv(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for invalid APP_ENV")
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "local")
	os.Setenv("WEBHOOK_WAIT_TIMEOUT", "2s")
	os.Setenv("RETRY_MAX_ATTEMPTS", "5")
	os.Setenv("RETRY_BASE_DELAY", "100ms")
	os.Setenv("FRONTEND_ORIGIN", "https://shop.example.com")
	os.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.WebhookWaitTimeout != 2*time.Second {
		t.Errorf("Expected WebhookWaitTimeout=2s, got %s", cfg.WebhookWaitTimeout)
	}
	if cfg.RetryMaxAttempts != 5 {
		t.Errorf("Expected RetryMaxAttempts=5, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.RetryBaseDelay != 100*time.Millisecond {
		t.Errorf("Expected RetryBaseDelay=100ms, got %s", cfg.RetryBaseDelay)
	}
	if cfg.FrontendOrigin != "https://shop.example.com" {
		t.Errorf("Expected FrontendOrigin override, got %s", cfg.FrontendOrigin)
	}
	if !cfg.Kafka.Enabled() {
		t.Errorf("Expected Kafka enabled with KAFKA_BROKERS set")
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Expected 2 brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "local")
	os.Setenv("WEBHOOK_WAIT_TIMEOUT", "not-a-duration")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for invalid WEBHOOK_WAIT_TIMEOUT")
	}
}

func TestLoad_NegativeRetryAttempts(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "local")
	os.Setenv("RETRY_MAX_ATTEMPTS", "-1")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for negative RETRY_MAX_ATTEMPTS")
	}
}
