package redis

import (
	"context"
	"os"
	"testing"
	"time"
)

// getTestConfig returns config for testing
func getTestConfig() *Config {
	cfg := DefaultConfig()

	if host := os.Getenv("TEST_REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	if password := os.Getenv("TEST_REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}

	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Host != "localhost" {
		t.Errorf("Expected host 'localhost', got '%s'", cfg.Host)
	}
	if cfg.Port != 6379 {
		t.Errorf("Expected port 6379, got %d", cfg.Port)
	}
	if cfg.PoolSize != 100 {
		t.Errorf("Expected pool size 100, got %d", cfg.PoolSize)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("Expected max retries 3, got %d", cfg.MaxRetries)
	}
}

func TestConfig_Addr(t *testing.T) {
	cfg := &Config{
		Host: "redis.example.com",
		Port: 6380,
	}

	expected := "redis.example.com:6380"
	if cfg.Addr() != expected {
		t.Errorf("Expected addr '%s', got '%s'", expected, cfg.Addr())
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := &Config{
		Host:          "invalid-host-that-does-not-exist",
		Port:          9999,
		MaxRetries:    0,
		RetryInterval: 100 * time.Millisecond,
		DialTimeout:   500 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewClient(ctx, cfg)
	if err == nil {
		t.Error("Expected error for invalid config, got nil")
	}
}

// Integration tests - require Redis to be running

func TestNewClient_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := getTestConfig()
	ctx := context.Background()

	client, err := NewClient(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}
	defer client.Close()

	// Test Ping
	if err := client.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	// Test IsConnected
	if !client.IsConnected(ctx) {
		t.Error("Expected IsConnected to return true")
	}

	// Test underlying client not nil
	if client.Client() == nil {
		t.Error("Expected Client() to return non-nil")
	}
}

func TestClient_HealthCheck_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := getTestConfig()
	ctx := context.Background()

	client, err := NewClient(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}
	defer client.Close()

	if err := client.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}

func TestClient_BasicOperations_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := getTestConfig()
	ctx := context.Background()

	client, err := NewClient(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}
	defer client.Close()

	testKey := "test:key:" + time.Now().Format("20060102150405")

	// Test Set
	err = client.Set(ctx, testKey, "test_value", time.Minute).Err()
	if err != nil {
		t.Errorf("Set failed: %v", err)
	}

	// Test Get
	val, err := client.Get(ctx, testKey).Result()
	if err != nil {
		t.Errorf("Get failed: %v", err)
	}
	if val != "test_value" {
		t.Errorf("Expected 'test_value', got '%s'", val)
	}

	// Test Exists
	exists, err := client.Exists(ctx, testKey).Result()
	if err != nil {
		t.Errorf("Exists failed: %v", err)
	}
	if exists != 1 {
		t.Errorf("Expected exists=1, got %d", exists)
	}

	// Test Del
	deleted, err := client.Del(ctx, testKey).Result()
	if err != nil {
		t.Errorf("Del failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected deleted=1, got %d", deleted)
	}

	// Verify deleted
	exists, _ = client.Exists(ctx, testKey).Result()
	if exists != 0 {
		t.Error("Key should not exist after deletion")
	}
}

func TestClient_CounterOperations_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := getTestConfig()
	ctx := context.Background()

	client, err := NewClient(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}
	defer client.Close()

	testKey := "test:counter:" + time.Now().Format("20060102150405")
	defer client.Del(ctx, testKey)

	n, err := client.IncrBy(ctx, testKey, 10).Result()
	if err != nil {
		t.Fatalf("IncrBy failed: %v", err)
	}
	if n != 10 {
		t.Errorf("Expected 10, got %d", n)
	}

	n, err = client.Decr(ctx, testKey).Result()
	if err != nil {
		t.Fatalf("Decr failed: %v", err)
	}
	if n != 9 {
		t.Errorf("Expected 9, got %d", n)
	}
}
