package config

import (
	"strings"
	"time"
)

// Storage backends for the tournament document.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// StorageConfig selects where the tournament document is persisted.
type StorageConfig struct {
	Backend       string
	Path          string
	Key           string
	RedisURL      string
	DatabaseURL   string
	Timeout       time.Duration
	RetryAttempts int
}

func loadStorage() StorageConfig {
	backend := strings.ToLower(strings.TrimSpace(envOrDefault(envStoreBackend, defaultStoreBackend)))
	switch backend {
	case BackendFile, BackendRedis, BackendPostgres, BackendMemory:
	default:
		backend = defaultStoreBackend
	}
	return StorageConfig{
		Backend:       backend,
		Path:          envOrDefault(envStorePath, defaultStorePath),
		Key:           envOrDefault(envStoreKey, defaultStoreKey),
		RedisURL:      envOrDefault(envRedisURL, defaultRedisURL),
		DatabaseURL:   envOrDefault(envDatabaseURL, ""),
		Timeout:       durationEnvOrDefault(envStoreTimeout, defaultStoreTimeout),
		RetryAttempts: intEnvOrDefault(envStoreAttempts, defaultStoreAttempts),
	}
}
