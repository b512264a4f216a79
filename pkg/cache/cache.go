package cache

import (
	"context"
	"time"
)

// Cache is the storage-agnostic cache used for hot lookups (authenticated
// user records, rate counters).
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Type  string // "local" or "redis"
	Redis RedisConfig
	Local LocalConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LocalConfig struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}
