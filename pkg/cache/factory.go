package cache

import (
	"fmt"
	"strings"
)

// NewCache creates a cache for the configured backend.
func NewCache(cfg Config) (Cache, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "local":
		return NewLocalCache(cfg.Local), nil
	case "redis":
		return NewRedisCache(cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
