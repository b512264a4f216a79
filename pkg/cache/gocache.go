package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type localCache struct {
	inner *gocache.Cache
}

// NewLocalCache builds an in-process cache backed by go-cache.
func NewLocalCache(cfg LocalConfig) Cache {
	if cfg.DefaultExpiration == 0 {
		cfg.DefaultExpiration = 5 * time.Minute
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}
	return &localCache{inner: gocache.New(cfg.DefaultExpiration, cfg.CleanupInterval)}
}

func (lc *localCache) Get(_ context.Context, key string) (interface{}, bool) {
	return lc.inner.Get(key)
}

func (lc *localCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	lc.inner.Set(key, value, expiration)
	return nil
}

func (lc *localCache) Delete(_ context.Context, key string) error {
	lc.inner.Delete(key)
	return nil
}

func (lc *localCache) Close() error { return nil }
