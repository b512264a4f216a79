package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCacheRoundTrip(t *testing.T) {
	c := NewLocalCache(LocalConfig{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestLocalCacheExpiration(t *testing.T) {
	c := NewLocalCache(LocalConfig{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, 20*time.Millisecond))
	time.Sleep(50 * time.Millisecond)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestFactory(t *testing.T) {
	c, err := NewCache(Config{Type: "local"})
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = NewCache(Config{Type: "bogus"})
	assert.Error(t, err)
}
