package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cachedPost struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()

	// Act
	require.NoError(t, c.Set(ctx, "post:1", cachedPost{ID: 1, Title: "hola"}, 0))
	var got cachedPost
	hit, err := c.Get(ctx, "post:1", &got)

	// Assert
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, cachedPost{ID: 1, Title: "hola"}, got)

	require.NoError(t, c.Delete(ctx, "post:1"))
	hit, err = c.Get(ctx, "post:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute, time.Hour)
	defer c.Stop()

	require.NoError(t, c.Set(ctx, "k", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var v int
	hit, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestAsyncCacheHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()
	log := zap.NewNop()

	AsyncCacheSet(c, "k", "v", 0, log)
	assert.Eventually(t, func() bool {
		var s string
		hit, _ := c.Get(ctx, "k", &s)
		return hit && s == "v"
	}, time.Second, 5*time.Millisecond)

	AsyncCacheDelete(c, "k", log)
	assert.Eventually(t, func() bool {
		var s string
		hit, _ := c.Get(ctx, "k", &s)
		return !hit
	}, time.Second, 5*time.Millisecond)

	// Con caché nil no hace nada.
	AsyncCacheSet(nil, "k", "v", 0, log)
}
