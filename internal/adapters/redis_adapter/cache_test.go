// internal/adapters/redis_adapter/cache_test.go
package redis_a_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/warehouse-be/internal/adapters/redis_adapter"
	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
	"github.com/ammerola/warehouse-be/test/helpers"
)

func TestCache_SetAndGet(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
	ctx := context.Background()

	want := []domain.Product{helpers.CreateTestProduct()}
	require.NoError(t, cache.Set(ctx, "catalog:available", want))

	var got []domain.Product
	require.NoError(t, cache.Get(ctx, "catalog:available", &got))
	assert.Equal(t, want, got)
}

func TestCache_GetMissingKeyIsCacheMiss(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	var got []domain.Product
	err := cache.Get(context.Background(), "catalog:nope", &got)

	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCache_SetWithTTLExpires(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
	ctx := context.Background()

	require.NoError(t, cache.SetWithTTL(ctx, "stock:1", int64(12), 5*time.Second))

	var got int64
	require.NoError(t, cache.Get(ctx, "stock:1", &got))
	assert.Equal(t, int64(12), got)

	tr.Server.FastForward(6 * time.Second)

	err := cache.Get(ctx, "stock:1", &got)
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCache_Delete(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "catalog:available", "x"))
	require.NoError(t, cache.Set(ctx, "stock:1", "y"))

	require.NoError(t, cache.Delete(ctx, "catalog:available", "stock:1"))

	var got string
	assert.ErrorIs(t, cache.Get(ctx, "catalog:available", &got), ports.ErrCacheMiss)
	assert.ErrorIs(t, cache.Get(ctx, "stock:1", &got), ports.ErrCacheMiss)
}

func TestCache_DeleteNothingIsNoop(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	assert.NoError(t, cache.Delete(context.Background()))
}

func TestCache_Ping(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	assert.NoError(t, cache.Ping(context.Background()))

	tr.Server.Close()
	assert.Error(t, cache.Ping(context.Background()))
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "catalog:available", redis_a.BuildKey(redis_a.PrefixCatalog, "available"))
	assert.Equal(t, "stock:1:2", redis_a.BuildKey(redis_a.PrefixStock, "1", "2"))
}
