package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	var got cachedValue
	found, err := GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "key", cachedValue{Name: "a", Count: 2}, time.Minute))

	found, err = GetJSON(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedValue{Name: "a", Count: 2}, got)

	require.NoError(t, Delete(ctx, "key"))
	found, err = GetJSON(ctx, "key", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheAside(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedValue) func() error {
		return func() error {
			calls++
			*dest = cachedValue{Name: "fetched", Count: calls}
			return nil
		}
	}

	var v cachedValue
	require.NoError(t, CacheAside(ctx, "aside", &v, time.Minute, fetch(&v)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", v.Name)

	// второй вызов идет из кеша
	var v2 cachedValue
	require.NoError(t, CacheAside(ctx, "aside", &v2, time.Minute, fetch(&v2)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, v2.Count)

	// после истечения TTL источник вызывается снова
	mr.FastForward(2 * time.Minute)
	var v3 cachedValue
	require.NoError(t, CacheAside(ctx, "aside", &v3, time.Minute, fetch(&v3)))
	assert.Equal(t, 2, calls)
}

func TestCacheAside_FetchError(t *testing.T) {
	withTestRedis(t)

	var v cachedValue
	err := CacheAside(context.Background(), "err-key", &v, time.Minute, func() error {
		return errors.New("db down")
	})
	require.Error(t, err)

	// ошибка не кешируется
	found, err := GetJSON(context.Background(), "err-key", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHelpers_DisabledCache(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	// без Redis все операции no-op и не падают
	require.NoError(t, SetJSON(ctx, "k", cachedValue{}, time.Minute))

	var v cachedValue
	found, err := GetJSON(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, Delete(ctx, "k"))

	calls := 0
	require.NoError(t, CacheAside(ctx, "k", &v, time.Minute, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}
