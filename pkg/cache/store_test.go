package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantcache/pkg/cache"
)

type payload struct {
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Fields  []string `json:"fields"`
}

func TestNewLRUStore(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		t.Parallel()

		s, err := cache.NewLRUStore[int64, string](0)
		require.ErrorIs(t, err, cache.ErrInvalidCapacity)
		assert.Nil(t, s)
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		var evicted []int64
		s, err := cache.NewLRUStore[int64, string](1,
			cache.WithTTL[int64, string](time.Minute),
			cache.WithClock[int64, string](clock.Now),
			cache.WithEvictCallback[int64, string](func(k int64, _ string) { evicted = append(evicted, k) }),
		)
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, s.Set(ctx, 1, "a"))
		require.NoError(t, s.Set(ctx, 2, "b"))
		assert.Equal(t, []int64{1}, evicted)

		clock.Advance(2 * time.Minute)
		_, ok, err := s.Get(ctx, 2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, s.Len())
	})
}

func TestLRUStore_Operations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := cache.NewLRUStore[int64, string](10)
	require.NoError(t, err)

	v, ok, err := s.Get(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	require.NoError(t, s.Set(ctx, 5, "schemaA"))
	require.NoError(t, s.Set(ctx, 6, "other"))

	v, ok, err = s.Get(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "schemaA", v)

	require.NoError(t, s.Delete(ctx, 5))
	require.NoError(t, s.Delete(ctx, 5), "deleting a missing key is a no-op")

	_, ok, _ = s.Get(ctx, 5)
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, 6)
	assert.True(t, ok)

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Purge())

	stats := s.Stats()
	assert.Equal(t, 10, stats.Capacity)
	assert.Equal(t, uint64(2), stats.Hits)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewRedisStore(t *testing.T) {
	t.Parallel()

	s, err := cache.NewRedisStore[int64, payload](nil, "p")
	require.ErrorIs(t, err, cache.ErrNilClient)
	assert.Nil(t, s)
}

func TestRedisStore_Operations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr, client := newRedis(t)

	s, err := cache.NewRedisStore[int64, payload](client, "schemas")
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, 5)
	require.NoError(t, err, "redis.Nil must be a miss, not an error")
	assert.False(t, ok)

	want := payload{Name: "core", Version: 2, Fields: []string{"id", "userName"}}
	require.NoError(t, s.Set(ctx, 5, want))
	assert.True(t, mr.Exists("schemas:5"))

	got, ok, err := s.Get(ctx, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	replaced := payload{Name: "core", Version: 3}
	require.NoError(t, s.Set(ctx, 5, replaced))
	got, _, _ = s.Get(ctx, 5)
	assert.Equal(t, replaced, got)

	require.NoError(t, s.Delete(ctx, 5))
	require.NoError(t, s.Delete(ctx, 5))
	_, ok, err = s.Get(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_TTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr, client := newRedis(t)

	s, err := cache.NewRedisStore[int64, payload](client, "ttl", cache.WithRedisTTL[int64, payload](time.Minute))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, 1, payload{Name: "a"}))
	assert.Equal(t, time.Minute, mr.TTL("ttl:1"))

	mr.FastForward(2 * time.Minute)

	_, ok, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ClearOnlyOwnPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr, client := newRedis(t)

	s, err := cache.NewRedisStore[int64, payload](client, "mine", cache.WithScanBatchSize[int64, payload](2))
	require.NoError(t, err)

	for i := range int64(5) {
		require.NoError(t, s.Set(ctx, i, payload{Version: int(i)}))
	}
	require.NoError(t, mr.Set("other:1", "keep"))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 5)

	require.NoError(t, s.Clear(ctx))

	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.True(t, mr.Exists("other:1"))
}

func TestRedisStore_ClearTreatsPrefixLiterally(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for _, prefix := range []string{"t*", "t?", "t[ab]", `t\x`} {
		t.Run(prefix, func(t *testing.T) {
			t.Parallel()

			mr, client := newRedis(t)
			s, err := cache.NewRedisStore[int64, payload](client, prefix)
			require.NoError(t, err)

			require.NoError(t, s.Set(ctx, 1, payload{Name: "own"}))
			for _, k := range []string{"ta:1", "tb:1", "tx:1", "t:1"} {
				require.NoError(t, mr.Set(k, "keep"))
			}

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{prefix + ":1"}, keys)

			require.NoError(t, s.Clear(ctx))
			assert.False(t, mr.Exists(prefix+":1"))
			for _, k := range []string{"ta:1", "tb:1", "tx:1", "t:1"} {
				assert.True(t, mr.Exists(k), "key %q belongs to another store", k)
			}
		})
	}
}

func TestRedisStore_Failures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("corrupt value is a codec error", func(t *testing.T) {
		t.Parallel()

		mr, client := newRedis(t)
		s, err := cache.NewRedisStore[int64, payload](client, "bad")
		require.NoError(t, err)

		require.NoError(t, mr.Set("bad:1", "{not json"))

		_, ok, err := s.Get(ctx, 1)
		require.ErrorIs(t, err, cache.ErrCodec)
		assert.False(t, ok)
	})

	t.Run("unreachable server is a store failure", func(t *testing.T) {
		t.Parallel()

		mr, err := miniredis.Run()
		require.NoError(t, err)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = client.Close() })

		s, err := cache.NewRedisStore[int64, payload](client, "down")
		require.NoError(t, err)

		mr.Close()

		_, ok, err := s.Get(ctx, 1)
		require.ErrorIs(t, err, cache.ErrStoreFailure)
		assert.False(t, ok)
		assert.ErrorIs(t, s.Set(ctx, 1, payload{}), cache.ErrStoreFailure)
		assert.ErrorIs(t, s.Delete(ctx, 1), cache.ErrStoreFailure)
		assert.ErrorIs(t, s.Clear(ctx), cache.ErrStoreFailure)
	})
}

type prefixCodec struct{}

func (prefixCodec) Marshal(v string) ([]byte, error) { return []byte("v=" + v), nil }

func (prefixCodec) Unmarshal(data []byte) (string, error) {
	if len(data) < 2 {
		return "", errors.New("short")
	}
	return string(data[2:]), nil
}

func TestRedisStore_CustomCodecAndKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr, client := newRedis(t)

	s, err := cache.NewRedisStore[int64, string](client, "custom",
		cache.WithCodec[int64, string](prefixCodec{}),
		cache.WithKeyFunc[int64, string](func(k int64) string { return fmt.Sprintf("tenant-%03d", k) }),
	)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, 7, "x"))
	raw, err := mr.Get("custom:tenant-007")
	require.NoError(t, err)
	assert.Equal(t, "v=x", raw)

	got, ok, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", got)
}

func TestLRUStore_PurgeLoop(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s, err := cache.NewLRUStore[int64, string](10,
		cache.WithTTL[int64, string](time.Second),
		cache.WithClock[int64, string](clock.Now),
		cache.WithPurgeInterval[int64, string](5*time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, 1, "a"))
	require.NoError(t, s.Set(ctx, 2, "b"))
	clock.Advance(2 * time.Second)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(2), s.Stats().Evictions)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")
}

func TestLRUStore_CloseWithoutPurgeLoop(t *testing.T) {
	t.Parallel()

	s, err := cache.NewLRUStore[int64, string](1)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
