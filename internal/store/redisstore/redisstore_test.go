// internal/store/redisstore/redisstore_test.go

package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Version string `json:"version"`
	Total   int    `json:"total"`
}

func newTestCache(t *testing.T) (*EvalCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewWithClient(client, 5*time.Minute), mr
}

func TestPutGetRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	in := payload{Version: "v42", Total: 17}
	require.NoError(t, cache.Put(ctx, "v42|all|all|", in))

	var out payload
	found, err := cache.Get(ctx, "v42|all|all|", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestGetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	var out payload
	found, err := cache.Get(context.Background(), "v1|all|all|", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "v1|all|all|", payload{Version: "v1"}))
	mr.FastForward(6 * time.Minute)

	var out payload
	found, err := cache.Get(ctx, "v1|all|all|", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, mr.Set("eval:v1|all|all|", "{not json"))

	var out payload
	found, err := cache.Get(context.Background(), "v1|all|all|", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidateDropsOnlyMatchingVersion(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "v1|all|all|", payload{Version: "v1"}))
	require.NoError(t, cache.Put(ctx, "v1|c-001|safety|", payload{Version: "v1"}))
	require.NoError(t, cache.Put(ctx, "v2|all|all|", payload{Version: "v2"}))

	require.NoError(t, cache.Invalidate(ctx, "v1"))

	var out payload
	found, err := cache.Get(ctx, "v1|c-001|safety|", &out)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = cache.Get(ctx, "v2|all|all|", &out)
	require.NoError(t, err)
	assert.True(t, found)
}
