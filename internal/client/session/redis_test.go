package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisKV_UsesPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	kv := NewRedisKV(client, "hospitaladmin:")

	require.NoError(t, kv.Set(ctx, "user_session", []byte(`{"id":"u-1"}`)))
	raw, err := mr.Get("hospitaladmin:user_session")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u-1"}`, raw)

	got, err := kv.Get(ctx, "user_session")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"u-1"}`), got)

	require.NoError(t, kv.Delete(ctx, "user_session"))
	assert.False(t, mr.Exists("hospitaladmin:user_session"))

	got, err = kv.Get(ctx, "user_session")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisKV_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err = NewRedisKV(client, "").Get(context.Background(), "k")
	assert.ErrorContains(t, err, "redis get k")
}

func TestNewRedisClient_PingFails(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisClient(context.Background(), addr, "", 0)
	assert.ErrorContains(t, err, "redis ping")
}
