package redis

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestClient(t *testing.T) *Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set, skipping redis integration test")
	}
	port := 6379
	if p := os.Getenv("REDIS_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		require.NoError(t, err)
		port = parsed
	}

	client, err := NewClient(Config{Host: host, Port: port}, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestLocker(t *testing.T) {
	client := getTestClient(t)
	locker := NewLocker(client, "test-lock:")
	ctx := context.Background()

	t.Run("acquire and release", func(t *testing.T) {
		lock, err := locker.Acquire(ctx, "pair-a", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, lock.Release(ctx))
	})

	t.Run("held lock blocks a second acquire", func(t *testing.T) {
		lock, err := locker.Acquire(ctx, "pair-b", 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = lock.Release(ctx) }()

		_, err = locker.Acquire(ctx, "pair-b", 5*time.Second)
		assert.ErrorIs(t, err, ErrLockNotAcquired)
	})

	t.Run("released lock can be reacquired", func(t *testing.T) {
		lock, err := locker.Acquire(ctx, "pair-c", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, lock.Release(ctx))

		again, err := locker.Acquire(ctx, "pair-c", 5*time.Second)
		require.NoError(t, err)
		_ = again.Release(ctx)
	})

	t.Run("double release reports the lock as lost", func(t *testing.T) {
		lock, err := locker.Acquire(ctx, "pair-d", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, lock.Release(ctx))
		assert.ErrorIs(t, lock.Release(ctx), ErrLockNotHeld)
	})
}
