//go:build integration

package lock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := ConnectRedis(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLocker_Exclusive(t *testing.T) {
	client := setupRedis(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := NewRedisLocker(client, "test:lock:", 5*time.Second, logger)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "p1")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, "p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotAcquired))

	unlock()

	unlock2, err := l.Lock(ctx, "p1")
	require.NoError(t, err)
	unlock2()

	n, err := client.Exists(ctx, "test:lock:p1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRedisLocker_ExpiredLockIsNotReleasedByOldHolder(t *testing.T) {
	client := setupRedis(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := NewRedisLocker(client, "test:lock:", 100*time.Millisecond, logger)
	ctx := context.Background()

	stale, err := l.Lock(ctx, "p2")
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)

	fresh, err := l.Lock(ctx, "p2")
	require.NoError(t, err)
	defer fresh()

	stale()

	n, err := client.Exists(ctx, "test:lock:p2").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
