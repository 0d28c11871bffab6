package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type deletableCache interface {
	port.PersistentCache
	Delete(ctx context.Context, key string) (bool, error)
}

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_cache_entries.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func startRedis(ctx context.Context) (testcontainers.Container, string, error) {
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.4-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("testcontainers.GenericContainer: %w", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		return nil, "", fmt.Errorf("rc.Endpoint: %w", err)
	}

	return redisContainer, endpoint, nil
}

// runCacheTests exercises the behavior every PersistentCache must share.
func runCacheTests(t *testing.T, cache deletableCache) {
	t.Run("read missing key: cache miss", func(t *testing.T) {
		_, err := cache.Read(t.Context(), randomKey())
		require.ErrorIs(t, err, port.ErrCacheMiss)
	})

	t.Run("write then read: ok", func(t *testing.T) {
		ctx := t.Context()
		key := randomKey()
		value := []byte(gofakeit.Sentence(8))

		require.NoError(t, cache.Write(ctx, key, value))

		got, err := cache.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("overwrite keeps last value: ok", func(t *testing.T) {
		ctx := t.Context()
		key := randomKey()

		require.NoError(t, cache.Write(ctx, key, []byte(`[{"id":1}]`)))
		require.NoError(t, cache.Write(ctx, key, []byte(`[]`)))

		got, err := cache.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), got)
	})

	t.Run("delete existing and missing key: ok", func(t *testing.T) {
		ctx := t.Context()
		key := randomKey()

		require.NoError(t, cache.Write(ctx, key, []byte("x")))

		deleted, err := cache.Delete(ctx, key)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = cache.Delete(ctx, key)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = cache.Read(ctx, key)
		require.ErrorIs(t, err, port.ErrCacheMiss)
	})

	t.Run("empty key: error", func(t *testing.T) {
		ctx := t.Context()

		_, err := cache.Read(ctx, "")
		require.EqualError(t, err, "key is empty")

		err = cache.Write(ctx, "", []byte("x"))
		require.EqualError(t, err, "key is empty")
	})
}

func randomKey() string {
	return "@" + gofakeit.AppName() + ":" + gofakeit.UUID()
}
