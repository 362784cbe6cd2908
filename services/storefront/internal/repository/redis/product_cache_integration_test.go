//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
	"github.com/shestoi/GoBigTech/services/storefront/internal/repository/memory"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(context.Background())) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestCachedProductRepository_Integration(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)
	inner := memory.NewProductRepository()
	repo := NewCachedProductRepository(inner, client, time.Minute, zap.NewNop())

	created, err := repo.Create(ctx, repository.Product{
		Title: "Keyboard",
		Price: decimal.RequireFromString("49.90"),
		Stock: 5,
	})
	require.NoError(t, err)

	exists, err := client.Exists(ctx, productKey(created.ID)).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), exists)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Keyboard", got.Title)
	require.True(t, created.Price.Equal(got.Price))

	// Мутация обновляет кэш, чтение видит новый остаток
	_, err = repo.DecrementStock(ctx, created.ID, 3)
	require.NoError(t, err)
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Stock)

	_, err = repo.DecrementStock(ctx, created.ID, 10)
	require.ErrorIs(t, err, repository.ErrInsufficientStock)
	exists, err = client.Exists(ctx, productKey(created.ID)).Result()
	require.NoError(t, err)
	require.Equal(t, int64(0), exists)

	second, err := inner.Create(ctx, repository.Product{Title: "Mouse", Stock: 1})
	require.NoError(t, err)

	batch, err := repo.GetByIDs(ctx, []string{created.ID, repository.NewID(), second.ID})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	require.Equal(t, created.ID, batch[0].ID)
	require.Equal(t, second.ID, batch[1].ID)

	_, err = repo.Delete(ctx, second.ID)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, second.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCachedProductRepository_RedisDown(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	inner := memory.NewProductRepository()
	repo := NewCachedProductRepository(inner, client, time.Minute, zap.NewNop())

	created, err := repo.Create(ctx, repository.Product{Title: "Offline", Stock: 1})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Offline", got.Title)
}
