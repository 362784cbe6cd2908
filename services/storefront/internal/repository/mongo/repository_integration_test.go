//go:build integration

package mongo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

func setupDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Поднимаем MongoDB контейнер без auth
	mongoC, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, mongoC.Terminate(context.Background())) })

	uri, err := mongoC.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	// Ждём готовности MongoDB (ping с retry)
	var pingErr error
	for i := 0; i < 20; i++ {
		pingErr = client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		if pingErr == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, pingErr, "MongoDB did not become ready in time")

	return client.Database("storefront")
}

func TestProductRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupDatabase(t)
	repo := NewProductRepository(db, 5*time.Second)

	created, err := repo.Create(ctx, repository.Product{
		Title:       "Keyboard",
		Description: "Mechanical",
		Code:        "KB-1",
		Price:       decimal.RequireFromString("49.90"),
		Stock:       5,
	})
	require.NoError(t, err)
	require.True(t, repository.ValidID(created.ID))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Keyboard", got.Title)
	require.True(t, decimal.RequireFromString("49.90").Equal(got.Price))

	// Остаток 5, заказ 3 -> 2
	updated, err := repo.DecrementStock(ctx, created.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 2, updated.Stock)

	// Заказ больше остатка не меняет документ
	_, err = repo.DecrementStock(ctx, created.ID, 10)
	require.ErrorIs(t, err, repository.ErrInsufficientStock)

	_, err = repo.DecrementStock(ctx, primitive.NewObjectID().Hex(), 1)
	require.ErrorIs(t, err, repository.ErrNotFound)

	restored, err := repo.IncrementStock(ctx, created.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 5, restored.Stock)

	price := decimal.RequireFromString("39.90")
	patched, err := repo.Update(ctx, created.ID, repository.ProductPatch{Price: &price})
	require.NoError(t, err)
	require.True(t, price.Equal(patched.Price))
	require.Equal(t, "KB-1", patched.Code)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted.ID)

	_, err = repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductRepository_ConcurrentDecrement_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupDatabase(t)
	repo := NewProductRepository(db, 5*time.Second)

	created, err := repo.Create(ctx, repository.Product{Title: "Mouse", Price: decimal.NewFromInt(10), Stock: 10})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.DecrementStock(ctx, created.ID, 1)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Stock)
}

func TestProductRepository_ListAndLegacyPrice_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupDatabase(t)
	repo := NewProductRepository(db, 5*time.Second)

	// Документ в старом формате: цена как double
	legacyID := primitive.NewObjectID()
	_, err := db.Collection(productsCollection).InsertOne(ctx, bson.M{
		"_id":   legacyID,
		"title": "Legacy",
		"price": 12.5,
		"stock": int32(3),
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, repository.Product{Title: "p", Price: decimal.NewFromInt(1), Stock: 1})
		require.NoError(t, err)
	}

	page, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, page, 2)
	require.Equal(t, legacyID.Hex(), page[0].ID)
	require.True(t, decimal.RequireFromString("12.5").Equal(page[0].Price))

	found, err := repo.GetByIDs(ctx, []string{legacyID.Hex(), primitive.NewObjectID().Hex(), "bad"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestCartRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupDatabase(t)
	repo := NewCartRepository(db, 5*time.Second)

	p1 := primitive.NewObjectID().Hex()
	p2 := primitive.NewObjectID().Hex()

	cart, err := repo.Create(ctx, repository.Cart{Items: []repository.LineItem{{ProductID: p1, Quantity: 2}}})
	require.NoError(t, err)

	replaced, err := repo.ReplaceItems(ctx, cart.ID, []repository.LineItem{
		{ProductID: p2, Quantity: 1},
		{ProductID: p1, Quantity: 4},
	})
	require.NoError(t, err)
	require.Equal(t, []repository.LineItem{{ProductID: p2, Quantity: 1}, {ProductID: p1, Quantity: 4}}, replaced.Items)

	got, err := repo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Equal(t, replaced.Items, got.Items)

	require.NoError(t, repo.Delete(ctx, cart.ID))
	require.ErrorIs(t, repo.Delete(ctx, cart.ID), repository.ErrNotFound)

	_, err = repo.ReplaceItems(ctx, cart.ID, nil)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCartRepository_MalformedItem_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupDatabase(t)
	repo := NewCartRepository(db, 5*time.Second)

	id := primitive.NewObjectID()
	_, err := db.Collection(cartsCollection).InsertOne(ctx, bson.M{
		"_id": id,
		"products": bson.A{
			bson.M{"product": nil, "quantity": 1},
			bson.M{"product": "not-an-id", "quantity": 2},
		},
	})
	require.NoError(t, err)

	cart, err := repo.GetByID(ctx, id.Hex())
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	require.Empty(t, cart.Items[0].ProductID)
	require.Empty(t, cart.Items[1].ProductID)
}
