package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

// CartRepository реализует repository.CartRepository используя MongoDB
type CartRepository struct {
	col       *mongo.Collection
	opTimeout time.Duration
}

// NewCartRepository создаёт репозиторий корзин поверх коллекции carts
func NewCartRepository(db *mongo.Database, opTimeout time.Duration) *CartRepository {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &CartRepository{
		col:       db.Collection(cartsCollection),
		opTimeout: opTimeout,
	}
}

func (r *CartRepository) Create(ctx context.Context, cart repository.Cart) (repository.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := CartDocument{
		ID:        primitive.NewObjectID(),
		Products:  itemsToDocuments(cart.Items),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return repository.Cart{}, fmt.Errorf("insert cart: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CartRepository) GetByID(ctx context.Context, id string) (repository.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.Cart{}, repository.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var doc CartDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.Cart{}, repository.ErrNotFound
		}
		return repository.Cart{}, fmt.Errorf("find cart: %w", err)
	}
	return doc.toDomain(), nil
}

// ReplaceItems перезаписывает массив products одним FindOneAndUpdate
func (r *CartRepository) ReplaceItems(ctx context.Context, id string, items []repository.LineItem) (repository.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.Cart{}, repository.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"products":   itemsToDocuments(items),
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc CartDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.Cart{}, repository.ErrNotFound
		}
		return repository.Cart{}, fmt.Errorf("update cart: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
