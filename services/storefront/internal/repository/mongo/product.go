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

// DefaultOpTimeout - таймаут одной операции с MongoDB, если не задан явно
const DefaultOpTimeout = 5 * time.Second

// ProductRepository реализует repository.ProductRepository используя MongoDB
type ProductRepository struct {
	col       *mongo.Collection
	opTimeout time.Duration
}

// NewProductRepository создаёт репозиторий товаров поверх коллекции products
func NewProductRepository(db *mongo.Database, opTimeout time.Duration) *ProductRepository {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &ProductRepository{
		col:       db.Collection(productsCollection),
		opTimeout: opTimeout,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product repository.Product) (repository.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	id := primitive.NewObjectID()
	if product.ID != "" {
		oid, err := primitive.ObjectIDFromHex(product.ID)
		if err != nil {
			return repository.Product{}, fmt.Errorf("invalid product id %q: %w", product.ID, err)
		}
		id = oid
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	product.CreatedAt = now
	product.UpdatedAt = now

	doc, err := productFromDomain(product, id)
	if err != nil {
		return repository.Product{}, err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return repository.Product{}, fmt.Errorf("insert product: %w", err)
	}

	product.ID = id.Hex()
	return product, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (repository.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.Product{}, repository.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var doc ProductDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.Product{}, repository.ErrNotFound
		}
		return repository.Product{}, fmt.Errorf("find product: %w", err)
	}
	return doc.toDomain()
}

// GetByIDs выполняет один запрос с $in; невалидные ID пропускаются
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]repository.Product, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []repository.Product{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return decodeProducts(ctx, cur)
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]repository.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products, err := decodeProducts(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, patch repository.ProductPatch) (repository.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.Product{}, repository.ErrNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Code != nil {
		set["code"] = *patch.Code
	}
	if patch.Price != nil {
		price, err := encodePrice(*patch.Price)
		if err != nil {
			return repository.Product{}, err
		}
		set["price"] = price
	}
	if patch.Stock != nil {
		set["stock"] = int64(*patch.Stock)
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (repository.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.Product{}, repository.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var doc ProductDocument
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.Product{}, repository.ErrNotFound
		}
		return repository.Product{}, fmt.Errorf("delete product: %w", err)
	}
	return doc.toDomain()
}

// DecrementStock атомарно уменьшает stock с условием stock >= quantity.
// Если документ не найден, отдельным запросом выясняем причину: нет товара или не хватает остатка.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (repository.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.Product{}, repository.ErrNotFound
	}

	filter := bson.M{
		"_id":   oid,
		"stock": bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	product, err := r.findOneAndUpdate(ctx, filter, update)
	if !errors.Is(err, repository.ErrNotFound) {
		return product, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return repository.Product{}, fmt.Errorf("count product: %w", err)
	}
	if n == 0 {
		return repository.Product{}, repository.ErrNotFound
	}
	return repository.Product{}, repository.ErrInsufficientStock
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, quantity int) (repository.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.Product{}, repository.ErrNotFound
	}

	update := bson.M{
		"$inc": bson.M{"stock": quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update)
}

func (r *ProductRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (repository.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc ProductDocument
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.Product{}, repository.ErrNotFound
		}
		return repository.Product{}, fmt.Errorf("update product: %w", err)
	}
	return doc.toDomain()
}

func decodeProducts(ctx context.Context, cur *mongo.Cursor) ([]repository.Product, error) {
	defer cur.Close(ctx)

	var docs []ProductDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]repository.Product, 0, len(docs))
	for _, doc := range docs {
		product, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
