package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

// DefaultTTL - время жизни записи товара в кэше по умолчанию
const DefaultTTL = time.Minute

// cachedProduct - JSON представление товара в Redis
type cachedProduct struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Code        string          `json:"code"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CachedProductRepository - read-through кэш товаров поверх другого ProductRepository.
// Ошибки Redis не ломают запрос: они логируются, и чтение идёт в хранилище.
// Каждая мутация записывает свежий документ в кэш или удаляет ключ.
type CachedProductRepository struct {
	inner  repository.ProductRepository
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProductRepository оборачивает inner кэшем в Redis
func NewCachedProductRepository(inner repository.ProductRepository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedProductRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedProductRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (r *CachedProductRepository) Create(ctx context.Context, product repository.Product) (repository.Product, error) {
	created, err := r.inner.Create(ctx, product)
	if err != nil {
		return repository.Product{}, err
	}
	r.store(ctx, created)
	return created, nil
}

func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (repository.Product, error) {
	raw, err := r.client.Get(ctx, productKey(id)).Result()
	switch {
	case err == nil:
		if product, ok := r.decode(id, raw); ok {
			return product, nil
		}
	case err != redis.Nil:
		r.logger.Warn("failed to read product from cache",
			zap.Error(err),
			zap.String("product_id", id),
		)
	}

	product, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return repository.Product{}, err
	}
	r.store(ctx, product)
	return product, nil
}

// GetByIDs читает кэш одним MGET и добирает промахи одним запросом к хранилищу
func (r *CachedProductRepository) GetByIDs(ctx context.Context, ids []string) ([]repository.Product, error) {
	if len(ids) == 0 {
		return []repository.Product{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	found := make(map[string]repository.Product, len(ids))
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Warn("failed to read products from cache", zap.Error(err))
	} else {
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			if product, ok := r.decode(ids[i], raw); ok {
				found[ids[i]] = product
			}
		}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		loaded, err := r.inner.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, product := range loaded {
			found[product.ID] = product
			r.store(ctx, product)
		}
	}

	out := make([]repository.Product, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, id := range ids {
		product, ok := found[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, product)
	}
	return out, nil
}

// List не кэшируется: страницы зависят от вставок и удалений
func (r *CachedProductRepository) List(ctx context.Context, offset, limit int) ([]repository.Product, int64, error) {
	return r.inner.List(ctx, offset, limit)
}

func (r *CachedProductRepository) Update(ctx context.Context, id string, patch repository.ProductPatch) (repository.Product, error) {
	product, err := r.inner.Update(ctx, id, patch)
	return r.afterMutation(ctx, id, product, err)
}

func (r *CachedProductRepository) Delete(ctx context.Context, id string) (repository.Product, error) {
	product, err := r.inner.Delete(ctx, id)
	r.invalidate(ctx, id)
	return product, err
}

func (r *CachedProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (repository.Product, error) {
	product, err := r.inner.DecrementStock(ctx, id, quantity)
	return r.afterMutation(ctx, id, product, err)
}

func (r *CachedProductRepository) IncrementStock(ctx context.Context, id string, quantity int) (repository.Product, error) {
	product, err := r.inner.IncrementStock(ctx, id, quantity)
	return r.afterMutation(ctx, id, product, err)
}

func (r *CachedProductRepository) afterMutation(ctx context.Context, id string, product repository.Product, err error) (repository.Product, error) {
	if err != nil {
		r.invalidate(ctx, id)
		return repository.Product{}, err
	}
	// не удалось записать свежий документ: старый не должен дожить до конца TTL
	if !r.store(ctx, product) {
		r.invalidate(ctx, id)
	}
	return product, nil
}

// store кладёт товар в кэш и сообщает, получилось ли
func (r *CachedProductRepository) store(ctx context.Context, product repository.Product) bool {
	payload, err := json.Marshal(cachedProduct(product))
	if err != nil {
		r.logger.Warn("failed to encode product for cache", zap.Error(err), zap.String("product_id", product.ID))
		return false
	}
	if err := r.client.Set(ctx, productKey(product.ID), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("failed to write product to cache",
			zap.Error(err),
			zap.String("product_id", product.ID),
		)
		return false
	}
	return true
}

func (r *CachedProductRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, productKey(id)).Err(); err != nil {
		r.logger.Warn("failed to invalidate product in cache",
			zap.Error(err),
			zap.String("product_id", id),
		)
	}
}

func (r *CachedProductRepository) decode(id, raw string) (repository.Product, bool) {
	var cached cachedProduct
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		r.logger.Warn("corrupted product cache entry", zap.Error(err), zap.String("product_id", id))
		r.invalidate(context.Background(), id)
		return repository.Product{}, false
	}
	return repository.Product(cached), true
}
