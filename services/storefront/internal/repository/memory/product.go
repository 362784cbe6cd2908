package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

// ProductRepository реализует repository.ProductRepository в памяти.
// Используется для локального запуска (STORAGE_DRIVER=memory) и тестов.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]repository.Product
	now      func() time.Time
}

// NewProductRepository создаёт пустой in-memory репозиторий товаров
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]repository.Product),
		now:      time.Now,
	}
}

// Create сохраняет товар, присваивая ID, если он не задан
func (r *ProductRepository) Create(ctx context.Context, product repository.Product) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = repository.NewID()
	}
	now := r.now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	r.products[product.ID] = product
	return product, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (repository.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return repository.Product{}, repository.ErrNotFound
	}
	return product, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]repository.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

// List сортирует по ID: ObjectID начинается с timestamp, поэтому порядок совпадает с порядком создания
func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]repository.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]repository.Product, 0, len(r.products))
	for _, product := range r.products {
		all = append(all, product)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return []repository.Product{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, patch repository.ProductPatch) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return repository.Product{}, repository.ErrNotFound
	}

	if patch.Title != nil {
		product.Title = *patch.Title
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Code != nil {
		product.Code = *patch.Code
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	product.UpdatedAt = r.now().UTC()

	r.products[id] = product
	return product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return repository.Product{}, repository.ErrNotFound
	}
	delete(r.products, id)
	return product, nil
}

// DecrementStock проверяет остаток и уменьшает его под одним мьютексом
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return repository.Product{}, repository.ErrNotFound
	}
	if product.Stock < quantity {
		return repository.Product{}, repository.ErrInsufficientStock
	}

	product.Stock -= quantity
	product.UpdatedAt = r.now().UTC()
	r.products[id] = product
	return product, nil
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, quantity int) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return repository.Product{}, repository.ErrNotFound
	}

	product.Stock += quantity
	product.UpdatedAt = r.now().UTC()
	r.products[id] = product
	return product, nil
}
