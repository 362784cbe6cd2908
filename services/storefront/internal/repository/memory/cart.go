package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

// CartRepository реализует repository.CartRepository в памяти
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]repository.Cart
	now   func() time.Time
}

// NewCartRepository создаёт пустой in-memory репозиторий корзин
func NewCartRepository() *CartRepository {
	return &CartRepository{
		carts: make(map[string]repository.Cart),
		now:   time.Now,
	}
}

func (r *CartRepository) Create(ctx context.Context, cart repository.Cart) (repository.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = repository.NewID()
	}
	now := r.now().UTC()
	cart.CreatedAt = now
	cart.UpdatedAt = now
	cart.Items = repository.CloneItems(cart.Items)

	r.carts[cart.ID] = cart
	return clone(cart), nil
}

func (r *CartRepository) GetByID(ctx context.Context, id string) (repository.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[id]
	if !ok {
		return repository.Cart{}, repository.ErrNotFound
	}
	return clone(cart), nil
}

func (r *CartRepository) ReplaceItems(ctx context.Context, id string, items []repository.LineItem) (repository.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[id]
	if !ok {
		return repository.Cart{}, repository.ErrNotFound
	}
	cart.Items = repository.CloneItems(items)
	cart.UpdatedAt = r.now().UTC()

	r.carts[id] = cart
	return clone(cart), nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.carts, id)
	return nil
}

func clone(cart repository.Cart) repository.Cart {
	cart.Items = repository.CloneItems(cart.Items)
	return cart
}
