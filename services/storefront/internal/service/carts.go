package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	platformobservability "github.com/shestoi/GoBigTech/platform/observability"
	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

// compensationTimeout ограничивает возврат остатков после отмены запроса
const compensationTimeout = 10 * time.Second

// CartService согласует содержимое корзин с остатками товаров.
// Зависит только от интерфейсов: хранилища, публикация событий, метрики.
type CartService struct {
	carts           repository.CartRepository
	products        repository.ProductRepository
	publisher       EventPublisher
	metrics         MetricsRecorder
	logger          *zap.Logger
	compensateStock bool
	now             func() time.Time
}

// NewCartService создаёт новый экземпляр CartService.
// compensateStock=true включает возврат уже списанных остатков при ошибке создания корзины.
func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
	compensateStock bool,
) *CartService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &CartService{
		carts:           carts,
		products:        products,
		publisher:       publisher,
		metrics:         metrics,
		logger:          logger,
		compensateStock: compensateStock,
		now:             time.Now,
	}
}

// CreateCartFromOrder списывает остатки по каждой позиции заказа и создаёт корзину.
// Позиции обрабатываются строго по очереди. Повторы одного товара объединяются в одну позицию.
func (s *CartService) CreateCartFromOrder(ctx context.Context, order []repository.LineItem) (repository.Cart, error) {
	logger := platformobservability.LoggerFromContext(ctx, s.logger)

	if len(order) == 0 {
		return repository.Cart{}, validationError("products must be a non-empty array")
	}
	for _, item := range order {
		if !repository.ValidID(item.ProductID) {
			return repository.Cart{}, validationError("invalid product id %q", item.ProductID)
		}
		if item.Quantity <= 0 {
			return repository.Cart{}, validationError("quantity for product %s must be a positive integer", item.ProductID)
		}
	}
	merged, err := mergeItems(order)
	if err != nil {
		return repository.Cart{}, err
	}

	var committed []repository.LineItem
	for _, item := range order {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return repository.Cart{}, s.abort(ctx, committed, storeError("product", item.ProductID, err))
		}
		if product.Stock < item.Quantity {
			s.metrics.RecordInsufficientStock(ctx)
			return repository.Cart{}, s.abort(ctx, committed, insufficientStock(product, item.Quantity))
		}

		if _, err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			// остаток успел уменьшить конкурентный запрос
			if errors.Is(err, repository.ErrInsufficientStock) {
				s.metrics.RecordInsufficientStock(ctx)
				err = fmt.Errorf("%w for product %q", ErrInsufficientStock, product.Title)
			} else {
				err = storeError("product", item.ProductID, err)
			}
			return repository.Cart{}, s.abort(ctx, committed, err)
		}
		committed = append(committed, item)
	}

	cart, err := s.carts.Create(ctx, repository.Cart{Items: merged})
	if err != nil {
		return repository.Cart{}, s.abort(ctx, committed, fmt.Errorf("create cart: %w", err))
	}

	logger.Info("cart created",
		zap.String("cart_id", cart.ID),
		zap.Int("items", len(cart.Items)),
		zap.Int("quantity", totalQuantity(cart.Items)),
	)
	s.metrics.RecordCartCreated(ctx, len(cart.Items))

	event := CartCreatedEvent{
		CartID:     cart.ID,
		Items:      repository.CloneItems(cart.Items),
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishCartCreated(ctx, event); err != nil {
		logger.Warn("failed to publish cart created event",
			zap.Error(err),
			zap.String("cart_id", cart.ID),
		)
	}
	return cart, nil
}

// abort возвращает на склад уже списанные позиции в обратном порядке.
// Ошибки компенсации добавляются к причине отмены, и результат уже не совпадает с её sentinel.
func (s *CartService) abort(ctx context.Context, committed []repository.LineItem, cause error) error {
	logger := platformobservability.LoggerFromContext(ctx, s.logger)

	if len(committed) == 0 {
		return cause
	}
	if !s.compensateStock {
		logger.Warn("cart creation failed, decremented stock left committed",
			zap.Error(cause),
			zap.Int("items", len(committed)),
		)
		return cause
	}

	// компенсация должна дойти до конца даже после отмены запроса
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	var errs []error
	for i := len(committed) - 1; i >= 0; i-- {
		item := committed[i]
		if _, err := s.products.IncrementStock(cctx, item.ProductID, item.Quantity); err != nil {
			logger.Error("failed to restore stock",
				zap.Error(err),
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
			)
			errs = append(errs, fmt.Errorf("restore product %s: %w", item.ProductID, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s; stock compensation failed: %w", cause.Error(), errors.Join(errs...))
	}

	logger.Info("stock restored after failed cart creation",
		zap.Error(cause),
		zap.Int("items", len(committed)),
	)
	s.metrics.RecordStockCompensated(ctx, len(committed))

	event := StockReleasedEvent{
		Items:      repository.CloneItems(committed),
		Reason:     cause.Error(),
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishStockReleased(cctx, event); err != nil {
		logger.Warn("failed to publish stock released event", zap.Error(err))
	}
	return cause
}

func insufficientStock(product repository.Product, requested int) error {
	return fmt.Errorf("%w for product %q: requested %d, available %d",
		ErrInsufficientStock, product.Title, requested, product.Stock)
}

// AddItem добавляет товар в корзину или увеличивает количество существующей позиции.
// Остаток товара не проверяется и не списывается.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, quantity int) (CartSummary, error) {
	if err := validateCartItem(cartID, productID); err != nil {
		return CartSummary{}, err
	}
	if quantity <= 0 {
		return CartSummary{}, validationError("quantity must be a number greater than 0")
	}

	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return CartSummary{}, storeError("cart", cartID, err)
	}

	items, err := upsertItem(cart.Items, productID, quantity)
	if err != nil {
		return CartSummary{}, err
	}
	cart, err = s.carts.ReplaceItems(ctx, cartID, items)
	if err != nil {
		return CartSummary{}, storeError("cart", cartID, err)
	}

	platformobservability.LoggerFromContext(ctx, s.logger).Debug("item added to cart",
		zap.String("cart_id", cartID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return summarize(cart), nil
}

// SetItemQuantity перезаписывает количество существующей позиции.
// Если позиции нет, корзина не меняется.
func (s *CartService) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) (repository.Cart, error) {
	if err := validateCartItem(cartID, productID); err != nil {
		return repository.Cart{}, err
	}
	if quantity <= 0 {
		return repository.Cart{}, validationError("quantity must be a positive number")
	}

	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return repository.Cart{}, storeError("cart", cartID, err)
	}

	i := indexOf(cart.Items, productID)
	if i < 0 {
		return repository.Cart{}, fmt.Errorf("product %s %w", productID, ErrItemNotFound)
	}
	items := repository.CloneItems(cart.Items)
	items[i].Quantity = quantity

	cart, err = s.carts.ReplaceItems(ctx, cartID, items)
	if err != nil {
		return repository.Cart{}, storeError("cart", cartID, err)
	}
	return cart, nil
}

// RemoveItem убирает товар из корзины; отсутствие позиции ошибкой не считается
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (repository.Cart, error) {
	if err := validateCartItem(cartID, productID); err != nil {
		return repository.Cart{}, err
	}

	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return repository.Cart{}, storeError("cart", cartID, err)
	}

	cart, err = s.carts.ReplaceItems(ctx, cartID, removeItem(cart.Items, productID))
	if err != nil {
		return repository.Cart{}, storeError("cart", cartID, err)
	}
	return cart, nil
}

// ReplaceAllItems целиком заменяет позиции корзины.
// Существование товаров и остатки не проверяются.
func (s *CartService) ReplaceAllItems(ctx context.Context, cartID string, items []repository.LineItem) (repository.Cart, error) {
	if !repository.ValidID(cartID) {
		return repository.Cart{}, validationError("invalid cart id %q", cartID)
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if !repository.ValidID(item.ProductID) {
			return repository.Cart{}, validationError("invalid product id %q", item.ProductID)
		}
		if item.Quantity <= 0 {
			return repository.Cart{}, validationError("quantity for product %s must be a positive integer", item.ProductID)
		}
		if _, dup := seen[item.ProductID]; dup {
			return repository.Cart{}, validationError("product %s is listed more than once", item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
	}

	cart, err := s.carts.ReplaceItems(ctx, cartID, items)
	if err != nil {
		return repository.Cart{}, storeError("cart", cartID, err)
	}
	return cart, nil
}

// ClearCart удаляет все позиции, сама корзина остаётся
func (s *CartService) ClearCart(ctx context.Context, cartID string) (repository.Cart, error) {
	if !repository.ValidID(cartID) {
		return repository.Cart{}, validationError("invalid cart id %q", cartID)
	}

	cart, err := s.carts.ReplaceItems(ctx, cartID, []repository.LineItem{})
	if err != nil {
		return repository.Cart{}, storeError("cart", cartID, err)
	}
	return cart, nil
}

// DeleteCart удаляет документ корзины. Остатки товаров не возвращаются.
func (s *CartService) DeleteCart(ctx context.Context, cartID string) error {
	if !repository.ValidID(cartID) {
		return validationError("invalid cart id %q", cartID)
	}
	if err := s.carts.Delete(ctx, cartID); err != nil {
		return storeError("cart", cartID, err)
	}

	platformobservability.LoggerFromContext(ctx, s.logger).Info("cart deleted",
		zap.String("cart_id", cartID),
	)
	return nil
}

// GetCart возвращает корзину с данными товаров, загруженными одним запросом
func (s *CartService) GetCart(ctx context.Context, cartID string) (CartView, error) {
	if !repository.ValidID(cartID) {
		return CartView{}, validationError("invalid cart id %q", cartID)
	}

	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return CartView{}, storeError("cart", cartID, err)
	}

	var products []repository.Product
	if ids := referencedIDs(cart.Items); len(ids) > 0 {
		products, err = s.products.GetByIDs(ctx, ids)
		if err != nil {
			return CartView{}, fmt.Errorf("resolve cart %s products: %w", cartID, err)
		}
	}
	return resolve(cart, products), nil
}

func validateCartItem(cartID, productID string) error {
	if !repository.ValidID(cartID) {
		return validationError("invalid cart id %q", cartID)
	}
	if !repository.ValidID(productID) {
		return validationError("invalid product id %q", productID)
	}
	return nil
}
