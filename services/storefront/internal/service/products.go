package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	platformobservability "github.com/shestoi/GoBigTech/platform/observability"
	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

const (
	// DefaultPage и DefaultLimit подставляются, если параметры не заданы или меньше 1
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit ограничивает размер страницы
	MaxLimit = 100
	// MaxPage не даёт смещению выйти за пределы int64
	MaxPage = 1_000_000_000
)

// ProductService содержит логику работы с каталогом товаров
type ProductService struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

// NewProductService создаёт новый экземпляр ProductService
func NewProductService(repo repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// Page - страница каталога в формате mongoose-paginate-v2.
// PrevPage и NextPage равны nil, если соседней страницы нет.
type Page struct {
	Payload       []repository.Product
	TotalDocs     int64
	Limit         int
	TotalPages    int
	Page          int
	PagingCounter int
	HasPrevPage   bool
	HasNextPage   bool
	PrevPage      *int
	NextPage      *int
}

// ListProducts возвращает страницу товаров по возрастанию ID
func (s *ProductService) ListProducts(ctx context.Context, page, limit int) (Page, error) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	products, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		platformobservability.LoggerFromContext(ctx, s.logger).Error("failed to list products",
			zap.Error(err),
			zap.Int("page", page),
			zap.Int("limit", limit),
		)
		return Page{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	result := Page{
		Payload:       products,
		TotalDocs:     total,
		Limit:         limit,
		TotalPages:    totalPages,
		Page:          page,
		PagingCounter: (page-1)*limit + 1,
		HasPrevPage:   page > 1,
		HasNextPage:   page < totalPages,
	}
	if result.HasPrevPage {
		prev := page - 1
		result.PrevPage = &prev
	}
	if result.HasNextPage {
		next := page + 1
		result.NextPage = &next
	}
	return result, nil
}

// GetProduct возвращает товар по ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (repository.Product, error) {
	if !repository.ValidID(id) {
		return repository.Product{}, validationError("invalid product id %q", id)
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Product{}, storeError("product", id, err)
	}
	return product, nil
}

// CreateProductInput содержит поля нового товара; nil означает, что поле не передано
type CreateProductInput struct {
	Title       string
	Description string
	Code        string
	Price       *decimal.Decimal
	Stock       *int
}

// CreateProduct проверяет обязательные поля и сохраняет товар.
// Нулевые price и stock считаются отсутствующими.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (repository.Product, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Code) == "" ||
		input.Price == nil || input.Price.IsZero() ||
		input.Stock == nil || *input.Stock == 0 {
		return repository.Product{}, validationError("title, description, code, price and stock are required")
	}
	if input.Price.IsNegative() {
		return repository.Product{}, validationError("price must not be negative")
	}
	if *input.Stock < 0 {
		return repository.Product{}, validationError("stock must not be negative")
	}

	product, err := s.repo.Create(ctx, repository.Product{
		Title:       input.Title,
		Description: input.Description,
		Code:        input.Code,
		Price:       *input.Price,
		Stock:       *input.Stock,
	})
	if err != nil {
		platformobservability.LoggerFromContext(ctx, s.logger).Error("failed to create product",
			zap.Error(err),
			zap.String("code", input.Code),
		)
		return repository.Product{}, err
	}

	platformobservability.LoggerFromContext(ctx, s.logger).Info("product created",
		zap.String("product_id", product.ID),
		zap.String("code", product.Code),
		zap.Int("stock", product.Stock),
	)
	return product, nil
}

// UpdateProduct применяет только переданные поля
func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch repository.ProductPatch) (repository.Product, error) {
	if !repository.ValidID(id) {
		return repository.Product{}, validationError("invalid product id %q", id)
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return repository.Product{}, validationError("price must not be negative")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return repository.Product{}, validationError("stock must not be negative")
	}
	fields := []struct {
		name  string
		value *string
	}{
		{"title", patch.Title},
		{"description", patch.Description},
		{"code", patch.Code},
	}
	for _, f := range fields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return repository.Product{}, validationError("%s must not be empty", f.name)
		}
	}

	product, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return repository.Product{}, storeError("product", id, err)
	}
	return product, nil
}

// DeleteProduct удаляет товар и возвращает удалённый документ.
// Корзины со ссылкой на него не трогаем: при чтении такие позиции пропускаются.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (repository.Product, error) {
	if !repository.ValidID(id) {
		return repository.Product{}, validationError("invalid product id %q", id)
	}
	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return repository.Product{}, storeError("product", id, err)
	}

	platformobservability.LoggerFromContext(ctx, s.logger).Info("product deleted",
		zap.String("product_id", id),
	)
	return product, nil
}
