package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product представляет товар витрины.
// Stock никогда не бывает отрицательным: уменьшение идёт только через DecrementStock.
type Product struct {
	ID          string
	Title       string
	Description string
	Code        string
	Price       decimal.Decimal
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPatch содержит поля для частичного обновления товара.
// nil означает "не менять".
type ProductPatch struct {
	Title       *string
	Description *string
	Code        *string
	Price       *decimal.Decimal
	Stock       *int
}

// LineItem - позиция корзины: слабая ссылка на товар и количество
type LineItem struct {
	ProductID string
	Quantity  int
}

// Cart представляет корзину. В Items не больше одной позиции на ProductID.
type Cart struct {
	ID        string
	Items     []LineItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=ProductRepository --dir=. --output=./mocks --outpkg=mocks

// ProductRepository определяет интерфейс хранилища товаров.
// Каждая операция атомарна только в пределах одного документа.
type ProductRepository interface {
	// Create сохраняет новый товар и возвращает его с присвоенным ID
	Create(ctx context.Context, product Product) (Product, error)

	// GetByID возвращает ErrNotFound, если товара нет
	GetByID(ctx context.Context, id string) (Product, error)

	// GetByIDs возвращает найденные товары; отсутствующие ID просто пропускаются
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)

	// List возвращает страницу товаров (по возрастанию ID) и общее количество
	List(ctx context.Context, offset, limit int) ([]Product, int64, error)

	// Update применяет patch и возвращает обновлённый товар
	Update(ctx context.Context, id string, patch ProductPatch) (Product, error)

	// Delete удаляет товар и возвращает удалённый документ
	Delete(ctx context.Context, id string) (Product, error)

	// DecrementStock атомарно уменьшает остаток, только если stock >= quantity.
	// Возвращает ErrInsufficientStock или ErrNotFound.
	DecrementStock(ctx context.Context, id string, quantity int) (Product, error)

	// IncrementStock возвращает товар на склад (компенсация)
	IncrementStock(ctx context.Context, id string, quantity int) (Product, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=CartRepository --dir=. --output=./mocks --outpkg=mocks

// CartRepository определяет интерфейс хранилища корзин
type CartRepository interface {
	Create(ctx context.Context, cart Cart) (Cart, error)
	GetByID(ctx context.Context, id string) (Cart, error)

	// ReplaceItems целиком заменяет список позиций и возвращает обновлённую корзину
	ReplaceItems(ctx context.Context, id string, items []LineItem) (Cart, error)

	// Delete удаляет документ корзины целиком
	Delete(ctx context.Context, id string) error
}

var (
	// ErrNotFound возвращается, когда документ не найден в хранилище
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock возвращается DecrementStock, если остатка не хватает
	ErrInsufficientStock = errors.New("insufficient stock")
)

// NewID генерирует идентификатор в формате MongoDB ObjectID
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID проверяет, что строка - корректный ObjectID (24 hex символа)
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// CloneItems копирует слайс позиций, чтобы вызывающий код не делил память с хранилищем
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
