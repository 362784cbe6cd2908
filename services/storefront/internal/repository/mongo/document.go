package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

const (
	productsCollection = "products"
	cartsCollection    = "carts"
)

// ProductDocument представляет документ товара в коллекции products.
// Price декодируется как interface{}: старые документы хранят цену как double или int.
type ProductDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Code        string             `bson:"code"`
	Price       interface{}        `bson:"price"`
	Stock       int64              `bson:"stock"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// LineItemDocument - позиция корзины в поле products документа корзины.
// Product может быть чем угодно в старых документах, поэтому тип не фиксирован.
type LineItemDocument struct {
	Product  interface{} `bson:"product"`
	Quantity int64       `bson:"quantity"`
}

// CartDocument представляет документ корзины в коллекции carts
type CartDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Products  []LineItemDocument `bson:"products"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d ProductDocument) toDomain() (repository.Product, error) {
	price, err := decodePrice(d.Price)
	if err != nil {
		return repository.Product{}, fmt.Errorf("product %s: %w", d.ID.Hex(), err)
	}
	return repository.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Code:        d.Code,
		Price:       price,
		Stock:       int(d.Stock),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func productFromDomain(p repository.Product, id primitive.ObjectID) (ProductDocument, error) {
	price, err := encodePrice(p.Price)
	if err != nil {
		return ProductDocument{}, err
	}
	return ProductDocument{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       price,
		Stock:       int64(p.Stock),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (d CartDocument) toDomain() repository.Cart {
	items := make([]repository.LineItem, 0, len(d.Products))
	for _, item := range d.Products {
		items = append(items, repository.LineItem{
			ProductID: productRef(item.Product),
			Quantity:  int(item.Quantity),
		})
	}
	return repository.Cart{
		ID:        d.ID.Hex(),
		Items:     items,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// itemsToDocuments переводит позиции в BSON. Невалидный ProductID сохраняется как null,
// чтобы при чтении позиция снова считалась повреждённой.
func itemsToDocuments(items []repository.LineItem) []LineItemDocument {
	out := make([]LineItemDocument, 0, len(items))
	for _, item := range items {
		var ref interface{}
		if oid, err := primitive.ObjectIDFromHex(item.ProductID); err == nil {
			ref = oid
		}
		out = append(out, LineItemDocument{Product: ref, Quantity: int64(item.Quantity)})
	}
	return out
}

// productRef возвращает hex ссылки на товар или "" для повреждённой ссылки
func productRef(v interface{}) string {
	switch ref := v.(type) {
	case primitive.ObjectID:
		if ref.IsZero() {
			return ""
		}
		return ref.Hex()
	case string:
		if primitive.IsValidObjectID(ref) {
			return ref
		}
	}
	return ""
}

func decodePrice(v interface{}) (decimal.Decimal, error) {
	switch p := v.(type) {
	case nil:
		return decimal.Zero, nil
	case primitive.Decimal128:
		return decimal.NewFromString(p.String())
	case float64:
		return decimal.NewFromFloat(p), nil
	case int32:
		return decimal.NewFromInt32(p), nil
	case int64:
		return decimal.NewFromInt(p), nil
	case string:
		return decimal.NewFromString(p)
	default:
		return decimal.Zero, fmt.Errorf("unsupported price type %T", v)
	}
}

func encodePrice(d decimal.Decimal) (primitive.Decimal128, error) {
	price, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode price %s: %w", d.String(), err)
	}
	return price, nil
}
