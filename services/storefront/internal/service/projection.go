package service

import (
	"time"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

// CartSummary - краткая проекция корзины: только ссылки на товары и количества
type CartSummary struct {
	ID    string
	Items []repository.LineItem
}

// CartView - корзина с подставленными данными товаров
type CartView struct {
	ID        string
	Items     []ResolvedItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolvedItem - позиция корзины вместе с актуальным документом товара
type ResolvedItem struct {
	Product  repository.Product
	Quantity int
}

func summarize(cart repository.Cart) CartSummary {
	return CartSummary{
		ID:    cart.ID,
		Items: wellFormed(cart.Items),
	}
}

// resolve подставляет товары в позиции корзины.
// Позиции без товара (удалён или ссылка повреждена) пропускаются.
func resolve(cart repository.Cart, products []repository.Product) CartView {
	byID := make(map[string]repository.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	items := make([]ResolvedItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		items = append(items, ResolvedItem{Product: product, Quantity: item.Quantity})
	}

	return CartView{
		ID:        cart.ID,
		Items:     items,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}

// referencedIDs возвращает уникальные корректные ID товаров корзины
func referencedIDs(items []repository.LineItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if !repository.ValidID(item.ProductID) {
			continue
		}
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
