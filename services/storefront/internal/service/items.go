package service

import (
	"math"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

// upsertItem прибавляет quantity к существующей позиции или добавляет новую в конец.
// Сумма, не помещающаяся в int, отклоняется как ErrValidation.
func upsertItem(items []repository.LineItem, productID string, quantity int) ([]repository.LineItem, error) {
	out := repository.CloneItems(items)
	if i := indexOf(out, productID); i >= 0 {
		if out[i].Quantity > math.MaxInt-quantity {
			return nil, validationError("quantity for product %s exceeds the maximum of %d", productID, math.MaxInt)
		}
		out[i].Quantity += quantity
		return out, nil
	}
	return append(out, repository.LineItem{ProductID: productID, Quantity: quantity}), nil
}

// removeItem отбрасывает позиции с productID и повреждённые позиции без товара.
// Отсутствие позиции не ошибка.
func removeItem(items []repository.LineItem, productID string) []repository.LineItem {
	out := make([]repository.LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != "" && item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

// mergeItems объединяет повторы одного товара, сохраняя порядок первого появления
func mergeItems(items []repository.LineItem) ([]repository.LineItem, error) {
	var out []repository.LineItem
	for _, item := range items {
		var err error
		if out, err = upsertItem(out, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func indexOf(items []repository.LineItem, productID string) int {
	for i, item := range items {
		if item.ProductID != "" && item.ProductID == productID {
			return i
		}
	}
	return -1
}

// wellFormed отбрасывает повреждённые позиции без ссылки на товар
func wellFormed(items []repository.LineItem) []repository.LineItem {
	out := make([]repository.LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != "" {
			out = append(out, item)
		}
	}
	return out
}

func totalQuantity(items []repository.LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
