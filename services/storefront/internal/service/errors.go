package service

import (
	"errors"
	"fmt"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

// Ошибки бизнес-логики. HTTP слой сопоставляет их со статусами через errors.Is.
var (
	// ErrValidation - входные данные некорректны (400)
	ErrValidation = errors.New("validation failed")
	// ErrNotFound - корзина или товар не найдены (404)
	ErrNotFound = errors.New("not found")
	// ErrItemNotFound - в корзине нет позиции с таким товаром (404)
	ErrItemNotFound = errors.New("not found in cart")
	// ErrInsufficientStock - остатка товара не хватает для заказа (400)
	ErrInsufficientStock = errors.New("insufficient stock")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError переводит ошибку хранилища в ошибку сервиса.
// repository.ErrNotFound превращается в "<kind> <id> not found".
func storeError(kind, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %s %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", kind, id, err)
}
