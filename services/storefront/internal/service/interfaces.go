package service

import (
	"context"
	"time"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
)

// CartCreatedEvent публикуется после успешного создания корзины из заказа
type CartCreatedEvent struct {
	CartID     string
	Items      []repository.LineItem
	OccurredAt time.Time
}

// StockReleasedEvent публикуется, когда списанный остаток вернули на склад
type StockReleasedEvent struct {
	Items      []repository.LineItem
	Reason     string
	OccurredAt time.Time
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=EventPublisher --dir=. --output=./mocks --outpkg=mocks

// EventPublisher определяет интерфейс для публикации событий корзины и склада.
// Ошибка публикации не отменяет уже выполненную операцию.
type EventPublisher interface {
	PublishCartCreated(ctx context.Context, event CartCreatedEvent) error
	PublishStockReleased(ctx context.Context, event StockReleasedEvent) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=MetricsRecorder --dir=. --output=./mocks --outpkg=mocks

// MetricsRecorder записывает бизнес-метрики корзин; nil заменяется на noop
type MetricsRecorder interface {
	RecordCartCreated(ctx context.Context, items int)
	RecordInsufficientStock(ctx context.Context)
	RecordStockCompensated(ctx context.Context, items int)
}

type nopPublisher struct{}

func (nopPublisher) PublishCartCreated(context.Context, CartCreatedEvent) error     { return nil }
func (nopPublisher) PublishStockReleased(context.Context, StockReleasedEvent) error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordCartCreated(context.Context, int)      {}
func (nopMetrics) RecordInsufficientStock(context.Context)     {}
func (nopMetrics) RecordStockCompensated(context.Context, int) {}
