package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/shestoi/GoBigTech/services/storefront"

// Recorder реализует service.MetricsRecorder через OpenTelemetry counters.
// Экспорт настраивает platform/observability.Init; при OTEL_ENABLED=false провайдер noop.
type Recorder struct {
	cartsCreated      metric.Int64Counter
	cartItems         metric.Int64Counter
	insufficientStock metric.Int64Counter
	stockCompensated  metric.Int64Counter
}

// NewRecorder создаёт counters на глобальном MeterProvider
func NewRecorder() (*Recorder, error) {
	return NewRecorderWithProvider(otel.GetMeterProvider())
}

// NewRecorderWithProvider создаёт counters на переданном MeterProvider
func NewRecorderWithProvider(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	var (
		r   Recorder
		err error
	)
	if r.cartsCreated, err = meter.Int64Counter("storefront.carts.created",
		metric.WithDescription("Carts created from an order")); err != nil {
		return nil, fmt.Errorf("create carts.created counter: %w", err)
	}
	if r.cartItems, err = meter.Int64Counter("storefront.carts.items",
		metric.WithDescription("Line items in created carts")); err != nil {
		return nil, fmt.Errorf("create carts.items counter: %w", err)
	}
	if r.insufficientStock, err = meter.Int64Counter("storefront.stock.insufficient",
		metric.WithDescription("Cart creations rejected for lack of stock")); err != nil {
		return nil, fmt.Errorf("create stock.insufficient counter: %w", err)
	}
	if r.stockCompensated, err = meter.Int64Counter("storefront.stock.compensated",
		metric.WithDescription("Line items whose stock was returned after a failed cart creation")); err != nil {
		return nil, fmt.Errorf("create stock.compensated counter: %w", err)
	}
	return &r, nil
}

// RecordCartCreated учитывает новую корзину и число её позиций
func (r *Recorder) RecordCartCreated(ctx context.Context, items int) {
	r.cartsCreated.Add(ctx, 1)
	r.cartItems.Add(ctx, int64(items))
}

func (r *Recorder) RecordInsufficientStock(ctx context.Context) {
	r.insufficientStock.Add(ctx, 1)
}

func (r *Recorder) RecordStockCompensated(ctx context.Context, items int) {
	r.stockCompensated.Add(ctx, int64(items))
}
