package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	values := make(map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, m.Name)
			for _, dp := range sum.DataPoints {
				values[m.Name] += dp.Value
			}
		}
	}
	return values
}

func TestRecorder_Counters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := NewRecorderWithProvider(provider)
	require.NoError(t, err)

	ctx := context.Background()
	rec.RecordCartCreated(ctx, 3)
	rec.RecordCartCreated(ctx, 2)
	rec.RecordInsufficientStock(ctx)
	rec.RecordStockCompensated(ctx, 4)

	values := collect(t, reader)
	require.Equal(t, int64(2), values["storefront.carts.created"])
	require.Equal(t, int64(5), values["storefront.carts.items"])
	require.Equal(t, int64(1), values["storefront.stock.insufficient"])
	require.Equal(t, int64(4), values["storefront.stock.compensated"])
}
