package middleware

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mookkammal/storefront/internal/apperr"
	"github.com/mookkammal/storefront/internal/command"
	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestCommandIDMiddleware(t *testing.T) {
	var seen string
	h := CommandIDMiddleware(func(ctx context.Context, req *command.Request) (*command.Response, error) {
		seen = logger.CommandID(ctx)
		return &command.Response{}, nil
	})

	req := &command.Request{Name: "cart"}
	_, err := h(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.ID, seen)
	_, err = uuid.Parse(req.ID)
	assert.NoError(t, err)

	preset := &command.Request{ID: "fixed", Name: "cart"}
	_, _ = h(context.Background(), preset)
	assert.Equal(t, "fixed", seen)
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(ctx context.Context, req *command.Request) (*command.Response, error) {
		panic("nil map")
	})

	resp, err := h(context.Background(), &command.Request{Name: "admin stats"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "nil map")
}

func TestMetricsMiddleware(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := metrics.New(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"), "test")
	require.NoError(t, err)

	ok := MetricsMiddleware(m)(func(ctx context.Context, req *command.Request) (*command.Response, error) {
		return &command.Response{Message: "done"}, nil
	})
	failing := MetricsMiddleware(m)(func(ctx context.Context, req *command.Request) (*command.Response, error) {
		return nil, apperr.NotFound("product %s not found", "zz")
	})

	resp, err := ok(context.Background(), &command.Request{Name: "cart"})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Message)
	_, err = failing(context.Background(), &command.Request{Name: "product"})
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, mt := range sm.Metrics {
			if sum, ok := mt.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[mt.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(2), totals["console.command.count"])
	assert.Equal(t, int64(1), totals["console.command.error.count"])
}
