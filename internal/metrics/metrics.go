package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// AppMetrics holds all application metrics
type AppMetrics struct {
	// Command Metrics
	CommandsTotal   metric.Int64Counter
	CommandsErrors  metric.Int64Counter
	CommandDuration metric.Float64Histogram

	// Storage Metrics
	StorageOpsTotal   metric.Int64Counter
	StorageOpDuration metric.Float64Histogram

	// Business Metrics
	OrdersCreated  metric.Int64Counter
	RevenueTotal   metric.Float64Counter
	ProductsViewed metric.Int64Counter
	CartItemsCount metric.Int64Gauge

	// Application Metrics
	ActiveCartsCount  metric.Int64Gauge
	AdvisorRequests   metric.Int64Counter
	AdvisorFallbacks  metric.Int64Counter
	CacheHits         metric.Int64Counter
	CacheMisses       metric.Int64Counter
	PersistenceErrors metric.Int64Counter

	// Service name for adding to all metrics
	serviceName string
}

// InitMetrics sets up the OTLP/HTTP exporter and the global meter provider
func InitMetrics(ctx context.Context, cfg *config.Config) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	// Environment attributes (OTEL_RESOURCE_ATTRIBUTES etc.) first, explicit ones win
	envRes, err := resource.New(ctx, resource.WithFromEnv())
	if err != nil {
		envRes = resource.Empty()
	}

	explicitRes, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTELServiceName),
			semconv.ServiceVersion(cfg.OTELServiceVersion),
			attribute.String("deployment.environment", cfg.OTELDeploymentEnvironment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create explicit resource: %w", err)
	}

	res, err := resource.Merge(envRes, explicitRes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to merge resources: %w", err)
	}

	// WithEndpoint expects host:port without a scheme
	exporterOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.OTELExporterOTLPEndpoint),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if cfg.OTELExporterOTLPHeaders != "" {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithHeaders(parseHeaders(cfg.OTELExporterOTLPHeaders)))
	}
	if cfg.OTELExporterOTLPInsecure {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(10*time.Second),
	)

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)

	appMetrics, err := New(meterProvider.Meter(cfg.OTELServiceName), cfg.OTELServiceName)
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "Metrics exporter configured",
		zap.String("endpoint", cfg.OTELExporterOTLPEndpoint+"/v1/metrics"),
		zap.Bool("insecure", cfg.OTELExporterOTLPInsecure),
		zap.String("service", cfg.OTELServiceName),
		zap.Duration("interval", 10*time.Second),
	)
	return appMetrics, meterProvider, nil
}

// NewNoop returns metrics backed by a noop meter
func NewNoop(serviceName string) *AppMetrics {
	m, err := New(noop.NewMeterProvider().Meter(serviceName), serviceName)
	if err != nil {
		// noop instruments never fail to build
		panic(err)
	}
	return m
}

// New creates every instrument on meter
func New(meter metric.Meter, serviceName string) (*AppMetrics, error) {
	// SigNoz default histogram buckets in milliseconds, expanded to 60s
	buckets := []float64{2, 4, 6, 8, 10, 50, 100, 200, 400, 800, 1000, 1400, 2000, 5000, 10000, 15000, 20000, 30000, 45000, 60000}

	m := &AppMetrics{serviceName: serviceName}
	var err error

	if m.CommandsTotal, err = meter.Int64Counter(
		"console.command.count",
		metric.WithDescription("Total number of console commands"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create commands counter: %w", err)
	}

	if m.CommandsErrors, err = meter.Int64Counter(
		"console.command.error.count",
		metric.WithDescription("Total number of console commands that failed"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create command errors counter: %w", err)
	}

	if m.CommandDuration, err = meter.Float64Histogram(
		"console.command.duration",
		metric.WithDescription("Console command duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create command duration histogram: %w", err)
	}

	if m.StorageOpsTotal, err = meter.Int64Counter(
		"storage.client.operations.count",
		metric.WithDescription("Total number of storage operations"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create storage ops counter: %w", err)
	}

	if m.StorageOpDuration, err = meter.Float64Histogram(
		"storage.client.operations.duration",
		metric.WithDescription("Storage operation duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create storage duration histogram: %w", err)
	}

	if m.OrdersCreated, err = meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of orders created"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create orders counter: %w", err)
	}

	if m.RevenueTotal, err = meter.Float64Counter(
		"revenue_total",
		metric.WithDescription("Total revenue generated"),
		metric.WithUnit("INR"),
	); err != nil {
		return nil, fmt.Errorf("failed to create revenue counter: %w", err)
	}

	if m.ProductsViewed, err = meter.Int64Counter(
		"products_viewed_total",
		metric.WithDescription("Total number of product views"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create products viewed counter: %w", err)
	}

	if m.CartItemsCount, err = meter.Int64Gauge(
		"cart_items_count",
		metric.WithDescription("Current number of units in a vertical's bag"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cart items gauge: %w", err)
	}

	if m.ActiveCartsCount, err = meter.Int64Gauge(
		"active_carts_count",
		metric.WithDescription("Number of vertical bags holding items"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create active carts gauge: %w", err)
	}

	if m.AdvisorRequests, err = meter.Int64Counter(
		"advisor_requests_total",
		metric.WithDescription("Total number of advisory text requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create advisor requests counter: %w", err)
	}

	if m.AdvisorFallbacks, err = meter.Int64Counter(
		"advisor_fallbacks_total",
		metric.WithDescription("Advisory requests answered with a fallback message"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create advisor fallbacks counter: %w", err)
	}

	if m.CacheHits, err = meter.Int64Counter(
		"cache_hits_total",
		metric.WithDescription("Total number of cache hits"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache hits counter: %w", err)
	}

	if m.CacheMisses, err = meter.Int64Counter(
		"cache_misses_total",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache misses counter: %w", err)
	}

	if m.PersistenceErrors, err = meter.Int64Counter(
		"persistence_errors_total",
		metric.WithDescription("State sections that failed to persist"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create persistence errors counter: %w", err)
	}

	return m, nil
}

// WithServiceName adds service.name to attributes
func (m *AppMetrics) WithServiceName(attrs []attribute.KeyValue) []attribute.KeyValue {
	return append(attrs, attribute.String("service.name", m.serviceName))
}

// RecordStorageOp records one storage round trip
func (m *AppMetrics) RecordStorageOp(ctx context.Context, system, operation, key string, start time.Time, success bool) {
	duration := time.Since(start).Milliseconds()

	status := "success"
	if !success {
		status = "error"
	}

	attrs := m.WithServiceName([]attribute.KeyValue{
		attribute.String("storage.system", system),
		attribute.String("storage.operation", operation),
		attribute.String("storage.key", key),
		attribute.String("status", status),
	})

	m.StorageOpsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.StorageOpDuration.Record(ctx, float64(duration), metric.WithAttributes(attrs...))
}

// RecordCommand records one handled console command
func (m *AppMetrics) RecordCommand(ctx context.Context, command, outcome string, start time.Time) {
	duration := time.Since(start).Milliseconds()
	attrs := m.WithServiceName([]attribute.KeyValue{
		attribute.String("command", command),
		attribute.String("outcome", outcome),
	})

	m.CommandsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if outcome != "ok" {
		m.CommandsErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	m.CommandDuration.Record(ctx, float64(duration), metric.WithAttributes(attrs...))
}

// RecordOrder records a placed order
func (m *AppMetrics) RecordOrder(ctx context.Context, vertical string, total float64) {
	attrs := m.WithServiceName([]attribute.KeyValue{
		attribute.String("vertical", vertical),
		attribute.String("status", "PENDING"),
	})
	m.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.RevenueTotal.Add(ctx, total, metric.WithAttributes(attrs...))
}

// RecordCart reports the unit count of one vertical's bag and how many bags are non-empty
func (m *AppMetrics) RecordCart(ctx context.Context, vertical string, units int, activeBags int) {
	m.CartItemsCount.Record(ctx, int64(units), metric.WithAttributes(m.WithServiceName([]attribute.KeyValue{
		attribute.String("vertical", vertical),
	})...))
	m.ActiveCartsCount.Record(ctx, int64(activeBags), metric.WithAttributes(m.WithServiceName(nil)...))
}

// parseHeaders parses header string in format "key1=value1,key2=value2"
// and returns a map of headers
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	if headerStr == "" {
		return headers
	}

	pairs := strings.Split(headerStr, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 {
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headers
}
