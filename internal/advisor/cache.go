package advisor

import (
	"context"
	"sync"
	"time"

	"github.com/mookkammal/storefront/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TipCache holds generated product tips until they expire
type TipCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	items   map[string]cachedTip
	now     func() time.Time
	metrics *metrics.AppMetrics
}

type cachedTip struct {
	text    string
	expires time.Time
}

// NewTipCache creates a cache. A non-positive ttl disables caching.
func NewTipCache(ttl time.Duration, m *metrics.AppMetrics) *TipCache {
	return &TipCache{
		ttl:     ttl,
		items:   make(map[string]cachedTip),
		now:     time.Now,
		metrics: m,
	}
}

func (c *TipCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	cached, exists := c.items[key]
	c.mu.RUnlock()

	attrs := metric.WithAttributes(c.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("cache", "advisor_tips"),
	})...)
	if exists && c.now().Before(cached.expires) {
		c.metrics.CacheHits.Add(ctx, 1, attrs)
		return cached.text, true
	}
	c.metrics.CacheMisses.Add(ctx, 1, attrs)
	return "", false
}

func (c *TipCache) Set(key, text string) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cachedTip{text: text, expires: c.now().Add(c.ttl)}
}
