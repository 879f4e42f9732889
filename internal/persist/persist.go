// Package persist connects store.State to a storage.Store: Load rebuilds a
// snapshot at startup and Persister writes every changed section back.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/metrics"
	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/storage"
	"github.com/mookkammal/storefront/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Keys maps state sections to storage keys
type Keys struct {
	prefix string
}

func NewKeys(prefix string) Keys {
	return Keys{prefix: prefix}
}

// For returns the storage key of a section, e.g. "mookkammal_cart"
func (k Keys) For(section store.Section) string {
	return k.prefix + string(section)
}

// Defaults fill sections that were never written or cannot be decoded
type Defaults struct {
	Vertical models.Vertical
	Products func() []models.Product
}

// Load reads every section. A missing or undecodable section falls back to
// its default. Storage errors other than not-found abort the load.
func Load(ctx context.Context, kv storage.Store, keys Keys, defaults Defaults) (store.Snapshot, error) {
	snap := store.Snapshot{
		Vertical: defaults.Vertical,
		Cart:     models.NewCart(),
		Orders:   []models.Order{},
	}
	if !snap.Vertical.Valid() {
		snap.Vertical = models.VerticalTextiles
	}
	if defaults.Products != nil {
		snap.Products = defaults.Products()
	}

	for _, section := range store.Sections {
		key := keys.For(section)
		raw, err := kv.Get(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			logger.Debug(ctx, "No saved state, using default", zap.String("key", key))
			continue
		}
		if err != nil {
			return store.Snapshot{}, fmt.Errorf("failed to load %s: %w", key, err)
		}
		if err := decodeSection(section, raw, &snap); err != nil {
			logger.Warn(ctx, "Discarding unreadable saved state", zap.String("key", key), zap.Error(err))
		}
	}
	return snap, nil
}

// decodeSection overwrites the section of snap only when raw decodes cleanly
func decodeSection(section store.Section, raw []byte, snap *store.Snapshot) error {
	switch section {
	case store.SectionVertical:
		v, err := models.ParseVertical(strings.Trim(strings.TrimSpace(string(raw)), `"`))
		if err != nil {
			return err
		}
		snap.Vertical = v
	case store.SectionProducts:
		var products []models.Product
		if err := json.Unmarshal(raw, &products); err != nil {
			return err
		}
		if products == nil {
			return errors.New("products is null")
		}
		snap.Products = products
	case store.SectionCart:
		var cart models.Cart
		if err := json.Unmarshal(raw, &cart); err != nil {
			return err
		}
		snap.Cart = cart.Clone()
	case store.SectionUser:
		var user *models.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return err
		}
		snap.User = user
	case store.SectionOrders:
		var orders []models.Order
		if err := json.Unmarshal(raw, &orders); err != nil {
			return err
		}
		if orders == nil {
			orders = []models.Order{}
		}
		snap.Orders = orders
	}
	return nil
}

// Encode renders a section value the way it is stored. The vertical is a bare
// string, everything else is JSON.
func Encode(change store.Change) ([]byte, error) {
	if v, ok := change.Value.(models.Vertical); ok {
		return []byte(v), nil
	}
	return json.Marshal(change.Value)
}

// Persister writes each changed section to storage. State stays authoritative
// when a write fails.
type Persister struct {
	kv      storage.Store
	keys    Keys
	metrics *metrics.AppMetrics
}

func NewPersister(kv storage.Store, keys Keys, m *metrics.AppMetrics) *Persister {
	return &Persister{kv: kv, keys: keys, metrics: m}
}

// Listen is a store.Listener
func (p *Persister) Listen(ctx context.Context, change store.Change) {
	if err := p.Save(ctx, change); err != nil {
		logger.Error(ctx, "Failed to persist state", err, zap.String("section", string(change.Section)))
		p.metrics.PersistenceErrors.Add(ctx, 1, metric.WithAttributes(p.metrics.WithServiceName([]attribute.KeyValue{
			attribute.String("section", string(change.Section)),
		})...))
	}
}

// Save writes one section
func (p *Persister) Save(ctx context.Context, change store.Change) error {
	data, err := Encode(change)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", change.Section, err)
	}
	return p.kv.Put(ctx, p.keys.For(change.Section), data)
}

// SaveAll writes every section of snap
func (p *Persister) SaveAll(ctx context.Context, snap store.Snapshot) error {
	changes := []store.Change{
		{Section: store.SectionVertical, Value: snap.Vertical},
		{Section: store.SectionProducts, Value: snap.Products},
		{Section: store.SectionCart, Value: snap.Cart},
		{Section: store.SectionUser, Value: snap.User},
		{Section: store.SectionOrders, Value: snap.Orders},
	}
	for _, c := range changes {
		if err := p.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
