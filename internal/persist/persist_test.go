package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mookkammal/storefront/internal/metrics"
	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/seed"
	"github.com/mookkammal/storefront/internal/storage"
	"github.com/mookkammal/storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = NewKeys("mookkammal_")

func defaults() Defaults {
	return Defaults{Vertical: models.VerticalTextiles, Products: seed.Products}
}

func backends(t *testing.T) map[string]storage.Store {
	t.Helper()
	ctx := context.Background()

	db, err := storage.OpenSQLite(ctx, ":memory:", "test")
	require.NoError(t, err)
	sqlStore := storage.NewSQLStore(db, storage.DialectSQLite)
	require.NoError(t, sqlStore.InitSchema(ctx))

	mr := miniredis.RunT(t)
	client, err := storage.OpenRedis(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)

	all := map[string]storage.Store{
		"memory": storage.NewMemoryStore(),
		"sqlite": sqlStore,
		"redis":  storage.NewRedisStore(client),
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestLoad_FirstRunUsesDefaults(t *testing.T) {
	snap, err := Load(context.Background(), storage.NewMemoryStore(), keys, Defaults{Vertical: models.VerticalSupermarket, Products: seed.Products})
	require.NoError(t, err)

	assert.Equal(t, models.VerticalSupermarket, snap.Vertical)
	assert.Equal(t, seed.Products(), snap.Products)
	assert.Equal(t, models.NewCart(), snap.Cart)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Orders)
}

func TestLoad_ToleratesCorruptSections(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Put(ctx, "mookkammal_vertical", []byte("BOOKS")))
	require.NoError(t, kv.Put(ctx, "mookkammal_products", []byte("{not json")))
	require.NoError(t, kv.Put(ctx, "mookkammal_cart", []byte(`{"TEXTILES":null}`)))
	require.NoError(t, kv.Put(ctx, "mookkammal_user", []byte("null")))
	require.NoError(t, kv.Put(ctx, "mookkammal_orders", []byte("null")))

	snap, err := Load(ctx, kv, keys, defaults())
	require.NoError(t, err)

	assert.Equal(t, models.VerticalTextiles, snap.Vertical)
	assert.Len(t, snap.Products, 5)
	assert.NotNil(t, snap.Cart.Textiles)
	assert.NotNil(t, snap.Cart.Supermarket)
	assert.Nil(t, snap.User)
	assert.NotNil(t, snap.Orders)
}

func TestLoad_AcceptsQuotedVertical(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Put(ctx, "mookkammal_vertical", []byte(`"SUPERMARKET"`)))

	snap, err := Load(ctx, kv, keys, defaults())
	require.NoError(t, err)
	assert.Equal(t, models.VerticalSupermarket, snap.Vertical)
}

type brokenStore struct{ storage.Store }

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Put(context.Context, string, []byte) error {
	return errors.New("connection refused")
}

func TestLoad_StorageFailure(t *testing.T) {
	_, err := Load(context.Background(), brokenStore{}, keys, defaults())
	assert.ErrorContains(t, err, "mookkammal_vertical")
}

func TestPersister_WriteFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.Snapshot{Products: seed.Products()}, store.Options{})
	s.Subscribe(NewPersister(brokenStore{}, keys, metrics.NewNoop("test")).Listen)

	require.NoError(t, s.SetVertical(ctx, models.VerticalSupermarket))
	assert.Equal(t, models.VerticalSupermarket, s.Vertical())
}

func TestEncode_VerticalIsBare(t *testing.T) {
	data, err := Encode(store.Change{Section: store.SectionVertical, Value: models.VerticalSupermarket})
	require.NoError(t, err)
	assert.Equal(t, "SUPERMARKET", string(data))

	data, err = Encode(store.Change{Section: store.SectionUser, Value: (*models.User)(nil)})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			initial, err := Load(ctx, kv, keys, defaults())
			require.NoError(t, err)

			now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
			s := store.New(initial, store.Options{Now: func() time.Time { return now }})
			s.Subscribe(NewPersister(kv, keys, metrics.NewNoop("test")).Listen)

			t1, _ := s.Product("t1")
			s1, _ := s.Product("s1")
			require.NoError(t, s.AddToCart(ctx, t1))
			require.NoError(t, s.AddToCart(ctx, t1))
			require.NoError(t, s.AddToCart(ctx, s1))
			_, err = s.PlaceOrder(ctx)
			require.NoError(t, err)
			require.NoError(t, s.AddToCart(ctx, t1))

			added := s.AddProduct(ctx, models.ProductDraft{Name: "Cotton Bedsheet", Price: 899, OldPrice: 1099, Category: "Home Textiles", SubCategory: "Bedsheets", Vertical: models.VerticalTextiles, Stock: 7, IsNew: true})
			price := 800.0
			require.NoError(t, s.UpdateProduct(ctx, added.ID, models.ProductUpdate{Price: &price}))
			require.NoError(t, s.DeleteProduct(ctx, "t2"))

			s.SetUser(ctx, models.User{ID: "u1", Name: "Meena", Email: "meena@shop.in", Role: models.RoleUser, Avatar: "https://ui-avatars.com/api/?name=Meena"})
			require.NoError(t, s.SetVertical(ctx, models.VerticalSupermarket))

			want := s.Snapshot()

			reloaded, err := Load(ctx, kv, keys, defaults())
			require.NoError(t, err)
			assert.Equal(t, want, store.New(reloaded, store.Options{}).Snapshot())

			s.Logout(ctx)
			reloaded, err = Load(ctx, kv, keys, defaults())
			require.NoError(t, err)
			assert.Nil(t, reloaded.User)
		})
	}
}

func TestSaveAll(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	p := NewPersister(kv, keys, metrics.NewNoop("test"))

	snap := store.New(store.Snapshot{Vertical: models.VerticalSupermarket, Products: seed.Products()}, store.Options{}).Snapshot()
	require.NoError(t, p.SaveAll(ctx, snap))

	for _, section := range store.Sections {
		_, err := kv.Get(ctx, keys.For(section))
		assert.NoError(t, err, section)
	}
	reloaded, err := Load(ctx, kv, keys, Defaults{Vertical: models.VerticalTextiles})
	require.NoError(t, err)
	assert.Equal(t, snap, reloaded)
}
