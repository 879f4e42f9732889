package api

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/mookkammal/storefront/internal/advisor"
	"github.com/mookkammal/storefront/internal/apperr"
	"github.com/mookkammal/storefront/internal/auth"
	"github.com/mookkammal/storefront/internal/command"
	"github.com/mookkammal/storefront/internal/metrics"
	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/persist"
	"github.com/mookkammal/storefront/internal/seed"
	"github.com/mookkammal/storefront/internal/store"
	"github.com/mookkammal/storefront/internal/view"
	"github.com/mookkammal/storefront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Generate(ctx context.Context, req advisor.Request) (string, error) {
	return g.reply, g.err
}

func newTestApp(t *testing.T, gen advisor.Generator) (*App, *store.State) {
	t.Helper()
	return newTestAppWithOptions(t, gen, store.Options{})
}

func newTestAppWithOptions(t *testing.T, gen advisor.Generator, opts store.Options) (*App, *store.State) {
	t.Helper()
	n := 0
	opts.Now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	opts.NewProductID = func() string {
		n++
		return fmt.Sprintf("p-%d", n)
	}
	opts.NewOrderID = func() string { return "ORD-TEST" }
	state := store.New(store.Snapshot{
		Vertical: models.VerticalTextiles,
		Products: seed.Products(),
		Cart:     models.NewCart(),
	}, opts)

	m := metrics.NewNoop("storefront-test")
	adv := advisor.New(gen, advisor.Config{FastModel: "fast", ProModel: "pro", Timeout: time.Second, TipTTL: time.Minute}, m)
	app := NewApp(&config.Config{}, state, m, auth.MockAuthenticator{}, adv)
	app.SetupRoutes(command.NewRouter())
	return app, state
}

// run tokenises line the way the console does and dispatches it
func run(t *testing.T, app *App, line string) (*command.Response, error) {
	t.Helper()
	words, err := shellwords.Parse(line)
	require.NoError(t, err)
	return app.Dispatch(context.Background(), words)
}

func mustRun(t *testing.T, app *App, line string) *command.Response {
	t.Helper()
	resp, err := run(t, app, line)
	require.NoError(t, err, line)
	require.NotNil(t, resp, line)
	return resp
}

func TestShopping_TwoVerticalCheckout(t *testing.T) {
	app, state := newTestApp(t, nil)

	resp := mustRun(t, app, "add t1")
	assert.Equal(t, "Added Kancheepuram Silk Saree to your Textiles bag", resp.Message)
	mustRun(t, app, "add t1")

	resp = mustRun(t, app, "toggle")
	assert.Equal(t, "Welcome to Mookkammal Super Market", resp.Message)
	mustRun(t, app, "add s1")

	resp = mustRun(t, app, "cart")
	summary, ok := resp.Data.(view.CartSummary)
	require.True(t, ok)
	assert.Equal(t, models.VerticalSupermarket, summary.Vertical)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 850.0, summary.Subtotal)
	assert.Equal(t, 0.0, summary.Delivery)

	resp = mustRun(t, app, "checkout")
	assert.Equal(t, "Order ORD-TEST placed", resp.Message)

	orders := state.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.VerticalSupermarket, orders[0].Vertical)
	assert.Equal(t, 850.0, orders[0].Total)
	assert.Equal(t, models.OrderStatusPending, orders[0].Status)

	assert.Empty(t, state.Bag(models.VerticalSupermarket))
	textiles := state.Bag(models.VerticalTextiles)
	require.Len(t, textiles, 1)
	assert.Equal(t, 2, textiles[0].Quantity)

	resp = mustRun(t, app, "checkout")
	assert.Equal(t, "Your Super Market bag is empty", resp.Message)
	assert.Len(t, state.Orders(), 1)
}

func TestCart_Errors(t *testing.T) {
	app, state := newTestApp(t, nil)

	_, err := run(t, app, "add nope")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = run(t, app, "add")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	mustRun(t, app, "add t3")
	_, err = run(t, app, "qty t3 many")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	resp := mustRun(t, app, "qty t3 0")
	assert.Equal(t, "Cart unchanged", resp.Message)

	resp = mustRun(t, app, "qty t3 4")
	assert.Equal(t, "Set t3 to 4", resp.Message)
	assert.Equal(t, 4, state.Bag(models.VerticalTextiles)[0].Quantity)
	resp = mustRun(t, app, "qty t3 4")
	assert.Equal(t, "Cart unchanged", resp.Message)
	resp = mustRun(t, app, "qty s1 2")
	assert.Equal(t, "Cart unchanged", resp.Message)

	resp = mustRun(t, app, "remove s1")
	assert.Contains(t, resp.Message, "Nothing removed")

	mustRun(t, app, "remove t3")
	assert.Empty(t, state.Bag(models.VerticalTextiles))
}

func TestCart_ReportNoOps(t *testing.T) {
	app, state := newTestAppWithOptions(t, nil, store.Options{ReportNoOps: true})

	_, err := run(t, app, "remove t1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = run(t, app, "qty t1 2")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	mustRun(t, app, "add t1")
	_, err = run(t, app, "qty t1 0")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.Equal(t, 1, state.Bag(models.VerticalTextiles)[0].Quantity)

	resp := mustRun(t, app, "remove t1")
	assert.Equal(t, "Removed t1", resp.Message)
}

func TestCart_AnyScopeRemovesFromOtherBag(t *testing.T) {
	app, state := newTestAppWithOptions(t, nil, store.Options{CartScope: store.ScopeAny})

	mustRun(t, app, "add s1")
	resp := mustRun(t, app, "qty s1 3")
	assert.Equal(t, "Set s1 to 3", resp.Message)
	resp = mustRun(t, app, "remove s1")
	assert.Equal(t, "Removed s1", resp.Message)
	assert.Empty(t, state.Bag(models.VerticalSupermarket))
}

func TestBrowse(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp := mustRun(t, app, `browse -category "Women's Wear" -sort price-low`)
	products, ok := resp.Data.([]models.Product)
	require.True(t, ok)
	require.Len(t, products, 2)
	assert.Equal(t, "t3", products[0].ID)
	assert.Equal(t, "t1", products[1].ID)

	resp = mustRun(t, app, "browse basmati")
	products = resp.Data.([]models.Product)
	assert.Empty(t, products, "supermarket products stay hidden while browsing textiles")

	mustRun(t, app, "vertical supermarket")
	resp = mustRun(t, app, "browse basmati")
	products = resp.Data.([]models.Product)
	require.Len(t, products, 1)
	assert.Equal(t, "s1", products[0].ID)

	_, err := run(t, app, "vertical groceries")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestProduct_IncludesAssistantTips(t *testing.T) {
	app, _ := newTestApp(t, stubGenerator{reply: "Pair it with temple jewellery."})

	resp := mustRun(t, app, "product t1")
	detail, ok := resp.Data.(ProductDetail)
	require.True(t, ok)
	assert.Equal(t, "t1", detail.Product.ID)
	assert.Equal(t, "Pair it with temple jewellery.", detail.Perspective)

	_, err := run(t, app, "product nope")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAsk(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp := mustRun(t, app, "ask")
	assert.Equal(t, advisor.Greeting(models.VerticalTextiles), resp.Message)

	resp = mustRun(t, app, "ask which saree for a wedding?")
	assert.Equal(t, advisor.FallbackUnavailable, resp.Message)
}

func TestSession_LoginAndLogout(t *testing.T) {
	app, state := newTestApp(t, nil)

	resp := mustRun(t, app, "whoami")
	assert.Equal(t, "Not signed in", resp.Message)

	_, err := run(t, app, "login")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	resp = mustRun(t, app, `login priya@example.com -name "Priya R"`)
	assert.Equal(t, "Welcome, Priya R (USER). Next page: home", resp.Message)
	user := state.User()
	require.NotNil(t, user)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Priya+R", user.Avatar)

	mustRun(t, app, "logout")
	assert.Nil(t, state.User())
}

func TestAdmin_RequiresAdminRole(t *testing.T) {
	app, _ := newTestApp(t, nil)

	_, err := run(t, app, "admin stats")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	mustRun(t, app, "login priya@example.com")
	_, err = run(t, app, "admin delete t1")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	resp := mustRun(t, app, "login admin@mookkammal.com")
	assert.Contains(t, resp.Message, "Next page: admin")
	resp = mustRun(t, app, "admin stats")
	stats, ok := resp.Data.(view.Stats)
	require.True(t, ok)
	assert.Equal(t, 3, stats.ProductsByVertical[models.VerticalTextiles])
	assert.Equal(t, 2, stats.ProductsByVertical[models.VerticalSupermarket])
}

func TestAdmin_ProductLifecycle(t *testing.T) {
	app, state := newTestApp(t, nil)
	mustRun(t, app, "login admin@mookkammal.com")

	_, err := run(t, app, "admin add -price 10 -category Snacks")
	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.Contains(t, apperr.Message(err), "name (required)")

	resp := mustRun(t, app, `admin add -name "Cotton Bath Towel" -price 299 -category "Home Textiles" -sub Towels -stock 8 -new`)
	assert.Equal(t, "Added Cotton Bath Towel as p-1", resp.Message)
	added, ok := state.Product("p-1")
	require.True(t, ok)
	assert.Equal(t, models.VerticalTextiles, added.Vertical)
	assert.Equal(t, 5.0, added.Rating)
	assert.Equal(t, 0, added.Reviews)
	assert.Equal(t, "p-1", state.Products()[0].ID)

	mustRun(t, app, "admin update p-1 -stock 3 -rating 4.2 -vertical supermarket")
	updated, _ := state.Product("p-1")
	assert.Equal(t, 3, updated.Stock)
	assert.Equal(t, 4.2, updated.Rating)
	assert.Equal(t, models.VerticalSupermarket, updated.Vertical)
	assert.Equal(t, "Cotton Bath Towel", updated.Name)

	_, err = run(t, app, "admin update p-1")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	_, err = run(t, app, "admin update p-1 -rating 7")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	_, err = run(t, app, "admin update nope -stock 1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	resp = mustRun(t, app, "admin list towel")
	listed := resp.Data.([]models.Product)
	require.Len(t, listed, 1)

	mustRun(t, app, "admin delete p-1")
	_, ok = state.Product("p-1")
	assert.False(t, ok)
	_, err = run(t, app, "admin delete p-1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAdmin_RejectsUnencodablePrices(t *testing.T) {
	app, state := newTestApp(t, nil)
	mustRun(t, app, "login admin@mookkammal.com")

	for _, line := range []string{
		"admin add -name Bad -price Inf -category Kids -vertical TEXTILES",
		"admin add -name Bad -price 10 -old-price NaN -category Kids",
		"admin add -name Bad -price 1e308 -category Kids",
		"admin update t1 -price 1e308",
		"admin update t1 -price -Inf",
		"admin update t1 -old-price Inf",
		"admin update t1 -rating NaN",
	} {
		_, err := run(t, app, line)
		require.Error(t, err, line)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err), line)
	}

	assert.Len(t, state.Products(), 5)
	silk, _ := state.Product("t1")
	assert.Equal(t, 12500.0, silk.Price)

	mustRun(t, app, fmt.Sprintf("admin update t1 -price %d", models.MaxPrice))
	mustRun(t, app, "add t1")
	mustRun(t, app, "add t1")
	mustRun(t, app, "checkout")

	for _, change := range []store.Change{
		{Section: store.SectionProducts, Value: state.Products()},
		{Section: store.SectionOrders, Value: state.Orders()},
	} {
		_, err := persist.Encode(change)
		assert.NoError(t, err, change.Section)
	}
}

func TestNavigate(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp := mustRun(t, app, "go admin")
	assert.True(t, strings.HasPrefix(resp.Message, "[auth]"), resp.Message)

	resp = mustRun(t, app, "go product t2")
	assert.True(t, strings.HasPrefix(resp.Message, "[product]"))
	detail := resp.Data.(ProductDetail)
	assert.Equal(t, "t2", detail.Product.ID)

	resp = mustRun(t, app, `go category "Men's Wear"`)
	products := resp.Data.([]models.Product)
	require.Len(t, products, 1)
	assert.Equal(t, "t2", products[0].ID)

	resp = mustRun(t, app, "go nowhere")
	assert.True(t, strings.HasPrefix(resp.Message, "[home]"))

	mustRun(t, app, "login admin@mookkammal.com")
	resp = mustRun(t, app, "go admin")
	assert.True(t, strings.HasPrefix(resp.Message, "[admin]"))
}

func TestUnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, err := run(t, app, "dance")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestServe(t *testing.T) {
	app, state := newTestApp(t, nil)

	in := strings.NewReader("add t1\nbogus\n\ncart\nquit\nadd t1\n")
	var out bytes.Buffer
	require.NoError(t, app.Serve(context.Background(), in, &out))

	text := out.String()
	assert.Contains(t, text, "Added Kancheepuram Silk Saree to your Textiles bag")
	assert.Contains(t, text, `error: unknown command "bogus"`)
	assert.Contains(t, text, "₹12,500")
	assert.Contains(t, text, "textiles> ")

	require.Len(t, state.Bag(models.VerticalTextiles), 1)
	assert.Equal(t, 1, state.Bag(models.VerticalTextiles)[0].Quantity)
}

func TestServe_StopsAtEOF(t *testing.T) {
	app, _ := newTestApp(t, nil)
	var out bytes.Buffer
	require.NoError(t, app.Serve(context.Background(), strings.NewReader("help"), &out))
	assert.Contains(t, out.String(), "checkout")
}
