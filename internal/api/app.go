package api

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/mookkammal/storefront/internal/advisor"
	"github.com/mookkammal/storefront/internal/apperr"
	"github.com/mookkammal/storefront/internal/auth"
	"github.com/mookkammal/storefront/internal/command"
	"github.com/mookkammal/storefront/internal/metrics"
	"github.com/mookkammal/storefront/internal/middleware"
	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/store"
	"github.com/mookkammal/storefront/pkg/config"
)

// App holds application dependencies
type App struct {
	config   *config.Config
	state    *store.State
	metrics  *metrics.AppMetrics
	auth     auth.Authenticator
	advisor  *advisor.Service
	validate *validator.Validate
	router   *command.Router
}

// NewApp creates a new application instance
func NewApp(
	cfg *config.Config,
	state *store.State,
	m *metrics.AppMetrics,
	authenticator auth.Authenticator,
	adv *advisor.Service,
) *App {
	return &App{
		config:   cfg,
		state:    state,
		metrics:  m,
		auth:     authenticator,
		advisor:  adv,
		validate: validator.New(),
	}
}

// SetupRoutes registers every console command
func (a *App) SetupRoutes(r *command.Router) {
	a.router = r

	// Middleware
	r.Use(middleware.CommandIDMiddleware)
	r.Use(middleware.RecoverMiddleware)
	r.Use(middleware.MetricsMiddleware(a.metrics))

	r.Handle("help", a.HelpHandler, "help", "List commands")

	// Vertical
	r.Handle("vertical", a.VerticalHandler, "vertical [TEXTILES|SUPERMARKET]", "Show or switch the active vertical")
	r.Handle("toggle", a.ToggleHandler, "toggle", "Switch to the other vertical")

	// Catalog
	r.Handle("home", a.HomeHandler, "home", "Featured products of the active vertical")
	r.Handle("categories", a.CategoriesHandler, "categories", "Category menu of the active vertical")
	r.Handle("browse", a.BrowseHandler, "browse [-category C] [-sub S] [-q text] [-sort newest|price-low|price-high|rating]", "List products of the active vertical")
	r.Handle("product", a.ProductHandler, "product <id>", "Product details and assistant tips")

	// Cart
	r.Handle("add", a.AddToCartHandler, "add <id>", "Add one unit to the product's bag")
	r.Handle("remove", a.RemoveFromCartHandler, "remove <id>", "Remove a line item")
	r.Handle("qty", a.UpdateQuantityHandler, "qty <id> <n>", "Set a line item's quantity")
	r.Handle("cart", a.CartHandler, "cart", "Show the active vertical's bag")

	// Orders
	r.Handle("checkout", a.CheckoutHandler, "checkout", "Place an order for the active vertical's bag")
	r.Handle("orders", a.ListOrdersHandler, "orders", "Order history, newest first")

	// Session
	r.Handle("login", a.LoginHandler, "login <email> [-name N] [-password P]", "Sign in")
	r.Handle("logout", a.LogoutHandler, "logout", "Sign out")
	r.Handle("whoami", a.WhoAmIHandler, "whoami", "Show the signed-in user")

	// Assistant and navigation
	r.Handle("ask", a.AskHandler, "ask [-pro] <question...>", "Chat with the Mookkammal Assistant")
	r.Handle("go", a.NavigateHandler, "go <page> [-category C] [-product ID]", "Open a page: home, category, product, cart, auth, admin")

	// Admin
	r.Handle("admin list", a.AdminListHandler, "admin list [-q text]", "Inventory across both verticals")
	r.Handle("admin add", a.AdminAddHandler, "admin add -name N -price P -category C [-vertical V] [-sub S] [-stock N] ...", "Add a product")
	r.Handle("admin update", a.AdminUpdateHandler, "admin update <id> [-name N] [-price P] [-stock N] ...", "Change product fields")
	r.Handle("admin delete", a.AdminDeleteHandler, "admin delete <id>", "Delete a product")
	r.Handle("admin stats", a.AdminStatsHandler, "admin stats", "Sales, pending orders and stock alerts")
}

// Dispatch runs one tokenised console line
func (a *App) Dispatch(ctx context.Context, words []string) (*command.Response, error) {
	return a.router.Dispatch(ctx, words)
}

// HelpHandler handles help
func (a *App) HelpHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	return &command.Response{Data: a.router.Routes()}, nil
}

// storeError maps store sentinels to command errors
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrProductNotFound), errors.Is(err, store.ErrNotInCart):
		return apperr.New(apperr.KindNotFound, err.Error(), err)
	case errors.Is(err, store.ErrInvalidQuantity), errors.Is(err, store.ErrEmptyCart), errors.Is(err, store.ErrInvalidVertical):
		return apperr.New(apperr.KindBadRequest, err.Error(), err)
	}
	return apperr.Internal(err)
}

// recordCart refreshes the cart gauges
func (a *App) recordCart(ctx context.Context) {
	cart := a.state.Cart()
	active := 0
	for _, v := range models.Verticals {
		if len(cart.Bag(v)) > 0 {
			active++
		}
	}
	for _, v := range models.Verticals {
		a.metrics.RecordCart(ctx, string(v), models.ItemCount(cart.Bag(v)), active)
	}
}

func (a *App) requireAdmin() (*models.User, error) {
	user := a.state.User()
	if user == nil {
		return nil, apperr.Unauthorized("sign in with an admin account first")
	}
	if !user.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	return user, nil
}
