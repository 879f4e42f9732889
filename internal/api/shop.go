package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/mookkammal/storefront/internal/apperr"
	"github.com/mookkammal/storefront/internal/command"
	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/view"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// featuredCount is how many products the home page shows
const featuredCount = 4

// ProductDetail is a product page
type ProductDetail struct {
	Product     models.Product `json:"product"`
	Perspective string         `json:"perspective"`
}

// HomeHandler handles home
func (a *App) HomeHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	v := a.state.Vertical()
	return &command.Response{
		Message: fmt.Sprintf("Mookkammal %s: featured", displayName(v)),
		Data:    view.Featured(a.state.Products(), v, featuredCount),
	}, nil
}

// CategoriesHandler handles categories
func (a *App) CategoriesHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	v := a.state.Vertical()
	menu := make([]CategoryEntry, 0)
	for _, c := range view.Categories(v) {
		menu = append(menu, CategoryEntry{Name: c, SubCategories: view.SubCategories(v, c)})
	}
	return &command.Response{Data: menu}, nil
}

// CategoryEntry is one line of the category menu
type CategoryEntry struct {
	Name          string   `json:"name"`
	SubCategories []string `json:"subCategories"`
}

// BrowseHandler handles browse
func (a *App) BrowseHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	fs := newFlagSet("browse")
	category := fs.String("category", view.AllCategories, "category")
	sub := fs.String("sub", "", "sub-category")
	text := fs.String("q", "", "search text")
	sortKey := fs.String("sort", string(view.SortNewest), "sort key")
	positional, err := parseArgs(fs, req.Args)
	if err != nil {
		return nil, err
	}
	if *text == "" && len(positional) > 0 {
		*text = strings.Join(positional, " ")
	}

	q := view.Query{
		Vertical:    a.state.Vertical(),
		Category:    *category,
		SubCategory: *sub,
		Text:        *text,
		Sort:        view.ParseSortKey(*sortKey),
	}
	products := view.Filter(a.state.Products(), q)
	return &command.Response{
		Message: fmt.Sprintf("%d product(s) in %s", len(products), displayName(q.Vertical)),
		Data:    products,
	}, nil
}

// ProductHandler handles product <id>
func (a *App) ProductHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	id, err := exactlyOne("product", req.Args)
	if err != nil {
		return nil, err
	}
	p, ok := a.state.Product(id)
	if !ok {
		return nil, apperr.NotFound("product %s not found", id)
	}

	a.metrics.ProductsViewed.Add(ctx, 1, metric.WithAttributes(a.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("product_id", p.ID),
		attribute.String("vertical", string(p.Vertical)),
	})...))

	return &command.Response{Data: ProductDetail{
		Product:     p,
		Perspective: a.advisor.ProductTips(ctx, a.state.Vertical(), p),
	}}, nil
}

// AddToCartHandler handles add <id>
func (a *App) AddToCartHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	id, err := exactlyOne("add", req.Args)
	if err != nil {
		return nil, err
	}
	p, ok := a.state.Product(id)
	if !ok {
		return nil, apperr.NotFound("product %s not found", id)
	}
	if err := a.state.AddToCart(ctx, p); err != nil {
		return nil, storeError(err)
	}
	a.recordCart(ctx)
	return &command.Response{Message: fmt.Sprintf("Added %s to your %s bag", p.Name, displayName(p.Vertical))}, nil
}

// RemoveFromCartHandler handles remove <id>
func (a *App) RemoveFromCartHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	id, err := exactlyOne("remove", req.Args)
	if err != nil {
		return nil, err
	}
	if _, ok := a.state.CartItem(id); !ok && !a.state.Options().ReportNoOps {
		return &command.Response{Message: fmt.Sprintf("Nothing removed: %s is not in the %s bag", id, displayName(a.state.Vertical()))}, nil
	}
	if err := a.state.RemoveFromCart(ctx, id); err != nil {
		return nil, storeError(err)
	}
	a.recordCart(ctx)
	return &command.Response{Message: fmt.Sprintf("Removed %s", id)}, nil
}

// UpdateQuantityHandler handles qty <id> <n>
func (a *App) UpdateQuantityHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	if len(req.Args) != 2 {
		return nil, apperr.BadRequest("usage: qty <id> <n>")
	}
	qty, err := parseQuantity(req.Args[1])
	if err != nil {
		return nil, err
	}
	item, ok := a.state.CartItem(req.Args[0])
	if ok && item.Quantity == qty {
		return &command.Response{Message: "Cart unchanged"}, nil
	}
	// with ReportNoOps the store explains why nothing changed
	if (!ok || qty < 1) && !a.state.Options().ReportNoOps {
		return &command.Response{Message: "Cart unchanged"}, nil
	}
	if err := a.state.UpdateQuantity(ctx, req.Args[0], qty); err != nil {
		return nil, storeError(err)
	}
	a.recordCart(ctx)
	return &command.Response{Message: fmt.Sprintf("Set %s to %d", req.Args[0], qty)}, nil
}

// CartHandler handles cart
func (a *App) CartHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	v := a.state.Vertical()
	return &command.Response{Data: view.Summarize(v, a.state.Bag(v))}, nil
}

// CheckoutHandler handles checkout
func (a *App) CheckoutHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	order, err := a.state.PlaceOrder(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	if order == nil {
		return &command.Response{Message: fmt.Sprintf("Your %s bag is empty", displayName(a.state.Vertical()))}, nil
	}

	a.metrics.RecordOrder(ctx, string(order.Vertical), order.Total)
	a.recordCart(ctx)
	logger.Info(ctx, "Order placed",
		zap.String("order_id", order.ID),
		zap.String("vertical", string(order.Vertical)),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	return &command.Response{
		Message: fmt.Sprintf("Order %s placed", order.ID),
		Data:    *order,
	}, nil
}

// ListOrdersHandler handles orders
func (a *App) ListOrdersHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	return &command.Response{Data: a.state.Orders()}, nil
}

func displayName(v models.Vertical) string {
	if v == models.VerticalSupermarket {
		return "Super Market"
	}
	return "Textiles"
}
