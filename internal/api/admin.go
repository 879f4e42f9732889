package api

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mookkammal/storefront/internal/apperr"
	"github.com/mookkammal/storefront/internal/command"
	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/view"
	"go.uber.org/zap"
)

// productFlags binds the editable product fields to a flag set
type productFlags struct {
	name, description, category, sub, vertical, image *string
	price, oldPrice                                  *float64
	stock                                            *int
	isNew                                            *bool
}

func bindProductFlags(fs *flag.FlagSet) productFlags {
	return productFlags{
		name:        fs.String("name", "", "product name"),
		description: fs.String("description", "", "description"),
		category:    fs.String("category", "", "category"),
		sub:         fs.String("sub", "", "sub-category"),
		vertical:    fs.String("vertical", "", "TEXTILES or SUPERMARKET"),
		image:       fs.String("image", "", "image URL"),
		price:       fs.Float64("price", 0, "price"),
		oldPrice:    fs.Float64("old-price", 0, "strike-through price"),
		stock:       fs.Int("stock", 0, "units in stock"),
		isNew:       fs.Bool("new", false, "mark as new"),
	}
}

// AdminListHandler handles admin list
func (a *App) AdminListHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	if _, err := a.requireAdmin(); err != nil {
		return nil, err
	}
	fs := newFlagSet("admin list")
	text := fs.String("q", "", "search text")
	positional, err := parseArgs(fs, req.Args)
	if err != nil {
		return nil, err
	}
	if *text == "" {
		*text = strings.Join(positional, " ")
	}
	return &command.Response{Data: view.AdminSearch(a.state.Products(), *text)}, nil
}

// AdminAddHandler handles admin add
func (a *App) AdminAddHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	if _, err := a.requireAdmin(); err != nil {
		return nil, err
	}
	fs := newFlagSet("admin add")
	f := bindProductFlags(fs)
	if _, err := parseArgs(fs, req.Args); err != nil {
		return nil, err
	}
	if err := f.checkFinite(); err != nil {
		return nil, err
	}

	vertical := a.state.Vertical()
	if *f.vertical != "" {
		v, err := models.ParseVertical(*f.vertical)
		if err != nil {
			return nil, apperr.BadRequest("vertical must be TEXTILES or SUPERMARKET")
		}
		vertical = v
	}

	draft := models.ProductDraft{
		Name:        strings.TrimSpace(*f.name),
		Description: *f.description,
		Price:       *f.price,
		OldPrice:    *f.oldPrice,
		Category:    strings.TrimSpace(*f.category),
		SubCategory: *f.sub,
		Vertical:    vertical,
		Image:       *f.image,
		Stock:       *f.stock,
		IsNew:       *f.isNew,
	}
	if err := a.validate.Struct(draft); err != nil {
		return nil, validationError(err)
	}

	p := a.state.AddProduct(ctx, draft)
	logger.Info(ctx, "Product added", zap.String("product_id", p.ID), zap.String("vertical", string(p.Vertical)))
	return &command.Response{Message: fmt.Sprintf("Added %s as %s", p.Name, p.ID), Data: p}, nil
}

// AdminUpdateHandler handles admin update <id>
func (a *App) AdminUpdateHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	if _, err := a.requireAdmin(); err != nil {
		return nil, err
	}
	fs := newFlagSet("admin update")
	f := bindProductFlags(fs)
	rating := fs.Float64("rating", 0, "average rating, 0 to 5")
	reviews := fs.Int("reviews", 0, "review count")
	positional, err := parseArgs(fs, req.Args)
	if err != nil {
		return nil, err
	}
	id, err := exactlyOne("admin update", positional)
	if err != nil {
		return nil, err
	}
	if err := f.checkFinite(); err != nil {
		return nil, err
	}
	if math.IsNaN(*rating) || math.IsInf(*rating, 0) {
		return nil, apperr.BadRequest("rating must be a finite number")
	}

	set := setFlags(fs)
	update, err := f.update(set)
	if err != nil {
		return nil, err
	}
	if set["rating"] {
		update.Rating = rating
	}
	if set["reviews"] {
		update.Reviews = reviews
	}
	if update.Empty() {
		return nil, apperr.BadRequest("nothing to update, pass at least one field flag")
	}
	if err := a.validate.Struct(update); err != nil {
		return nil, validationError(err)
	}
	if _, ok := a.state.Product(id); !ok {
		return nil, apperr.NotFound("product %s not found", id)
	}
	if err := a.state.UpdateProduct(ctx, id, update); err != nil {
		return nil, storeError(err)
	}

	p, _ := a.state.Product(id)
	return &command.Response{Message: fmt.Sprintf("Updated %s", id), Data: p}, nil
}

// checkFinite rejects Inf and NaN, which flag.Float64 accepts but JSON cannot encode
func (f productFlags) checkFinite() error {
	for name, v := range map[string]float64{"price": *f.price, "old-price": *f.oldPrice} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperr.BadRequest("%s must be a finite number", name)
		}
	}
	return nil
}

// update builds a partial update from the flags that were set
func (f productFlags) update(set map[string]bool) (models.ProductUpdate, error) {
	var u models.ProductUpdate
	if set["name"] {
		u.Name = f.name
	}
	if set["description"] {
		u.Description = f.description
	}
	if set["category"] {
		u.Category = f.category
	}
	if set["sub"] {
		u.SubCategory = f.sub
	}
	if set["image"] {
		u.Image = f.image
	}
	if set["price"] {
		u.Price = f.price
	}
	if set["old-price"] {
		u.OldPrice = f.oldPrice
	}
	if set["stock"] {
		u.Stock = f.stock
	}
	if set["new"] {
		u.IsNew = f.isNew
	}
	if set["vertical"] {
		v, err := models.ParseVertical(*f.vertical)
		if err != nil {
			return u, apperr.BadRequest("vertical must be TEXTILES or SUPERMARKET")
		}
		u.Vertical = &v
	}
	return u, nil
}

// AdminDeleteHandler handles admin delete <id>
func (a *App) AdminDeleteHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	if _, err := a.requireAdmin(); err != nil {
		return nil, err
	}
	id, err := exactlyOne("admin delete", req.Args)
	if err != nil {
		return nil, err
	}
	if _, ok := a.state.Product(id); !ok {
		return nil, apperr.NotFound("product %s not found", id)
	}
	if err := a.state.DeleteProduct(ctx, id); err != nil {
		return nil, storeError(err)
	}
	logger.Info(ctx, "Product deleted", zap.String("product_id", id))
	return &command.Response{Message: fmt.Sprintf("Deleted %s", id)}, nil
}

// AdminStatsHandler handles admin stats
func (a *App) AdminStatsHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	user, err := a.requireAdmin()
	if err != nil {
		return nil, err
	}
	return &command.Response{
		Message: fmt.Sprintf("Dashboard for %s", user.Name),
		Data:    view.Dashboard(a.state.Products(), a.state.Orders()),
	}, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.BadRequest("invalid product: %v", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return apperr.BadRequest("invalid product: %s", strings.Join(fields, ", "))
}
