package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/mookkammal/storefront/internal/advisor"
	"github.com/mookkammal/storefront/internal/apperr"
	"github.com/mookkammal/storefront/internal/auth"
	"github.com/mookkammal/storefront/internal/command"
	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/navigation"
	"go.uber.org/zap"
)

// VerticalHandler handles vertical [v]
func (a *App) VerticalHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	if len(req.Args) == 0 {
		return &command.Response{Message: fmt.Sprintf("Browsing %s", a.state.Vertical())}, nil
	}
	v, err := models.ParseVertical(req.Args[0])
	if err != nil {
		return nil, apperr.BadRequest("vertical must be TEXTILES or SUPERMARKET")
	}
	if err := a.state.SetVertical(ctx, v); err != nil {
		return nil, storeError(err)
	}
	return &command.Response{Message: fmt.Sprintf("Welcome to Mookkammal %s", displayName(v))}, nil
}

// ToggleHandler handles toggle
func (a *App) ToggleHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	v := a.state.ToggleVertical(ctx)
	return &command.Response{Message: fmt.Sprintf("Welcome to Mookkammal %s", displayName(v))}, nil
}

// LoginHandler handles login <email>
func (a *App) LoginHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	fs := newFlagSet("login")
	name := fs.String("name", "", "display name")
	password := fs.String("password", "", "password")
	positional, err := parseArgs(fs, req.Args)
	if err != nil {
		return nil, err
	}

	creds := auth.Credentials{Name: *name, Password: *password}
	if len(positional) > 0 {
		creds.Email = positional[0]
	}
	if err := a.validate.Struct(creds); err != nil {
		return nil, apperr.BadRequest("usage: login <email> [-name N] [-password P]")
	}

	user, err := a.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, apperr.New(apperr.KindUnauthorized, "sign in failed", err)
	}
	a.state.SetUser(ctx, user)
	logger.Info(ctx, "User signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	return &command.Response{
		Message: fmt.Sprintf("Welcome, %s (%s). Next page: %s", user.Name, user.Role, navigation.AfterLogin(user)),
		Data:    user,
	}, nil
}

// LogoutHandler handles logout
func (a *App) LogoutHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	a.state.Logout(ctx)
	return &command.Response{Message: "Signed out"}, nil
}

// WhoAmIHandler handles whoami
func (a *App) WhoAmIHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	user := a.state.User()
	if user == nil {
		return &command.Response{Message: "Not signed in"}, nil
	}
	return &command.Response{Data: *user}, nil
}

// AskHandler handles ask [-pro] <question>. Without a question it returns the greeting.
func (a *App) AskHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	fs := newFlagSet("ask")
	pro := fs.Bool("pro", false, "use the higher-quality model")
	positional, err := parseArgs(fs, req.Args)
	if err != nil {
		return nil, err
	}

	v := a.state.Vertical()
	question := strings.TrimSpace(strings.Join(positional, " "))
	if question == "" {
		return &command.Response{Message: advisor.Greeting(v)}, nil
	}
	tier := advisor.TierFast
	if *pro {
		tier = advisor.TierPro
	}
	return &command.Response{Message: a.advisor.Ask(ctx, v, question, tier)}, nil
}

// NavigateHandler handles go <page>
func (a *App) NavigateHandler(ctx context.Context, req *command.Request) (*command.Response, error) {
	fs := newFlagSet("go")
	category := fs.String("category", "", "category")
	productID := fs.String("product", "", "product id")
	positional, err := parseArgs(fs, req.Args)
	if err != nil {
		return nil, err
	}

	route := navigation.Route{Category: *category, ProductID: *productID}
	if len(positional) > 0 {
		route.Page = navigation.Page(strings.ToLower(positional[0]))
	}
	// go product t1, go category Snacks
	if len(positional) > 1 {
		switch route.Page {
		case navigation.PageProduct:
			if route.ProductID == "" {
				route.ProductID = positional[1]
			}
		case navigation.PageCategory:
			if route.Category == "" {
				route.Category = strings.Join(positional[1:], " ")
			}
		}
	}
	route = navigation.Resolve(route, a.state.User())

	var resp *command.Response
	switch route.Page {
	case navigation.PageCategory:
		args := []string{}
		if route.Category != "" {
			args = append(args, "-category", route.Category)
		}
		resp, err = a.BrowseHandler(ctx, &command.Request{ID: req.ID, Name: "browse", Args: args})
	case navigation.PageProduct:
		resp, err = a.ProductHandler(ctx, &command.Request{ID: req.ID, Name: "product", Args: []string{route.ProductID}})
	case navigation.PageCart:
		resp, err = a.CartHandler(ctx, req)
	case navigation.PageAuth:
		resp = &command.Response{Message: "Sign in with: login <email> [-name N] [-password P]"}
	case navigation.PageAdmin:
		resp, err = a.AdminStatsHandler(ctx, req)
	default:
		resp, err = a.HomeHandler(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	resp.Message = strings.TrimSpace(fmt.Sprintf("[%s] %s", route.Page, resp.Message))
	return resp, nil
}
