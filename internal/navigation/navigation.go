// Package navigation resolves page requests against the session.
package navigation

import (
	"strings"

	"github.com/mookkammal/storefront/internal/models"
)

// Page is a named screen of the storefront
type Page string

const (
	PageHome     Page = "home"
	PageCategory Page = "category"
	PageProduct  Page = "product"
	PageCart     Page = "cart"
	PageAuth     Page = "auth"
	PageAdmin    Page = "admin"
)

// Pages lists every page
var Pages = []Page{PageHome, PageCategory, PageProduct, PageCart, PageAuth, PageAdmin}

// Route is a navigation request
type Route struct {
	Page      Page
	Category  string
	ProductID string
}

// Resolve returns the page actually shown for r. Unknown pages go home; the
// admin page needs an ADMIN session, otherwise the shopper is sent to auth.
func Resolve(r Route, user *models.User) Route {
	page := Page(strings.ToLower(strings.TrimSpace(string(r.Page))))
	switch page {
	case PageAdmin:
		if !user.IsAdmin() {
			return Route{Page: PageAuth}
		}
	case PageHome, PageCategory, PageProduct, PageCart, PageAuth:
	default:
		page = PageHome
	}
	r.Page = page
	return r
}

// AfterLogin is where a freshly signed-in user lands
func AfterLogin(user models.User) Page {
	if user.IsAdmin() {
		return PageAdmin
	}
	return PageHome
}
