// Package store holds the storefront's application state: the catalog, the
// per-vertical carts, the order log, the session and the active vertical.
//
// All mutation goes through State methods. Listeners registered with
// Subscribe are told about every section that changed, after the change has
// been applied and while the state lock is still held, so observers see
// changes in the order they happened. Listeners must not call back into the
// State.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mookkammal/storefront/internal/models"
)

// Section names one independently persisted part of the state
type Section string

const (
	SectionVertical Section = "vertical"
	SectionProducts Section = "products"
	SectionCart     Section = "cart"
	SectionUser     Section = "user"
	SectionOrders   Section = "orders"
)

// Sections lists every section in load order
var Sections = []Section{SectionVertical, SectionProducts, SectionCart, SectionUser, SectionOrders}

// CartScope selects which bag remove/update-quantity operate on
type CartScope string

const (
	// ScopeActive targets the active vertical's bag only
	ScopeActive CartScope = "active"
	// ScopeAny targets whichever bag holds the item, active vertical first
	ScopeAny CartScope = "any"
)

// ParseCartScope accepts "active" or "any", case-insensitively
func ParseCartScope(s string) (CartScope, error) {
	switch scope := CartScope(strings.ToLower(strings.TrimSpace(s))); scope {
	case ScopeActive, ScopeAny:
		return scope, nil
	}
	return "", fmt.Errorf("unknown cart scope %q", s)
}

// Options tunes State behaviour
type Options struct {
	CartScope CartScope
	// ReportNoOps makes not-found, invalid-quantity and empty-cart calls return
	// sentinel errors instead of nil. State is unchanged either way.
	ReportNoOps bool

	Now          func() time.Time
	NewProductID func() string
	NewOrderID   func() string
}

func (o Options) withDefaults() Options {
	if o.CartScope == "" {
		o.CartScope = ScopeActive
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewProductID == nil {
		o.NewProductID = func() string { return "p-" + uuid.NewString() }
	}
	if o.NewOrderID == nil {
		o.NewOrderID = func() string {
			return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
		}
	}
	return o
}

// Snapshot is a deep copy of the whole state
type Snapshot struct {
	Vertical models.Vertical
	Products []models.Product
	Cart     models.Cart
	User     *models.User
	Orders   []models.Order
}

// Change describes one section after a mutation. Value holds a deep copy of
// the section: models.Vertical, []models.Product, models.Cart, *models.User
// or []models.Order.
type Change struct {
	Section Section
	Value   any
}

// Listener observes state changes
type Listener func(ctx context.Context, change Change)

// State is the storefront's application state
type State struct {
	mu        sync.RWMutex
	opts      Options
	vertical  models.Vertical
	products  []models.Product
	cart      models.Cart
	user      *models.User
	orders    []models.Order
	listeners []Listener
}

// New creates a State from an initial snapshot
func New(initial Snapshot, opts Options) *State {
	s := &State{opts: opts.withDefaults()}
	s.restore(initial)
	return s
}

func (s *State) restore(snap Snapshot) {
	s.vertical = snap.Vertical
	if !s.vertical.Valid() {
		s.vertical = models.VerticalTextiles
	}
	s.products = cloneProducts(snap.Products)
	s.cart = snap.Cart.Clone()
	s.user = cloneUser(snap.User)
	s.orders = cloneOrders(snap.Orders)
}

// Subscribe registers a listener for every subsequent change
func (s *State) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot returns a deep copy of the current state
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Vertical: s.vertical,
		Products: cloneProducts(s.products),
		Cart:     s.cart.Clone(),
		User:     cloneUser(s.user),
		Orders:   cloneOrders(s.orders),
	}
}

// Options returns the effective options
func (s *State) Options() Options {
	return s.opts
}

// notify must be called with the write lock held
func (s *State) notify(ctx context.Context, sections ...Section) {
	if len(s.listeners) == 0 {
		return
	}
	for _, section := range sections {
		change := Change{Section: section, Value: s.sectionValue(section)}
		for _, l := range s.listeners {
			l(ctx, change)
		}
	}
}

func (s *State) sectionValue(section Section) any {
	switch section {
	case SectionVertical:
		return s.vertical
	case SectionProducts:
		return cloneProducts(s.products)
	case SectionCart:
		return s.cart.Clone()
	case SectionUser:
		return cloneUser(s.user)
	case SectionOrders:
		return cloneOrders(s.orders)
	}
	return nil
}

// noop returns err when no-op reporting is enabled
func (s *State) noop(err error) error {
	if s.opts.ReportNoOps {
		return err
	}
	return nil
}

func cloneProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	copy(out, in)
	return out
}

func cloneOrders(in []models.Order) []models.Order {
	out := make([]models.Order, len(in))
	for i, o := range in {
		out[i] = o.Clone()
	}
	return out
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
