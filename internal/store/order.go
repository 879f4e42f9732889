package store

import (
	"context"
	"time"

	"github.com/mookkammal/storefront/internal/models"
)

// Orders returns the order log, newest first
func (s *State) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders)
}

// PlaceOrder checks out the active vertical's bag. The order is prepended to
// the log and the bag emptied under one lock, so no reader sees one without
// the other. An empty bag creates nothing and returns a nil order.
func (s *State) PlaceOrder(ctx context.Context) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.cart.Bag(s.vertical)
	if len(items) == 0 {
		return nil, s.noop(ErrEmptyCart)
	}

	order := models.Order{
		ID:       s.opts.NewOrderID(),
		Date:     s.opts.Now().UTC().Truncate(time.Millisecond),
		Status:   models.OrderStatusPending,
		Total:    models.Subtotal(items),
		Vertical: s.vertical,
		Items:    cloneItems(items),
	}

	s.orders = append([]models.Order{order}, s.orders...)
	s.cart.SetBag(s.vertical, []models.CartItem{})
	s.notify(ctx, SectionOrders, SectionCart)

	placed := order.Clone()
	return &placed, nil
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
