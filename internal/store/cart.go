package store

import (
	"context"

	"github.com/mookkammal/storefront/internal/models"
)

// Cart returns both bags
func (s *State) Cart() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// Bag returns the line items of one vertical
func (s *State) Bag(v models.Vertical) []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone().Bag(v)
}

// CartItem returns the line item that RemoveFromCart and UpdateQuantity
// would act on for id
func (s *State) CartItem(id string) (models.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, i, ok := s.locate(id)
	if !ok {
		return models.CartItem{}, false
	}
	return s.cart.Bag(v)[i], true
}

// AddToCart puts one unit of p into the bag of p's own vertical, whatever
// vertical is active. A product already in that bag gets its quantity bumped.
func (s *State) AddToCart(ctx context.Context, p models.Product) error {
	if !p.Vertical.Valid() {
		return ErrInvalidVertical
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bag := s.cart.Bag(p.Vertical)
	if i := itemIndex(bag, p.ID); i >= 0 {
		bag[i].Quantity++
	} else {
		bag = append(bag, models.CartItem{Product: p, Quantity: 1})
	}
	s.cart.SetBag(p.Vertical, bag)
	s.notify(ctx, SectionCart)
	return nil
}

// RemoveFromCart drops a line item. With ScopeActive only the active
// vertical's bag is searched.
func (s *State) RemoveFromCart(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, i, ok := s.locate(id)
	if !ok {
		return s.noop(ErrNotInCart)
	}
	bag := s.cart.Bag(v)
	items := make([]models.CartItem, 0, len(bag)-1)
	items = append(items, bag[:i]...)
	items = append(items, bag[i+1:]...)
	s.cart.SetBag(v, items)
	s.notify(ctx, SectionCart)
	return nil
}

// UpdateQuantity sets a line item's quantity. Quantities below 1 are ignored.
func (s *State) UpdateQuantity(ctx context.Context, id string, qty int) error {
	if qty < 1 {
		return s.noop(ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, i, ok := s.locate(id)
	if !ok {
		return s.noop(ErrNotInCart)
	}
	bag := s.cart.Bag(v)
	if bag[i].Quantity == qty {
		return nil
	}
	bag[i].Quantity = qty
	s.notify(ctx, SectionCart)
	return nil
}

// locate finds a line item according to the cart scope
func (s *State) locate(id string) (models.Vertical, int, bool) {
	if i := itemIndex(s.cart.Bag(s.vertical), id); i >= 0 {
		return s.vertical, i, true
	}
	if s.opts.CartScope == ScopeAny {
		other := s.vertical.Other()
		if i := itemIndex(s.cart.Bag(other), id); i >= 0 {
			return other, i, true
		}
	}
	return "", -1, false
}

func itemIndex(items []models.CartItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
