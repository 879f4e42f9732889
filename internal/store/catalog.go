package store

import (
	"context"

	"github.com/mookkammal/storefront/internal/models"
)

// Products returns the catalog, newest first
func (s *State) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

// Product returns a product by ID
func (s *State) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.productIndex(id); i >= 0 {
		return s.products[i], true
	}
	return models.Product{}, false
}

// AddProduct assigns an id, a 5.0 rating and zero reviews to the draft and
// puts it at the head of the catalog
func (s *State) AddProduct(ctx context.Context, draft models.ProductDraft) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Product{
		ID:          s.opts.NewProductID(),
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		OldPrice:    draft.OldPrice,
		Category:    draft.Category,
		SubCategory: draft.SubCategory,
		Vertical:    draft.Vertical,
		Image:       draft.Image,
		Stock:       draft.Stock,
		Rating:      5.0,
		Reviews:     0,
		IsNew:       draft.IsNew,
	}
	s.products = append([]models.Product{p}, s.products...)
	s.notify(ctx, SectionProducts)
	return p
}

// UpdateProduct merges the given fields into the matching product
func (s *State) UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return s.noop(ErrProductNotFound)
	}
	s.products[i] = update.Apply(s.products[i])
	s.products[i].ID = id
	s.notify(ctx, SectionProducts)
	return nil
}

// DeleteProduct removes the matching product
func (s *State) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return s.noop(ErrProductNotFound)
	}
	products := make([]models.Product, 0, len(s.products)-1)
	products = append(products, s.products[:i]...)
	products = append(products, s.products[i+1:]...)
	s.products = products
	s.notify(ctx, SectionProducts)
	return nil
}

func (s *State) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
