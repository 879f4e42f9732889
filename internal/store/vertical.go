package store

import (
	"context"

	"github.com/mookkammal/storefront/internal/models"
)

// Vertical returns the active vertical
func (s *State) Vertical() models.Vertical {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vertical
}

// SetVertical switches the active vertical
func (s *State) SetVertical(ctx context.Context, v models.Vertical) error {
	if !v.Valid() {
		return ErrInvalidVertical
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vertical = v
	s.notify(ctx, SectionVertical)
	return nil
}

// ToggleVertical switches to the other vertical and returns it
func (s *State) ToggleVertical(ctx context.Context) models.Vertical {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vertical = s.vertical.Other()
	s.notify(ctx, SectionVertical)
	return s.vertical
}
