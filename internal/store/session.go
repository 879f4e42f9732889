package store

import (
	"context"

	"github.com/mookkammal/storefront/internal/models"
)

// User returns the session identity, or nil when signed out
func (s *State) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// SetUser replaces the session identity
func (s *State) SetUser(ctx context.Context, u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.notify(ctx, SectionUser)
}

// Logout clears the session
func (s *State) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.notify(ctx, SectionUser)
}
