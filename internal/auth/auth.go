// Package auth resolves login credentials to a session identity.
package auth

import (
	"context"
	"net/url"
	"strings"

	"github.com/mookkammal/storefront/internal/models"
)

// Credentials is what the shopper types at the login prompt
type Credentials struct {
	Email    string `validate:"required"`
	Name     string
	Password string
}

// Authenticator verifies credentials and returns the identity to sign in
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (models.User, error)
}

const (
	mockUserID    = "u1"
	defaultName   = "John Doe"
	defaultAvatar = "John"
	avatarBaseURL = "https://ui-avatars.com/api/?name="
)

// MockAuthenticator accepts any credentials. The role is ADMIN exactly when
// the email contains "admin". Not for production use: no password is checked.
type MockAuthenticator struct{}

func (MockAuthenticator) Authenticate(_ context.Context, creds Credentials) (models.User, error) {
	name := strings.TrimSpace(creds.Name)
	role := models.RoleUser
	if strings.Contains(creds.Email, "admin") {
		role = models.RoleAdmin
	}

	avatarName := name
	if avatarName == "" {
		avatarName = defaultAvatar
	}
	if name == "" {
		name = defaultName
	}

	return models.User{
		ID:     mockUserID,
		Name:   name,
		Email:  creds.Email,
		Role:   role,
		Avatar: avatarBaseURL + url.QueryEscape(avatarName),
	}, nil
}
