package ports

import (
	"context"

	"github.com/contabank/ledger-api/internal/core/domain"
)

// AuthService authenticates credentials and issues signed tokens.
type AuthService interface {
	Login(ctx context.Context, login, secret string) (string, error)
}

// TokenService issues and verifies signed, time-limited credentials. It
// never consults the credential store; signature, issuer, and expiry are
// checked from the token alone.
type TokenService interface {
	Generate(user *domain.User) (string, error)
	// Verify validates signature, issuer, and expiry, returning the
	// subject identity.
	Verify(token string) (string, error)
	// UserID extracts the userId claim from a valid token.
	UserID(token string) (string, error)
}
