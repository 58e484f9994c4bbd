package ports

import (
	"context"

	"github.com/contabank/ledger-api/internal/core/domain"
)

// UserRepository is the credential store: user records keyed by their
// immutable login. Lifecycle is bootstrap-only, so no update or delete.
type UserRepository interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	Count(ctx context.Context) (int64, error)
	// Save persists the user, assigning an ID on first save.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
