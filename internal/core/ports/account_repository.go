package ports

import (
	"context"

	"github.com/contabank/ledger-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	FindAll(ctx context.Context) ([]*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// UpdateBalance replaces the stored balance of the account.
	UpdateBalance(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	// Rename updates the client's name. TaxID is immutable.
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// MovementRepository defines persistence operations for ledger movements.
// Movements are append-only: there is no update, and deletion happens only
// in bulk when the owning account is removed.
type MovementRepository interface {
	Create(ctx context.Context, movement *domain.Movement) (*domain.Movement, error)
	FindByID(ctx context.Context, id string) (*domain.Movement, error)
	// FindByAccountID returns all movements for an account ordered by
	// timestamp descending (most recent first).
	FindByAccountID(ctx context.Context, accountID string) ([]*domain.Movement, error)
	DeleteByAccountID(ctx context.Context, accountID string) error
}

// TxRunner executes fn inside a single storage transaction. Repository calls
// made with the context passed to fn join that transaction; if fn returns an
// error every write is rolled back.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
