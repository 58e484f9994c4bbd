package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/contabank/ledger-api/internal/core/domain"
)

// CreateAccountInput carries all data needed to open an account together
// with its owning client.
type CreateAccountInput struct {
	Name           string
	TaxID          string
	InitialBalance decimal.Decimal
}

// UpdateAccountInput is the typed optional-field payload for full and
// partial updates. A nil field is left untouched on PATCH; PUT always sets
// Balance. Titular, when present, renames the underlying client (any
// trailing "(CPF: ...)" annotation is stripped first).
type UpdateAccountInput struct {
	Balance *decimal.Decimal
	Titular *string
}

// MovementInput carries a deposit or withdrawal request. IdempotencyKey is
// optional; when a key is replayed the previously created movement is
// returned without side effects.
type MovementInput struct {
	AccountID      string
	Amount         decimal.Decimal
	IdempotencyKey string
}

// AccountService defines the ledger engine use-cases. It is the sole
// authority over Client/Account/Movement invariants; every mutating
// operation is atomic.
type AccountService interface {
	List(ctx context.Context) ([]*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error)
	UpdatePartial(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error)
	Statement(ctx context.Context, accountID string) ([]*domain.Movement, error)
	Withdraw(ctx context.Context, input MovementInput) (*domain.Movement, error)
	Deposit(ctx context.Context, input MovementInput) (*domain.Movement, error)
}
