package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/contabank/ledger-api/internal/core/domain"
	"github.com/contabank/ledger-api/internal/core/ports"
	"github.com/contabank/ledger-api/internal/metrics"
)

// MovementDedup abstracts the idempotency store (Redis). Seen returns the
// previously recorded movement id for a key, if any.
type MovementDedup interface {
	Seen(ctx context.Context, key string) (string, bool, error)
	Mark(ctx context.Context, key, movementID string) error
}

// AccountService is the ledger engine: the sole authority over
// Client/Account/Movement invariants. Every mutating operation runs as an
// atomic unit through the TxRunner.
type AccountService struct {
	accounts  ports.AccountRepository
	clients   ports.ClientRepository
	movements ports.MovementRepository
	tx        ports.TxRunner
	dedup     MovementDedup
	log       zerolog.Logger
}

func NewAccountService(
	accounts ports.AccountRepository,
	clients ports.ClientRepository,
	movements ports.MovementRepository,
	tx ports.TxRunner,
	dedup MovementDedup,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		clients:   clients,
		movements: movements,
		tx:        tx,
		dedup:     dedup,
		log:       log,
	}
}

// List returns all accounts, each annotated with its titular label.
func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.accounts.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	for _, account := range accounts {
		s.annotate(ctx, account)
	}
	return accounts, nil
}

// Get returns a single account annotated with its titular label.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.annotate(ctx, account)
	return account, nil
}

// Create opens an account together with its owning client. The tax id must
// be unused; client and account are created in one transaction so either
// both exist afterwards or neither does.
func (s *AccountService) Create(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error) {
	exists, err := s.clients.ExistsByTaxID(ctx, input.TaxID)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateTaxID, input.TaxID)
	}

	var account *domain.Account
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		client, err := s.clients.Create(ctx, &domain.Client{
			Name:         input.Name,
			TaxID:        input.TaxID,
			RegisteredAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		account, err = s.accounts.Create(ctx, &domain.Account{
			ClientID: client.ID,
			Balance:  input.InitialBalance,
		})
		if err != nil {
			return err
		}
		account.Titular = domain.TitularLabel(client.Name, client.TaxID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	metrics.AccountsCreatedTotal.Inc()
	s.log.Info().Str("account_id", account.ID).Str("client_id", account.ClientID).Msg("account created")
	return account, nil
}

// Delete removes an account and everything it owns, in strict order:
// movements first (they reference the account), then the account, then its
// client. The first two run in one transaction; client deletion failure is
// tolerated and logged, never propagated.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.movements.DeleteByAccountID(ctx, id); err != nil {
			return err
		}
		return s.accounts.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if account.ClientID != "" {
		if err := s.clients.Delete(ctx, account.ClientID); err != nil {
			s.log.Warn().Err(err).
				Str("account_id", id).
				Str("client_id", account.ClientID).
				Msg("could not delete client, account removed anyway")
		}
	}

	metrics.AccountsDeletedTotal.Inc()
	s.log.Info().Str("account_id", id).Msg("account deleted")
	return nil
}

// Update replaces the balance unconditionally and, when a titular is
// supplied, renames the underlying client. No movement is recorded: this is
// an administrative correction, not a deposit or withdrawal.
func (s *AccountService) Update(ctx context.Context, id string, input ports.UpdateAccountInput) (*domain.Account, error) {
	if input.Balance == nil {
		return nil, fmt.Errorf("%w: balance", domain.ErrInvalidField)
	}
	return s.applyUpdate(ctx, id, input)
}

// UpdatePartial applies only the fields present in the input.
func (s *AccountService) UpdatePartial(ctx context.Context, id string, input ports.UpdateAccountInput) (*domain.Account, error) {
	return s.applyUpdate(ctx, id, input)
}

func (s *AccountService) applyUpdate(ctx context.Context, id string, input ports.UpdateAccountInput) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if input.Balance != nil {
			account.Balance = *input.Balance
			if err := s.accounts.UpdateBalance(ctx, account); err != nil {
				return err
			}
		}
		if input.Titular != nil && domain.TitularName(*input.Titular) != "" {
			if err := s.clients.Rename(ctx, account.ClientID, domain.TitularName(*input.Titular)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	s.annotate(ctx, account)
	s.log.Info().Str("account_id", id).Msg("account updated")
	return account, nil
}

// Statement returns the account's movement log, most recent first.
func (s *AccountService) Statement(ctx context.Context, accountID string) ([]*domain.Movement, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.movements.FindByAccountID(ctx, accountID)
}

// Withdraw debits the account. The comparison is strict: withdrawing the
// exact balance is permitted and leaves it at zero. Balance read, movement
// insert, and balance write run in a single transaction, so concurrent
// withdrawals cannot both pass the funds check against the same balance.
func (s *AccountService) Withdraw(ctx context.Context, input ports.MovementInput) (*domain.Movement, error) {
	return s.move(ctx, domain.KindWithdrawal, input)
}

// Deposit credits the account. Balance read, movement insert, and balance
// write run in a single transaction.
func (s *AccountService) Deposit(ctx context.Context, input ports.MovementInput) (*domain.Movement, error) {
	return s.move(ctx, domain.KindDeposit, input)
}

func (s *AccountService) move(ctx context.Context, kind domain.MovementKind, input ports.MovementInput) (*domain.Movement, error) {
	if input.IdempotencyKey != "" && s.dedup != nil {
		if id, seen, err := s.dedup.Seen(ctx, input.IdempotencyKey); err != nil {
			s.log.Warn().Err(err).Str("account_id", input.AccountID).Msg("dedup check failed, processing anyway")
		} else if seen {
			s.log.Info().Str("idempotency_key", input.IdempotencyKey).Str("movement_id", id).Msg("idempotent replay")
			return s.movements.FindByID(ctx, id)
		}
	}

	var movement *domain.Movement
	var account *domain.Account
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// The balance must be read under the session: the driver retries
		// this callback on write conflict, and every attempt has to see
		// the committed state, not a capture from before the transaction.
		var err error
		account, err = s.accounts.FindByID(ctx, input.AccountID)
		if err != nil {
			return err
		}

		if kind == domain.KindWithdrawal && input.Amount.GreaterThan(account.Balance) {
			return fmt.Errorf("%w: balance %s", domain.ErrInsufficientFunds, account.Balance.StringFixed(2))
		}

		movement, err = s.movements.Create(ctx, &domain.Movement{
			AccountID: account.ID,
			Kind:      kind,
			Amount:    input.Amount,
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		if kind == domain.KindDeposit {
			account.Balance = account.Balance.Add(input.Amount)
		} else {
			account.Balance = account.Balance.Sub(input.Amount)
		}
		return s.accounts.UpdateBalance(ctx, account)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return nil, err
		case errors.Is(err, domain.ErrInsufficientFunds):
			metrics.MovementErrorsTotal.WithLabelValues("insufficient_funds").Inc()
			return nil, err
		default:
			metrics.MovementErrorsTotal.WithLabelValues("transaction_failed").Inc()
			return nil, fmt.Errorf("%s: %w", string(kind), err)
		}
	}

	if input.IdempotencyKey != "" && s.dedup != nil {
		if err := s.dedup.Mark(ctx, input.IdempotencyKey, movement.ID); err != nil {
			s.log.Warn().Err(err).Str("movement_id", movement.ID).Msg("failed to set dedup key")
		}
	}

	metrics.MovementsTotal.WithLabelValues(string(kind)).Inc()
	s.log.Info().
		Str("account_id", account.ID).
		Str("kind", string(kind)).
		Str("amount", input.Amount.String()).
		Str("balance", account.Balance.String()).
		Msg("movement recorded")
	return movement, nil
}

// annotate fills the derived titular label from the owning client. A
// missing client yields the placeholder label, not an error.
func (s *AccountService) annotate(ctx context.Context, account *domain.Account) {
	client, err := s.clients.FindByID(ctx, account.ClientID)
	if err != nil {
		if !errors.Is(err, domain.ErrClientNotFound) {
			s.log.Warn().Err(err).Str("account_id", account.ID).Msg("client lookup failed")
		}
		account.Titular = domain.TitularMissing
		return
	}
	account.Titular = domain.TitularLabel(client.Name, client.TaxID)
}

// ReplayBalance recomputes an account's balance from its movement log in
// ascending timestamp order against the given opening balance. Used to
// audit the ledger invariant: the result must equal the stored balance.
func ReplayBalance(opening decimal.Decimal, movements []*domain.Movement) decimal.Decimal {
	balance := opening
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		if m.Kind == domain.KindDeposit {
			balance = balance.Add(m.Amount)
		} else {
			balance = balance.Sub(m.Amount)
		}
	}
	return balance
}
