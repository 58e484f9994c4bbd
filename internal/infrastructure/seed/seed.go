// Package seed populates bootstrap data at startup: the default users the
// service authenticates, and optionally a couple of demo accounts.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/contabank/ledger-api/internal/core/domain"
	"github.com/contabank/ledger-api/internal/core/ports"
)

// defaultSecret is the development password for seeded users. Rotate the
// records before exposing the service anywhere that matters.
const defaultSecret = "123456"

var defaultLogins = []string{"admin", "user", "test"}

// Seeder creates the bootstrap records. Each record tolerates individual
// failure: a seed error is logged, never fatal.
type Seeder struct {
	users    ports.UserRepository
	accounts ports.AccountService
	log      zerolog.Logger
}

func New(users ports.UserRepository, accounts ports.AccountService, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, accounts: accounts, log: log}
}

// Users creates the default users when the credential store is empty.
func (s *Seeder) Users(ctx context.Context) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Debug().Int64("users", n).Msg("credential store already populated, skipping seed")
		return nil
	}

	for _, login := range defaultLogins {
		if err := s.createUser(ctx, login); err != nil {
			s.log.Warn().Err(err).Str("login", login).Msg("failed to seed user")
		}
	}
	return nil
}

func (s *Seeder) createUser(ctx context.Context, login string) error {
	exists, err := s.users.ExistsByLogin(ctx, login)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultSecret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.Save(ctx, &domain.User{
		Login:      login,
		SecretHash: string(hash),
		Role:       domain.RoleUser,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("login", login).Msg("seeded user")
	return nil
}

// DemoAccounts creates a pair of demo accounts, skipping any whose tax id
// is already registered.
func (s *Seeder) DemoAccounts(ctx context.Context) {
	demos := []ports.CreateAccountInput{
		{Name: "Maria Silva", TaxID: "98765432100", InitialBalance: decimal.NewFromFloat(1000.00)},
		{Name: "Ana Souza", TaxID: "12345678901", InitialBalance: decimal.NewFromFloat(100.00)},
	}

	for _, demo := range demos {
		_, err := s.accounts.Create(ctx, demo)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateTaxID) {
				continue
			}
			s.log.Warn().Err(err).Str("tax_id", demo.TaxID).Msg("failed to seed demo account")
			continue
		}
		s.log.Info().Str("name", demo.Name).Msg("seeded demo account")
	}
}
