package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/contabank/ledger-api/internal/core/domain"
	"github.com/contabank/ledger-api/internal/core/ports"
)

// AuthService authenticates credentials against the credential store and
// issues tokens on success.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Login verifies the secret against the stored hash and returns a signed
// token. An unknown login and a wrong secret are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, login, secret string) (string, error) {
	if login == "" || secret == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.SecretHash), []byte(secret)) != nil {
		s.log.Debug().Str("login", login).Msg("secret mismatch")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.log.Error().Err(err).Str("login", login).Msg("token generation failed")
		return "", err
	}

	s.log.Info().Str("login", login).Msg("user authenticated")
	return token, nil
}
