package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contabank/ledger-api/internal/core/domain"
)

const (
	// Issuer identifies tokens minted by this service. Checked by string
	// equality on every verification.
	Issuer = "conta-ledger-api"

	tokenTTL = 2 * time.Hour
)

// refZone is the fixed reference offset used when computing token expiry,
// so issuance is deterministic regardless of the host's local zone.
var refZone = time.FixedZone("-03:00", -3*60*60)

// Claims is the payload carried by every issued token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed credentials. The signing
// key is loaded once at construction and read-only thereafter.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Generate issues a token bound to the user's login with a 2 hour validity
// window.
func (s *TokenService) Generate(user *domain.User) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrTokenCreation
	}

	now := time.Now().In(refZone)
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.Login,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenCreation
	}
	return signed, nil
}

// Verify validates signature, issuer, and expiry, returning the subject
// identity (login).
func (s *TokenService) Verify(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// UserID extracts the userId claim from a valid token.
func (s *TokenService) UserID(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.UserID, nil
}

func (s *TokenService) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuer(Issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
