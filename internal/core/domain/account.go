package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind classifies a ledger movement.
type MovementKind string

const (
	KindDeposit    MovementKind = "DEPOSIT"
	KindWithdrawal MovementKind = "WITHDRAWAL"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrClientNotFound = errors.New("client not found")
var ErrDuplicateTaxID = errors.New("tax id already registered")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrInvalidField = errors.New("invalid field")
var ErrMovementNotFound = errors.New("movement not found")

// Client is the titular person an account belongs to.
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"tax_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Account holds the authoritative running balance for a client. The balance
// is eagerly maintained on every movement, never recomputed from the log.
type Account struct {
	ID       string          `json:"id"`
	ClientID string          `json:"client_id"`
	Balance  decimal.Decimal `json:"balance"`
	// Titular is a derived display label ("Name (CPF: NNNNNNNNNNN)"),
	// filled in by the service from the owning client. Not persisted.
	Titular string `json:"titular,omitempty"`
}

// Movement is an immutable ledger entry. Entries are only removed in bulk
// when their account is deleted.
type Movement struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Kind      MovementKind    `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// TitularLabel composes the display label for an account owner.
func TitularLabel(name, taxID string) string {
	return name + " (CPF: " + taxID + ")"
}

// TitularMissing is shown when an account's client record cannot be resolved.
const TitularMissing = "client not found"

// TitularName strips the "(CPF: ...)" annotation from a titular label,
// returning the bare client name.
func TitularName(titular string) string {
	if i := strings.Index(titular, "(CPF:"); i >= 0 {
		return strings.TrimSpace(titular[:i])
	}
	return strings.TrimSpace(titular)
}
