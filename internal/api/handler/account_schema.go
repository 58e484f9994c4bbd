package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// --- Request / Response types ---

type createAccountRequest struct {
	Name           string           `json:"name"            validate:"required"`
	TaxID          string           `json:"tax_id"          validate:"required,len=11,numeric"`
	InitialBalance *decimal.Decimal `json:"initial_balance" validate:"required"`
}

type updateAccountRequest struct {
	Balance *decimal.Decimal `json:"balance" validate:"required"`
	Titular *string          `json:"titular"`
}

// patchAccountRequest is the typed optional-field payload for PATCH. Absent
// fields stay nil and are left untouched; a non-numeric balance fails at
// bind time instead of inside the engine.
type patchAccountRequest struct {
	Balance *decimal.Decimal `json:"balance"`
	Titular *string          `json:"titular"`
}

type movementRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// changes.

type accountResponse struct {
	ID       string          `json:"id"`
	ClientID string          `json:"client_id"`
	Titular  string          `json:"titular"`
	Balance  decimal.Decimal `json:"balance"`
}

type movementResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}
