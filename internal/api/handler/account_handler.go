package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contabank/ledger-api/internal/core/domain"
	"github.com/contabank/ledger-api/internal/core/ports"
)

// AccountHandler handles HTTP requests for account and movement operations.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// List handles GET /accounts.
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /accounts/:id.
func (h *AccountHandler) Get(c echo.Context) error {
	account, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Create handles POST /accounts.
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.InitialBalance.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "initial_balance must be greater than or equal to 0")
	}

	account, err := h.service.Create(c.Request().Context(), ports.CreateAccountInput{
		Name:           req.Name,
		TaxID:          req.TaxID,
		InitialBalance: *req.InitialBalance,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// Update handles PUT /accounts/:id — full replacement.
func (h *AccountHandler) Update(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: balance", domain.ErrInvalidField)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateAccountInput{
		Balance: req.Balance,
		Titular: req.Titular,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdatePartial handles PATCH /accounts/:id — only fields present in the
// payload are touched.
func (h *AccountHandler) UpdatePartial(c echo.Context) error {
	var req patchAccountRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: balance", domain.ErrInvalidField)
	}

	account, err := h.service.UpdatePartial(c.Request().Context(), c.Param("id"), ports.UpdateAccountInput{
		Balance: req.Balance,
		Titular: req.Titular,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Delete handles DELETE /accounts/:id.
func (h *AccountHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Statement handles GET /accounts/:id/statement.
func (h *AccountHandler) Statement(c echo.Context) error {
	movements, err := h.service.Statement(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	resp := make([]movementResponse, 0, len(movements))
	for _, m := range movements {
		resp = append(resp, toMovementResponse(m))
	}
	return c.JSON(http.StatusOK, resp)
}

// Withdraw handles POST /accounts/:id/withdrawal.
func (h *AccountHandler) Withdraw(c echo.Context) error {
	return h.move(c, h.service.Withdraw)
}

// Deposit handles POST /accounts/:id/deposit.
func (h *AccountHandler) Deposit(c echo.Context) error {
	return h.move(c, h.service.Deposit)
}

func (h *AccountHandler) move(c echo.Context, op func(ctx context.Context, input ports.MovementInput) (*domain.Movement, error)) error {
	var req movementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.Amount.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be greater than 0")
	}

	movement, err := op(c.Request().Context(), ports.MovementInput{
		AccountID:      c.Param("id"),
		Amount:         *req.Amount,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMovementResponse(movement))
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:       a.ID,
		ClientID: a.ClientID,
		Titular:  a.Titular,
		Balance:  a.Balance,
	}
}

func toMovementResponse(m *domain.Movement) movementResponse {
	return movementResponse{
		ID:        m.ID,
		AccountID: m.AccountID,
		Kind:      string(m.Kind),
		Amount:    m.Amount,
		Timestamp: m.Timestamp,
	}
}
