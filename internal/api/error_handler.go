package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/contabank/ledger-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "client not found"
	case errors.Is(err, domain.ErrMovementNotFound):
		return http.StatusNotFound, "movement not found"
	case errors.Is(err, domain.ErrDuplicateTaxID):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInsufficientFunds):
		// Message carries the current balance for context.
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidField):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "token invalid or expired"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, "invalid credentials"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
