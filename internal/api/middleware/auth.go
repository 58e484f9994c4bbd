package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contabank/ledger-api/internal/core/domain"
	"github.com/contabank/ledger-api/internal/core/ports"
	"github.com/contabank/ledger-api/internal/metrics"
)

const (
	bearerPrefix = "Bearer "

	// ContextKeyUser holds the resolved *domain.User on authenticated calls.
	ContextKeyUser = "user"
	// ContextKeyRole holds the resolved user's role.
	ContextKeyRole = "role"
)

// Auth resolves the bearer credential on every inbound call. It never
// rejects: a missing or unverifiable credential leaves the call
// unauthenticated and delegates to the next stage, where RequireAuth
// decides enforcement. Only the exact "Bearer " prefix is accepted.
func Auth(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}

			login, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return next(c)
			}

			user, err := users.FindByLogin(c.Request().Context(), login)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()
				return next(c)
			}

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyRole, user.Role)
			return next(c)
		}
	}
}

// RequireAuth rejects calls that reached a protected route still
// unauthenticated, before any handler or service code runs.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(ContextKeyUser).(*domain.User); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
			}
			return next(c)
		}
	}
}
