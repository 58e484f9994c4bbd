package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contabank/ledger-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Login  string `json:"login"    validate:"required"`
	Secret string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates a user and returns a signed token valid for two hours.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.Login(c.Request().Context(), req.Login, req.Secret)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}
