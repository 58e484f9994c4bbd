package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/contabank/ledger-api/internal/core/domain"
)

type stubAuthService struct {
	token string
	err   error

	lastLogin  string
	lastSecret string
}

func (s *stubAuthService) Login(_ context.Context, login, secret string) (string, error) {
	s.lastLogin = login
	s.lastSecret = secret
	return s.token, s.err
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{token: "signed.jwt.token"}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/login", `{"login":"maria","password":"123456"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastLogin != "maria" || svc.lastSecret != "123456" {
		t.Fatalf("unexpected credentials forwarded: %q/%q", svc.lastLogin, svc.lastSecret)
	}
	if !strings.Contains(rec.Body.String(), `"token":"signed.jwt.token"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	for _, body := range []string{`{}`, `{"login":"maria"}`, `{"password":"123456"}`} {
		h := NewAuthHandler(&stubAuthService{})
		c, _ := newTestContext(http.MethodPost, "/login", body)

		err := h.Login(c)
		if status := httpStatus(t, err); status != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, status)
		}
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	// The domain error passes through untouched; the central error handler
	// turns it into a 401.
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials})
	c, _ := newTestContext(http.MethodPost, "/login", `{"login":"maria","password":"wrong"}`)

	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials passthrough, got %v", err)
	}
}
