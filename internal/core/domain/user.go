package domain

import (
	"errors"
	"time"
)

// RoleUser is the single role every authenticated actor holds today. Kept as
// a named constant so further roles can be added without structural change.
const RoleUser = "user"

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTokenInvalid = errors.New("token invalid or expired")
var ErrTokenCreation = errors.New("token creation failed")

// User models an authenticated actor. Identity (Login) is immutable; only
// the secret hash may be replaced.
type User struct {
	ID         string    `json:"id"`
	Login      string    `json:"login"`
	SecretHash string    `json:"-"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}
