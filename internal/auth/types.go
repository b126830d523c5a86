package auth

import (
	"errors"
	"strings"
	"time"
)

// Account field limits, enforced at registration time.
const (
	minNameLength     = 6
	maxNameLength     = 20
	maxEmailLength    = 255
	minPasswordLength = 6
	maxPasswordLength = 1024
)

// IsValidName checks if a display name meets length requirements (6-20 characters).
func IsValidName(name string) bool {
	return len(name) >= minNameLength && len(name) <= maxNameLength
}

// IsValidEmail checks if an email is present, within length limits,
// and minimally address-shaped. Real deliverability is not our problem;
// the store only needs a non-empty unique key.
func IsValidEmail(email string) bool {
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

// IsValidPassword checks if a plaintext password meets length requirements.
func IsValidPassword(password string) bool {
	return len(password) >= minPasswordLength && len(password) <= maxPasswordLength
}

// User represents an account record.
//
// PasswordHash is never serialised: API responses carry the record,
// and leaking the hash to clients would hand out offline cracking
// material.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // never serialised
	IsAdmin        bool      `json:"is_admin"`
	Authorisations []string  `json:"authorisations"`
	CreatedAt      time.Time `json:"created_at"`
}

// Sentinel errors for auth operations.
var (
	ErrUserNotFound      = errors.New("account does not exist")
	ErrEmailExists       = errors.New("email already registered")
	ErrAlreadyAuthorised = errors.New("user already authorised")
	ErrNotAuthorised     = errors.New("user not authorised")
	ErrTokenInvalid      = errors.New("invalid token")
)
