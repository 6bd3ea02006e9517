// Package identity contains interface of the account-identity service.
package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/fomo-app/fomo/internal/entities"
)

//go:generate mockgen -destination=./mock/identity.go -package=mock -source=identity.go

var (
	// ErrUnauthorized returned when request has no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials returned when e-mail and password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRateLimited returned when too many requests were made for the same subject.
	ErrRateLimited = errors.New("rate limited")
	// ErrUsernameTaken ...
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken ...
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidEmail ...
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidPassword ...
	ErrInvalidPassword = errors.New("password is too short")
	// ErrInvalidToken returned when confirmation token is unknown or expired.
	ErrInvalidToken = errors.New("invalid token")
)

// MinPasswordLength ...
const MinPasswordLength = 8

// ResendCooldown is a minimal interval between two confirmation e-mails for the same address.
const ResendCooldown = 60 * time.Second

// SignUpParams ...
type SignUpParams struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age,omitempty"`
	StarSign string `json:"starSign,omitempty"`
}

// Result is an outcome of operation which never fails with error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Service is the account-identity service.
// Operations on the current account expect session token in context, see WithToken.
type Service interface {
	SignUp(ctx context.Context, p *SignUpParams) (*entities.Session, error)
	SignIn(ctx context.Context, email string, password string) (*entities.Session, error)
	SignOut(ctx context.Context) error
	CurrentAccount(ctx context.Context) (*entities.Account, error)
	UpdateMetadata(ctx context.Context, md entities.Metadata) (*entities.Account, error)
	Confirm(ctx context.Context, token string) (*entities.Account, error)
	ResendConfirmation(ctx context.Context, email string) Result
}

type tokenKey struct{}

// WithToken puts session token into context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns session token put by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// NormalizeEmail ...
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail returns true if s is a bare e-mail address with a dotted domain.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}

	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}
