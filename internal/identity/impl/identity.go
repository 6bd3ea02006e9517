// Package impl is implementation of identity service.
package impl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fomo-app/fomo/internal/cache"
	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/identity"
	"github.com/fomo-app/fomo/internal/mail"
	"github.com/fomo-app/fomo/internal/storage"
)

var log = logrus.WithField("layer", "identity").WithField("package", "impl")

// JoinDateLayout is a layout of join date written into metadata on sign up.
const JoinDateLayout = "January 2006"

// Config ...
type Config struct {
	SessionTTL      time.Duration
	ConfirmationTTL time.Duration
	// ConfirmURL is a link the confirmation token is appended to.
	ConfirmURL string

	SignInWindow   time.Duration
	SignInAttempts int
	ResendWindow   time.Duration
	ResendAttempts int
}

// DefaultConfig ...
var DefaultConfig = Config{
	SessionTTL:      30 * 24 * time.Hour,
	ConfirmationTTL: 24 * time.Hour,
	ConfirmURL:      "http://localhost:8080/v1/auth/confirm?token=",
	SignInWindow:    5 * time.Minute,
	SignInAttempts:  10,
	ResendWindow:    time.Hour,
	ResendAttempts:  5,
}

type srv struct {
	s    storage.Storage
	c    *cache.Cache
	mail mail.Sender
	cfg  Config

	signIn *limiter
	resend *limiter

	now func() time.Time
}

// New creates new instance of identity service.
func New(s storage.Storage, c *cache.Cache, m mail.Sender, cfg Config) identity.Service {
	return &srv{
		s:      s,
		c:      c,
		mail:   m,
		cfg:    cfg,
		signIn: newLimiter(cfg.SignInWindow, cfg.SignInAttempts),
		resend: newLimiter(cfg.ResendWindow, cfg.ResendAttempts),
		now:    time.Now,
	}
}

func (s *srv) SignUp(ctx context.Context, p *identity.SignUpParams) (*entities.Session, error) {
	email := identity.NormalizeEmail(p.Email)
	if !identity.ValidEmail(email) {
		return nil, identity.ErrInvalidEmail
	}
	if len(p.Password) < identity.MinPasswordLength {
		return nil, identity.ErrInvalidPassword
	}

	username := strings.TrimSpace(p.Username)
	if username != "" {
		taken, err := s.s.UsernameTaken(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, identity.ErrUsernameTaken
		}
	}

	hash, err := hashPassword(p.Password, defaultArgon2Params)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	fields := entities.ProfileFields{
		Name:     nonEmpty(strings.TrimSpace(p.Name)),
		Username: nonEmpty(username),
		StarSign: nonEmpty(p.StarSign),
		JoinDate: entities.StringPtr(now.Format(JoinDateLayout)),
		Age:      p.Age,
	}

	var session *entities.Session
	if err := s.s.InTx(ctx, func(tx storage.Storage) error {
		a, err := tx.CreateAccount(ctx, &storage.CreateAccountParams{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: hash,
			Metadata:     entities.MetadataFromFields(fields),
			CreatedAt:    now,
		})
		if err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return identity.ErrEmailTaken
			}
			return fmt.Errorf("failed to create account: %w", err)
		}

		if err := tx.UpsertProfile(ctx, &storage.UpsertProfileParams{
			ID:        a.ID,
			FullName:  fields.Name,
			Username:  fields.Username,
			StarSign:  fields.StarSign,
			Age:       fields.Age,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		session, err = s.createSession(ctx, tx, a.ID, now)
		return err
	}); err != nil {
		return nil, err
	}

	if err := s.sendConfirmation(ctx, session.AccountID, email); err != nil {
		log.WithError(err).WithField("account", session.AccountID).Error("failed to send confirmation email")
	}

	return session, nil
}

func (s *srv) SignIn(ctx context.Context, email string, password string) (*entities.Session, error) {
	email = identity.NormalizeEmail(email)
	now := s.now().UTC()

	if !s.signIn.Allow(email, now) {
		return nil, fmt.Errorf("%w: too many sign in attempts", identity.ErrRateLimited)
	}

	a, err := s.s.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	ok, err := verifyPassword(a.PasswordHash, password)
	if err != nil {
		log.WithError(err).WithField("account", a.ID).Error("failed to verify password")
		return nil, identity.ErrInvalidCredentials
	}
	if !ok {
		return nil, identity.ErrInvalidCredentials
	}

	return s.createSession(ctx, s.s, a.ID, now)
}

func (s *srv) SignOut(ctx context.Context) error {
	token, ok := identity.TokenFromContext(ctx)
	if !ok {
		return identity.ErrUnauthorized
	}

	if err := s.s.RevokeSession(ctx, token, s.now().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return identity.ErrUnauthorized
		}
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

func (s *srv) CurrentAccount(ctx context.Context) (*entities.Account, error) {
	token, ok := identity.TokenFromContext(ctx)
	if !ok {
		return nil, identity.ErrUnauthorized
	}

	session, err := s.s.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, identity.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if !session.ExpiresAt.After(s.now()) {
		return nil, identity.ErrUnauthorized
	}

	a, err := s.s.GetAccount(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, identity.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return a, nil
}

func (s *srv) UpdateMetadata(ctx context.Context, md entities.Metadata) (*entities.Account, error) {
	a, err := s.CurrentAccount(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.s.UpdateAccountMetadata(ctx, a.ID, md)
	if err != nil {
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return updated, nil
}

func (s *srv) Confirm(ctx context.Context, token string) (*entities.Account, error) {
	a, err := s.s.ConfirmAccount(ctx, token, s.now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, identity.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to confirm account: %w", err)
	}

	return a, nil
}

// ResendConfirmation sends a new confirmation e-mail. Requests for the same address are
// allowed once per identity.ResendCooldown; the last request time is kept in the local cache.
func (s *srv) ResendConfirmation(ctx context.Context, email string) identity.Result {
	email = identity.NormalizeEmail(email)
	if !identity.ValidEmail(email) {
		return identity.Result{Message: "Please enter a valid email address."}
	}

	now := s.now()

	if at, ok := s.c.ResendAt(ctx, email); ok {
		if wait := at.Add(identity.ResendCooldown).Sub(now); wait > 0 {
			return identity.Result{
				Message: fmt.Sprintf("Please wait %d seconds before requesting another confirmation email.",
					int(math.Ceil(wait.Seconds()))),
			}
		}
	}

	if err := s.resendConfirmation(ctx, email, now); err != nil {
		if errors.Is(err, identity.ErrRateLimited) {
			return identity.Result{Message: "Too many confirmation emails requested. Please try again later."}
		}
		log.WithError(err).Error("failed to resend confirmation email")
		return identity.Result{Message: "Failed to send confirmation email. Please try again later."}
	}

	if err := s.c.SetResendAt(ctx, email, now); err != nil {
		log.WithError(err).Error("failed to save resend timestamp")
	}

	return identity.Result{
		Success: true,
		Message: "Confirmation email sent. Please check your inbox.",
	}
}

// resendConfirmation sends confirmation e-mail if the address belongs to unconfirmed account.
// Unknown and confirmed addresses are silently skipped.
func (s *srv) resendConfirmation(ctx context.Context, email string, now time.Time) error {
	if !s.resend.Allow(email, now) {
		return identity.ErrRateLimited
	}

	a, err := s.s.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.WithField("email", email).Debug("resend requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	if a.ConfirmedAt != nil {
		return nil
	}

	return s.sendConfirmation(ctx, a.ID, email)
}

func (s *srv) sendConfirmation(ctx context.Context, accountID, email string) error {
	token := uuid.New().String()

	if err := s.s.CreateConfirmation(ctx, token, accountID, s.now().UTC().Add(s.cfg.ConfirmationTTL)); err != nil {
		return fmt.Errorf("failed to create confirmation: %w", err)
	}

	if err := s.mail.Send(ctx, mail.Message{
		To:      email,
		Subject: "Confirm your fomo account",
		Body:    fmt.Sprintf("Welcome to fomo!\n\nConfirm your e-mail address by following the link:\n%s%s\n", s.cfg.ConfirmURL, token),
	}); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *srv) createSession(ctx context.Context, st storage.Storage, accountID string, now time.Time) (*entities.Session, error) {
	session := &entities.Session{
		Token:     uuid.New().String(),
		AccountID: accountID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	if err := st.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
