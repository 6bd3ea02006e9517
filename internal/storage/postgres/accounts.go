package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/storage"
)

const accountColumns = `id, email, password_hash, metadata, confirmed_at, created_at`

type accountDTO struct {
	ID           string         `db:"id"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Metadata     types.JSONText `db:"metadata"`
	ConfirmedAt  *time.Time     `db:"confirmed_at"`
	CreatedAt    time.Time      `db:"created_at"`
}

type sessionDTO struct {
	Token     string    `db:"token"`
	AccountID string    `db:"account_id"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (s pg) CreateAccount(ctx context.Context, p *storage.CreateAccountParams) (*entities.Account, error) {
	md, err := toJSON(p.Metadata, false)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if string(md) == "null" {
		md = types.JSONText("{}")
	}

	var dto accountDTO
	if err := sqlx.GetContext(ctx, s.ext, &dto, `
		INSERT INTO accounts(id, email, password_hash, metadata, created_at)
		VALUES($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		p.ID, normalizeEmail(p.Email), p.PasswordHash, md, p.CreatedAt.UTC(),
	); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: account %s", storage.ErrAlreadyExists, p.Email)
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	a, err := fromAccountDTO(&dto)
	if err != nil {
		return nil, err
	}

	return &a.Account, nil
}

func (s pg) GetAccount(ctx context.Context, id string) (*entities.Account, error) {
	var dto accountDTO

	if err := sqlx.GetContext(ctx, s.ext, &dto,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	); err != nil {
		return nil, notFound(err)
	}

	a, err := fromAccountDTO(&dto)
	if err != nil {
		return nil, err
	}

	return &a.Account, nil
}

func (s pg) GetAccountByEmail(ctx context.Context, email string) (*storage.Account, error) {
	var dto accountDTO

	if err := sqlx.GetContext(ctx, s.ext, &dto,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, normalizeEmail(email),
	); err != nil {
		return nil, notFound(err)
	}

	return fromAccountDTO(&dto)
}

// UpdateAccountMetadata merges md into stored metadata, keys of md win.
func (s pg) UpdateAccountMetadata(ctx context.Context, id string, md entities.Metadata) (*entities.Account, error) {
	j, err := toJSON(md, false)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if string(j) == "null" {
		j = types.JSONText("{}")
	}

	var dto accountDTO
	if err := sqlx.GetContext(ctx, s.ext, &dto, `
		UPDATE accounts SET metadata = metadata || $2::jsonb
		WHERE id = $1
		RETURNING `+accountColumns,
		id, string(j),
	); err != nil {
		return nil, notFound(err)
	}

	a, err := fromAccountDTO(&dto)
	if err != nil {
		return nil, err
	}

	return &a.Account, nil
}

func (s pg) CreateConfirmation(ctx context.Context, token string, accountID string, expiresAt time.Time) error {
	if _, err := s.ext.ExecContext(ctx,
		`INSERT INTO confirmations(token, account_id, expires_at) VALUES($1, $2, $3)`,
		token, accountID, expiresAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

// ConfirmAccount consumes unexpired confirmation token and marks its account as confirmed.
// Confirmation time of already confirmed account is kept.
func (s pg) ConfirmAccount(ctx context.Context, token string, timestamp time.Time) (*entities.Account, error) {
	var dto accountDTO

	if err := sqlx.GetContext(ctx, s.ext, &dto, `
		WITH c AS (
			DELETE FROM confirmations WHERE token = $1 AND expires_at > $2
			RETURNING account_id
		)
		UPDATE accounts SET confirmed_at = COALESCE(accounts.confirmed_at, $2)
		FROM c
		WHERE accounts.id = c.account_id
		RETURNING accounts.id, accounts.email, accounts.password_hash, accounts.metadata,
			accounts.confirmed_at, accounts.created_at
	`, token, timestamp.UTC()); err != nil {
		return nil, notFound(err)
	}

	a, err := fromAccountDTO(&dto)
	if err != nil {
		return nil, err
	}

	return &a.Account, nil
}

func (s pg) CreateSession(ctx context.Context, v *entities.Session) error {
	if _, err := s.ext.ExecContext(ctx,
		`INSERT INTO sessions(token, account_id, expires_at) VALUES($1, $2, $3)`,
		v.Token, v.AccountID, v.ExpiresAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) GetSession(ctx context.Context, token string) (*entities.Session, error) {
	var dto sessionDTO

	if err := sqlx.GetContext(ctx, s.ext, &dto, `
		SELECT token, account_id, expires_at FROM sessions
		WHERE token = $1 AND revoked_at IS NULL
	`, token); err != nil {
		return nil, notFound(err)
	}

	return &entities.Session{
		Token:     dto.Token,
		AccountID: dto.AccountID,
		ExpiresAt: dto.ExpiresAt,
	}, nil
}

func (s pg) RevokeSession(ctx context.Context, token string, timestamp time.Time) error {
	res, err := s.ext.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $2 WHERE token = $1 AND revoked_at IS NULL`,
		token, timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return checkAffected(res)
}

func fromAccountDTO(d *accountDTO) (*storage.Account, error) {
	var md entities.Metadata
	if err := fromJSON(d.Metadata, &md); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata of %s: %w", d.ID, err)
	}
	if md == nil {
		md = entities.Metadata{}
	}

	return &storage.Account{
		Account: entities.Account{
			ID:          d.ID,
			Email:       d.Email,
			Metadata:    md,
			ConfirmedAt: d.ConfirmedAt,
			CreatedAt:   d.CreatedAt,
		},
		PasswordHash: d.PasswordHash,
	}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
