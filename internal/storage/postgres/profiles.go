package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fomo-app/fomo/internal/storage"
)

type profileDTO struct {
	ID        string    `db:"id"`
	FullName  *string   `db:"full_name"`
	Username  *string   `db:"username"`
	Bio       *string   `db:"bio"`
	AvatarURL *string   `db:"avatar_url"`
	StarSign  *string   `db:"star_sign"`
	Age       *int      `db:"age"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s pg) GetProfile(ctx context.Context, id string) (*storage.Profile, error) {
	var p profileDTO

	if err := sqlx.GetContext(ctx, s.ext, &p, `
		SELECT id, full_name, username, bio, avatar_url, star_sign, age, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, id); err != nil {
		return nil, notFound(err)
	}

	return &storage.Profile{
		ID:        p.ID,
		FullName:  p.FullName,
		Username:  p.Username,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		StarSign:  p.StarSign,
		Age:       p.Age,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

// UpsertProfile inserts profile or updates present fields of existing one.
// Null parameters keep stored values.
func (s pg) UpsertProfile(ctx context.Context, p *storage.UpsertProfileParams) error {
	if _, err := s.ext.ExecContext(ctx, `
		INSERT INTO profiles(id, full_name, username, bio, avatar_url, star_sign, age, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT(id) DO UPDATE SET
			full_name = COALESCE(excluded.full_name, profiles.full_name),
			username = COALESCE(excluded.username, profiles.username),
			bio = COALESCE(excluded.bio, profiles.bio),
			avatar_url = COALESCE(excluded.avatar_url, profiles.avatar_url),
			star_sign = COALESCE(excluded.star_sign, profiles.star_sign),
			age = COALESCE(excluded.age, profiles.age),
			updated_at = excluded.updated_at
	`, p.ID, p.FullName, p.Username, p.Bio, p.AvatarURL, p.StarSign, p.Age, p.UpdatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool

	if err := sqlx.GetContext(ctx, s.ext, &taken,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE lower(username) = lower($1))`, username,
	); err != nil {
		return false, fmt.Errorf("failed to query: %w", err)
	}

	return taken, nil
}
