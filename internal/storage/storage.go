// Package storage contains a storage interface.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/fomo-app/fomo/internal/entities"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists returned when unique constraint is violated.
var ErrAlreadyExists = errors.New("already exists")

// Storage provides methods for interacting with database.
type Storage interface {
	InTx(ctx context.Context, f func(s Storage) error) error

	GetProfile(ctx context.Context, id string) (*Profile, error)
	UpsertProfile(ctx context.Context, p *UpsertProfileParams) error
	UsernameTaken(ctx context.Context, username string) (bool, error)

	ListParties(ctx context.Context, p *ListPartiesParams) ([]*entities.Party, error)
	GetParty(ctx context.Context, id string) (*entities.Party, error)
	CreateParty(ctx context.Context, p *entities.Party) (*entities.Party, error)
	UpdateParty(ctx context.Context, id string, u *entities.PartyUpdate, updatedAt time.Time) (*entities.Party, error)
	DeleteParty(ctx context.Context, id string) error
	ImportParties(ctx context.Context, p []*entities.Party) (int, error)

	ListPosts(ctx context.Context, partyID string) ([]*entities.Post, error)
	GetPost(ctx context.Context, id string) (*entities.Post, error)
	CreatePost(ctx context.Context, p *entities.Post) (*entities.Post, error)
	UpdatePost(ctx context.Context, p *entities.Post) error
	DeletePost(ctx context.Context, id string) error
	ImportPosts(ctx context.Context, p []*entities.Post) (int, error)

	AddStats(ctx context.Context, hosted []string, attended []string) error
	GetStats(ctx context.Context, id ...string) (map[string]entities.UserStats, error)

	CreateAccount(ctx context.Context, p *CreateAccountParams) (*entities.Account, error)
	GetAccount(ctx context.Context, id string) (*entities.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateAccountMetadata(ctx context.Context, id string, md entities.Metadata) (*entities.Account, error)
	CreateConfirmation(ctx context.Context, token string, accountID string, expiresAt time.Time) error
	ConfirmAccount(ctx context.Context, token string, timestamp time.Time) (*entities.Account, error)

	CreateSession(ctx context.Context, s *entities.Session) error
	GetSession(ctx context.Context, token string) (*entities.Session, error)
	RevokeSession(ctx context.Context, token string, timestamp time.Time) error
}

// Profile is a record of the structured-profile store.
type Profile struct {
	ID        string
	FullName  *string
	Username  *string
	Bio       *string
	AvatarURL *string
	StarSign  *string
	Age       *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertProfileParams ...
// Only non-nil fields are written on update.
type UpsertProfileParams struct {
	ID        string
	FullName  *string
	Username  *string
	Bio       *string
	AvatarURL *string
	StarSign  *string
	Age       *int
	UpdatedAt time.Time
}

// ListPartiesParams ...
type ListPartiesParams struct {
	// Status keeps parties with the status.
	Status *entities.PartyStatus
	// ExcludeStatus drops parties with the status.
	ExcludeStatus *entities.PartyStatus
}

// CreateAccountParams ...
type CreateAccountParams struct {
	ID           string
	Email        string
	PasswordHash string
	Metadata     entities.Metadata
	CreatedAt    time.Time
}

// Account is an account with credentials.
type Account struct {
	entities.Account
	PasswordHash string
}
