// Package party contains interface of the party store adapter.
package party

import (
	"context"
	"errors"
	"time"

	"github.com/fomo-app/fomo/internal/entities"
)

//go:generate mockgen -destination=./mock/party.go -package=mock -source=party.go

var (
	// ErrNotFound ...
	ErrNotFound = errors.New("party not found")
	// ErrInvalidStatus returned when status is unknown or not allowed for the operation.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidTransition returned when party can not move to requested status from current one.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Service manages parties in the remote store and mirrors them into the local cache.
// Listing operations never fail because of the remote store: they degrade to cached data.
type Service interface {
	// List returns published parties hosted by userID.
	List(ctx context.Context, userID string) ([]*entities.Party, error)
	// ListDrafts returns drafts hosted by userID.
	ListDrafts(ctx context.Context, userID string) ([]*entities.Party, error)
	Get(ctx context.Context, id string) (*entities.Party, error)
	Create(ctx context.Context, p *entities.Party) (*entities.Party, error)
	Update(ctx context.Context, id string, u *entities.PartyUpdate) (*entities.Party, error)
	Delete(ctx context.Context, id string) error
	// Complete marks party completed and counts it into hosts' and attendants' statistics.
	Complete(ctx context.Context, id string) (*entities.Party, error)
	// Publish moves draft to upcoming.
	Publish(ctx context.Context, id string) (*entities.Party, error)
	// Cancel marks party cancelled and posts an announcement on behalf of by.
	Cancel(ctx context.Context, id string, by entities.Author) (*entities.Party, error)
	// PromoteLive moves upcoming parties which have started by now to live.
	PromoteLive(ctx context.Context, now time.Time) ([]*entities.Party, error)
	Stats(ctx context.Context, id ...string) (map[string]entities.UserStats, error)
	// ImportLocal pushes locally cached parties and drafts to the remote store.
	ImportLocal(ctx context.Context) (int, error)
}
