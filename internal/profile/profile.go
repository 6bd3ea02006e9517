// Package profile contains interface of the profile resolver and writer.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/fomo-app/fomo/internal/cache"
	"github.com/fomo-app/fomo/internal/entities"
)

//go:generate mockgen -destination=./mock/profile.go -package=mock -source=profile.go

// ErrNotFound returned when no tier knows the profile.
var ErrNotFound = errors.New("profile not found")

// Service resolves profiles through remote store, account metadata and local cache,
// and writes them to all three.
type Service interface {
	// Resolve returns the first profile found in the structured store, the current account's
	// metadata or the local cache. Remote failures are treated as missing data.
	Resolve(ctx context.Context, userID string) (*entities.UserProfile, error)
	// Write updates metadata and the structured store best-effort and merges fields into the
	// local cache. Nil error means the local cache was updated, not that remote writes succeeded.
	Write(ctx context.Context, userID string, f entities.ProfileFields) error
	// Diagnose reports what each tier holds for the user.
	Diagnose(ctx context.Context, userID string) (*SyncStatus, error)
}

// SyncStatus is a snapshot of all profile tiers.
type SyncStatus struct {
	UserID string `json:"userId"`

	Remote          *entities.ProfileFields `json:"remote,omitempty"`
	RemoteUpdatedAt *time.Time              `json:"remoteUpdatedAt,omitempty"`
	RemoteError     string                  `json:"remoteError,omitempty"`

	Metadata      *entities.ProfileFields `json:"metadata,omitempty"`
	MetadataError string                  `json:"metadataError,omitempty"`

	Cached *cache.Entry `json:"cached,omitempty"`

	Resolved *entities.UserProfile `json:"resolved,omitempty"`

	// Dump is a human readable dump of the tiers.
	Dump string `json:"dump"`
}
