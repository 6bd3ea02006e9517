// Package impl is implementation of profile service.
package impl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/fomo-app/fomo/internal/cache"
	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/identity"
	"github.com/fomo-app/fomo/internal/profile"
	"github.com/fomo-app/fomo/internal/storage"
)

var log = logrus.WithField("layer", "profile").WithField("package", "impl")

// JoinDateLayout is a layout join date is rendered with from the profile creation time.
const JoinDateLayout = "January 2006"

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

type srv struct {
	s  storage.Storage
	id identity.Service
	c  *cache.Cache

	now func() time.Time
}

// New creates new instance of profile service.
func New(s storage.Storage, id identity.Service, c *cache.Cache) profile.Service {
	return &srv{
		s:   s,
		id:  id,
		c:   c,
		now: time.Now,
	}
}

func (s *srv) Resolve(ctx context.Context, userID string) (*entities.UserProfile, error) {
	l := log.WithField("user", userID)

	p, err := s.s.GetProfile(ctx, userID)
	switch {
	case err == nil:
		f := fieldsFromProfile(p)
		if _, err := s.c.MergeProfile(ctx, userID, f, p.UpdatedAt.UnixNano()); err != nil {
			l.WithError(err).Error("failed to cache remote profile")
		}
		return toUserProfile(userID, f, entities.FriendStatusNone), nil
	case errors.Is(err, storage.ErrNotFound):
	default:
		l.WithError(err).Error("failed to get remote profile")
	}

	cached, hasCached := s.c.Profile(ctx, userID)

	if md, ok := s.selfMetadata(ctx, userID); ok {
		f := md.Fields()
		if hasCached {
			f = cached.ProfileFields.Merge(f)
		}
		return toUserProfile(userID, f, entities.FriendStatusSelf), nil
	}

	if hasCached {
		return cached.Profile(entities.FriendStatusNone), nil
	}

	return nil, profile.ErrNotFound
}

func (s *srv) Write(ctx context.Context, userID string, f entities.ProfileFields) error {
	l := log.WithField("user", userID)
	now := s.now().UTC()

	if s.isSelf(ctx, userID) {
		if _, err := s.id.UpdateMetadata(ctx, entities.MetadataFromFields(f)); err != nil {
			l.WithError(err).Error("failed to update account metadata")
		}
	}

	if err := s.s.UpsertProfile(ctx, &storage.UpsertProfileParams{
		ID:        userID,
		FullName:  f.Name,
		Username:  f.Username,
		Bio:       f.Bio,
		AvatarURL: f.Avatar,
		StarSign:  f.StarSign,
		Age:       f.Age,
		UpdatedAt: now,
	}); err != nil {
		l.WithError(err).Error("failed to upsert remote profile")
	}

	applied, err := s.c.MergeProfile(ctx, userID, f, now.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to update local cache: %w", err)
	}
	if !applied {
		l.Warn("local cache holds newer profile, write skipped")
	}

	return nil
}

func (s *srv) Diagnose(ctx context.Context, userID string) (*profile.SyncStatus, error) {
	status := profile.SyncStatus{UserID: userID}

	p, err := s.s.GetProfile(ctx, userID)
	switch {
	case err == nil:
		f := fieldsFromProfile(p)
		status.Remote = &f
		status.RemoteUpdatedAt = &p.UpdatedAt
	case errors.Is(err, storage.ErrNotFound):
	default:
		status.RemoteError = err.Error()
	}

	if _, ok := identity.TokenFromContext(ctx); ok {
		a, err := s.id.CurrentAccount(ctx)
		switch {
		case err == nil && a.ID == userID:
			f := a.Metadata.Fields()
			status.Metadata = &f
		case err == nil, errors.Is(err, identity.ErrUnauthorized):
		default:
			status.MetadataError = err.Error()
		}
	}

	if e, ok := s.c.Profile(ctx, userID); ok {
		status.Cached = e
	}

	resolved, err := s.Resolve(ctx, userID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}
	status.Resolved = resolved

	status.Dump = dumper.Sdump(struct {
		Remote   *entities.ProfileFields
		Metadata *entities.ProfileFields
		Cached   *cache.Entry
		Resolved *entities.UserProfile
	}{status.Remote, status.Metadata, status.Cached, status.Resolved})

	return &status, nil
}

// current returns the account of the session in context.
func (s *srv) current(ctx context.Context) (*entities.Account, bool) {
	if _, ok := identity.TokenFromContext(ctx); !ok {
		return nil, false
	}

	a, err := s.id.CurrentAccount(ctx)
	if err != nil {
		if !errors.Is(err, identity.ErrUnauthorized) {
			log.WithError(err).Error("failed to get current account")
		}
		return nil, false
	}

	return a, true
}

// selfMetadata returns metadata of the current account if it is userID.
func (s *srv) selfMetadata(ctx context.Context, userID string) (entities.Metadata, bool) {
	a, ok := s.current(ctx)
	if !ok || a.ID != userID || len(a.Metadata) == 0 {
		return nil, false
	}

	return a.Metadata, true
}

func (s *srv) isSelf(ctx context.Context, userID string) bool {
	a, ok := s.current(ctx)
	return ok && a.ID == userID
}

func fieldsFromProfile(p *storage.Profile) entities.ProfileFields {
	f := entities.ProfileFields{
		Name:     p.FullName,
		Username: p.Username,
		Avatar:   p.AvatarURL,
		Bio:      p.Bio,
		StarSign: p.StarSign,
		Age:      p.Age,
	}
	if !p.CreatedAt.IsZero() {
		f.JoinDate = entities.StringPtr(p.CreatedAt.Format(JoinDateLayout))
	}
	return f
}

func toUserProfile(id string, f entities.ProfileFields, status entities.FriendStatus) *entities.UserProfile {
	return cache.Entry{ProfileFields: f, ID: id}.Profile(status)
}
