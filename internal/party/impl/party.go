// Package impl is implementation of party service.
package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sirupsen/logrus"

	"github.com/fomo-app/fomo/internal/cache"
	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/feed"
	"github.com/fomo-app/fomo/internal/party"
	"github.com/fomo-app/fomo/internal/storage"
)

var log = logrus.WithField("layer", "party").WithField("package", "impl")

var (
	draft    = entities.PartyStatusDraft
	upcoming = entities.PartyStatusUpcoming
)

type srv struct {
	s   storage.Storage
	c   *cache.Cache
	loc *time.Location

	now func() time.Time
}

// New creates new instance of party service.
// loc is a location party date and time are interpreted in.
func New(s storage.Storage, c *cache.Cache, loc *time.Location) party.Service {
	if loc == nil {
		loc = time.Local
	}

	return &srv{
		s:   s,
		c:   c,
		loc: loc,
		now: time.Now,
	}
}

func (s *srv) List(ctx context.Context, userID string) ([]*entities.Party, error) {
	p, err := s.s.ListParties(ctx, &storage.ListPartiesParams{ExcludeStatus: &draft})
	if err != nil {
		log.WithError(err).WithField("user", userID).Error("failed to list parties, using local cache")
		return hostedBy(s.c.Parties(ctx), userID, func(p *entities.Party) bool {
			return p.Status != draft
		}), nil
	}

	out := hostedBy(p, userID, nil)
	if err := s.c.SaveParties(ctx, out...); err != nil {
		log.WithError(err).Error("failed to cache parties")
	}

	return out, nil
}

func (s *srv) ListDrafts(ctx context.Context, userID string) ([]*entities.Party, error) {
	p, err := s.s.ListParties(ctx, &storage.ListPartiesParams{Status: &draft})
	if err != nil {
		log.WithError(err).WithField("user", userID).Error("failed to list drafts, using local cache")
		return hostedBy(s.c.Drafts(ctx), userID, func(p *entities.Party) bool {
			return p.Status == draft
		}), nil
	}

	out := hostedBy(p, userID, nil)
	if err := s.c.SaveDrafts(ctx, out...); err != nil {
		log.WithError(err).Error("failed to cache drafts")
	}

	return out, nil
}

func (s *srv) Get(ctx context.Context, id string) (*entities.Party, error) {
	p, err := s.s.GetParty(ctx, id)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, party.ErrNotFound
	}

	log.WithError(err).WithField("party", id).Error("failed to get party, using local cache")

	for _, v := range append(s.c.Parties(ctx), s.c.Drafts(ctx)...) {
		if v.ID == id {
			return v, nil
		}
	}

	return nil, fmt.Errorf("failed to get party: %w", err)
}

func (s *srv) Create(ctx context.Context, p *entities.Party) (*entities.Party, error) {
	switch p.Status {
	case "":
		p.Status = draft
	case draft, upcoming:
	default:
		return nil, fmt.Errorf("%w: party can not be created as %s", party.ErrInvalidStatus, p.Status)
	}

	now := s.now().UTC()
	p.ID = entities.NewID("party", now)
	p.CreatedAt = now
	p.UpdatedAt = now

	created, err := s.s.CreateParty(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create party: %w", err)
	}

	s.cacheParty(ctx, created)

	return created, nil
}

func (s *srv) Update(ctx context.Context, id string, u *entities.PartyUpdate) (*entities.Party, error) {
	if u.Status != nil && !u.Status.Valid() {
		return nil, fmt.Errorf("%w: %s", party.ErrInvalidStatus, *u.Status)
	}

	p, err := s.s.UpdateParty(ctx, id, u, s.now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, party.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update party: %w", err)
	}

	s.cacheParty(ctx, p)

	return p, nil
}

func (s *srv) Delete(ctx context.Context, id string) error {
	if err := s.s.DeleteParty(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return party.ErrNotFound
		}
		return fmt.Errorf("failed to delete party: %w", err)
	}

	if err := s.c.RemoveParty(ctx, id); err != nil {
		log.WithError(err).Error("failed to remove party from cache")
	}
	if err := s.c.RemoveDraft(ctx, id); err != nil {
		log.WithError(err).Error("failed to remove draft from cache")
	}

	return nil
}

// Complete updates status and statistics in one transaction.
// Completing already completed party returns it as is.
func (s *srv) Complete(ctx context.Context, id string) (*entities.Party, error) {
	var (
		out     *entities.Party
		counted []string
	)

	if err := s.s.InTx(ctx, func(tx storage.Storage) error {
		p, err := tx.GetParty(ctx, id)
		if err != nil {
			return err
		}

		switch p.Status {
		case entities.PartyStatusCompleted:
			out = p
			return nil
		case entities.PartyStatusUpcoming, entities.PartyStatusLive:
		default:
			return fmt.Errorf("%w: %s to %s", party.ErrInvalidTransition, p.Status, entities.PartyStatusCompleted)
		}

		status := entities.PartyStatusCompleted
		if out, err = tx.UpdateParty(ctx, id, &entities.PartyUpdate{Status: &status}, s.now().UTC()); err != nil {
			return err
		}

		attendants := p.Attendants()
		if err := tx.AddStats(ctx, p.Hosts, attendants); err != nil {
			return fmt.Errorf("failed to add stats: %w", err)
		}

		counted = append(append(counted, p.Hosts...), attendants...)

		return nil
	}); err != nil {
		return nil, s.mapErr("complete", err)
	}

	s.cacheParty(ctx, out)

	if len(counted) > 0 {
		if _, err := s.Stats(ctx, counted...); err != nil {
			log.WithError(err).Error("failed to refresh cached stats")
		}
	}

	return out, nil
}

func (s *srv) Publish(ctx context.Context, id string) (*entities.Party, error) {
	var out *entities.Party

	if err := s.s.InTx(ctx, func(tx storage.Storage) error {
		p, err := tx.GetParty(ctx, id)
		if err != nil {
			return err
		}

		if p.Status != draft {
			return fmt.Errorf("%w: %s to %s", party.ErrInvalidTransition, p.Status, upcoming)
		}

		out, err = tx.UpdateParty(ctx, id, &entities.PartyUpdate{Status: &upcoming}, s.now().UTC())
		return err
	}); err != nil {
		return nil, s.mapErr("publish", err)
	}

	s.cacheParty(ctx, out)

	return out, nil
}

// Cancel persists cancelled status and creates the announcement post in one transaction.
func (s *srv) Cancel(ctx context.Context, id string, by entities.Author) (*entities.Party, error) {
	var out *entities.Party

	if err := s.s.InTx(ctx, func(tx storage.Storage) error {
		p, err := tx.GetParty(ctx, id)
		if err != nil {
			return err
		}

		switch p.Status {
		case entities.PartyStatusCompleted, entities.PartyStatusCancelled:
			return fmt.Errorf("%w: %s to %s", party.ErrInvalidTransition, p.Status, entities.PartyStatusCancelled)
		}

		now := s.now().UTC()
		status := entities.PartyStatusCancelled
		if out, err = tx.UpdateParty(ctx, id, &entities.PartyUpdate{Status: &status}, now); err != nil {
			return err
		}

		post := feed.NewAnnouncement(id, by, cancellationMessage(p), now, feed.TagCancelled)
		if _, err := tx.CreatePost(ctx, post); err != nil {
			return fmt.Errorf("failed to create announcement: %w", err)
		}

		return nil
	}); err != nil {
		return nil, s.mapErr("cancel", err)
	}

	s.cacheParty(ctx, out)

	return out, nil
}

func cancellationMessage(p *entities.Party) string {
	when := strings.TrimSpace(p.Date + " " + p.Time)
	if when == "" {
		return fmt.Sprintf("%s has been cancelled.", p.Name)
	}
	return fmt.Sprintf("%s on %s has been cancelled.", p.Name, when)
}

func (s *srv) PromoteLive(ctx context.Context, now time.Time) ([]*entities.Party, error) {
	p, err := s.s.ListParties(ctx, &storage.ListPartiesParams{Status: &upcoming})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming parties: %w", err)
	}

	out := make([]*entities.Party, 0)

	for _, v := range p {
		l := log.WithField("party", v.ID)

		start, err := s.startOf(v)
		if err != nil {
			l.WithError(err).Debug("failed to parse party start")
			continue
		}

		if start.After(now) {
			continue
		}

		updated, err := s.promote(ctx, v.ID, now)
		if err != nil {
			if errors.Is(err, errNotUpcoming) {
				l.Debug("party is not upcoming anymore")
				continue
			}
			l.WithError(err).Error("failed to promote party")
			continue
		}

		l.WithField("start", start).Info("party is live")
		out = append(out, updated)
	}

	if len(out) > 0 {
		if err := s.c.SaveParties(ctx, out...); err != nil {
			log.WithError(err).Error("failed to cache promoted parties")
		}
	}

	return out, nil
}

var errNotUpcoming = errors.New("party is not upcoming")

// promote switches upcoming party to live holding the row lock.
func (s *srv) promote(ctx context.Context, id string, now time.Time) (*entities.Party, error) {
	live := entities.PartyStatusLive

	var out *entities.Party
	if err := s.s.InTx(ctx, func(tx storage.Storage) error {
		p, err := tx.GetParty(ctx, id)
		if err != nil {
			return err
		}

		if p.Status != upcoming {
			return errNotUpcoming
		}

		out, err = tx.UpdateParty(ctx, id, &entities.PartyUpdate{Status: &live}, now.UTC())
		return err
	}); err != nil {
		return nil, err
	}

	return out, nil
}

// startOf parses party start. Parties without time start at midnight.
func (s *srv) startOf(p *entities.Party) (time.Time, error) {
	if strings.TrimSpace(p.Date) == "" {
		return time.Time{}, errors.New("date is empty")
	}

	return dateparse.ParseIn(strings.TrimSpace(p.Date+" "+p.Time), s.loc)
}

func (s *srv) Stats(ctx context.Context, id ...string) (map[string]entities.UserStats, error) {
	stats, err := s.s.GetStats(ctx, id...)
	if err != nil {
		log.WithError(err).Error("failed to get stats, using local cache")

		cached := s.c.Stats(ctx)
		if len(id) == 0 {
			return cached, nil
		}

		out := make(map[string]entities.UserStats, len(id))
		for _, v := range id {
			if st, ok := cached[v]; ok {
				out[v] = st
			}
		}
		return out, nil
	}

	if err := s.c.SaveStats(ctx, stats); err != nil {
		log.WithError(err).Error("failed to cache stats")
	}

	return stats, nil
}

// ImportLocal imports cached parties and drafts and clears them from the cache.
// Parties already known by the remote store are skipped.
func (s *srv) ImportLocal(ctx context.Context) (int, error) {
	local := append(s.c.Parties(ctx), s.c.Drafts(ctx)...)
	if len(local) == 0 {
		return 0, nil
	}

	n, err := s.s.ImportParties(ctx, local)
	if err != nil {
		return n, fmt.Errorf("failed to import parties: %w", err)
	}

	if err := s.c.ClearParties(ctx); err != nil {
		return n, fmt.Errorf("failed to clear local parties: %w", err)
	}

	log.WithFields(logrus.Fields{
		"local":    len(local),
		"imported": n,
	}).Info("local parties imported")

	return n, nil
}

// cacheParty puts party into drafts or parties blob according to its status.
func (s *srv) cacheParty(ctx context.Context, p *entities.Party) {
	var err error
	if p.Status == draft {
		if err = s.c.SaveDrafts(ctx, p); err == nil {
			err = s.c.RemoveParty(ctx, p.ID)
		}
	} else {
		if err = s.c.SaveParties(ctx, p); err == nil {
			err = s.c.RemoveDraft(ctx, p.ID)
		}
	}

	if err != nil {
		log.WithError(err).WithField("party", p.ID).Error("failed to cache party")
	}
}

func (s *srv) mapErr(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return party.ErrNotFound
	case errors.Is(err, party.ErrInvalidTransition):
		return err
	default:
		return fmt.Errorf("failed to %s party: %w", op, err)
	}
}

// hostedBy returns parties hosted by userID and passing keep.
func hostedBy(p []*entities.Party, userID string, keep func(p *entities.Party) bool) []*entities.Party {
	out := make([]*entities.Party, 0, len(p))
	for _, v := range p {
		if v.HostedBy(userID) && (keep == nil || keep(v)) {
			out = append(out, v)
		}
	}
	return out
}
