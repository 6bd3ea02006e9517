// Package cache contains the local cache: last known state of profiles, parties and statistics
// kept in on-device storage and used as a fallback tier when remote reads fail.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/kv"
)

var log = logrus.WithField("layer", "cache").WithField("package", "cache")

// Storage keys.
const (
	ProfilesKey     = "fomo-users"
	PartiesKey      = "fomo-parties"
	DraftsKey       = "fomo-drafts"
	StatsKey        = "fomo-user-stats"
	NewPostKey      = "newPost"
	ResendKeyPrefix = "fomo-resend-"
	PostsKeyPrefix  = "posts_"
)

// Entry is a cached profile.
type Entry struct {
	entities.ProfileFields
	ID string `json:"id"`
	// Version is unix nanoseconds of the write which produced the entry.
	Version int64 `json:"version"`
}

// Profile converts entry to a profile with given friend status.
func (e Entry) Profile(status entities.FriendStatus) *entities.UserProfile {
	return &entities.UserProfile{
		ID:           e.ID,
		Name:         deref(e.Name),
		Username:     deref(e.Username),
		Avatar:       deref(e.Avatar),
		Bio:          deref(e.Bio),
		JoinDate:     deref(e.JoinDate),
		StarSign:     deref(e.StarSign),
		Age:          e.Age,
		FriendStatus: status,
	}
}

// Cache is the local cache. It is safe for concurrent use: every read-modify-write cycle is
// serialised, so the last accepted write is the one with the greatest version.
type Cache struct {
	mu sync.Mutex
	s  kv.Store
}

// New creates new instance of Cache over store.
func New(s kv.Store) *Cache {
	return &Cache{
		s: s,
	}
}

// Profile returns cached profile entry.
func (c *Cache) Profile(ctx context.Context, id string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.profiles(ctx)
	e, ok := m[id]
	if !ok {
		return nil, false
	}

	e.ID = id
	return &e, true
}

// MergeProfile merges present fields into the entry and persists the cache.
// A write older than the stored entry is rejected and false is returned.
func (c *Cache) MergeProfile(ctx context.Context, id string, f entities.ProfileFields, version int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.profiles(ctx)

	e, ok := m[id]
	if ok && e.Version > version {
		log.WithFields(logrus.Fields{
			"id":       id,
			"stored":   e.Version,
			"incoming": version,
		}).Debug("stale profile write rejected")
		return false, nil
	}

	e.ProfileFields = e.ProfileFields.Merge(f)
	e.ID = id
	e.Version = version
	m[id] = e

	if err := c.put(ctx, ProfilesKey, m); err != nil {
		return false, err
	}

	return true, nil
}

func (c *Cache) profiles(ctx context.Context) map[string]Entry {
	m := make(map[string]Entry)
	c.get(ctx, ProfilesKey, &m)
	if m == nil {
		m = make(map[string]Entry)
	}
	return m
}

// Parties returns cached published parties.
func (c *Cache) Parties(ctx context.Context) []*entities.Party {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.parties(ctx, PartiesKey)
}

// SaveParties merges parties into cached published parties.
func (c *Cache) SaveParties(ctx context.Context, p ...*entities.Party) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mergeParties(ctx, PartiesKey, p)
}

// RemoveParty removes party from cached published parties.
func (c *Cache) RemoveParty(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.removeParty(ctx, PartiesKey, id)
}

// Drafts returns cached drafts.
func (c *Cache) Drafts(ctx context.Context) []*entities.Party {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.parties(ctx, DraftsKey)
}

// SaveDrafts merges parties into cached drafts.
func (c *Cache) SaveDrafts(ctx context.Context, p ...*entities.Party) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mergeParties(ctx, DraftsKey, p)
}

// RemoveDraft removes party from cached drafts.
func (c *Cache) RemoveDraft(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.removeParty(ctx, DraftsKey, id)
}

// ClearParties drops both parties and drafts blobs.
func (c *Cache) ClearParties(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.s.Delete(ctx, PartiesKey); err != nil {
		return fmt.Errorf("failed to delete parties: %w", err)
	}
	if err := c.s.Delete(ctx, DraftsKey); err != nil {
		return fmt.Errorf("failed to delete drafts: %w", err)
	}

	return nil
}

func (c *Cache) parties(ctx context.Context, key string) []*entities.Party {
	var p []*entities.Party
	c.get(ctx, key, &p)

	out := p[:0]
	for _, v := range p {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// mergeParties replaces records by id, the record with newer UpdatedAt wins.
// Result is sorted by creation time, newest first.
func (c *Cache) mergeParties(ctx context.Context, key string, p []*entities.Party) error {
	current := c.parties(ctx, key)

	idx := make(map[string]int, len(current))
	for i, v := range current {
		idx[v.ID] = i
	}

	for _, v := range p {
		if v == nil {
			continue
		}
		i, ok := idx[v.ID]
		if !ok {
			idx[v.ID] = len(current)
			current = append(current, v)
			continue
		}
		if !current[i].UpdatedAt.After(v.UpdatedAt) {
			current[i] = v
		}
	}

	sort.SliceStable(current, func(i, j int) bool {
		return current[i].CreatedAt.After(current[j].CreatedAt)
	})

	return c.put(ctx, key, current)
}

func (c *Cache) removeParty(ctx context.Context, key string, id string) error {
	current := c.parties(ctx, key)

	out := current[:0]
	for _, v := range current {
		if v.ID != id {
			out = append(out, v)
		}
	}

	if len(out) == len(current) {
		return nil
	}

	return c.put(ctx, key, out)
}

// Stats returns cached statistics snapshot keyed by user.
func (c *Cache) Stats(ctx context.Context) map[string]entities.UserStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := make(map[string]entities.UserStats)
	c.get(ctx, StatsKey, &m)
	if m == nil {
		m = make(map[string]entities.UserStats)
	}
	return m
}

// SaveStats merges statistics into snapshot.
func (c *Cache) SaveStats(ctx context.Context, stats map[string]entities.UserStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := make(map[string]entities.UserStats)
	c.get(ctx, StatsKey, &m)
	if m == nil {
		m = make(map[string]entities.UserStats)
	}

	for k, v := range stats {
		m[k] = v
	}

	return c.put(ctx, StatsKey, m)
}

// ResendAt returns time of the last confirmation e-mail requested for email.
func (c *Cache) ResendAt(ctx context.Context, email string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ms int64
	if !c.get(ctx, resendKey(email), &ms) {
		return time.Time{}, false
	}

	return time.Unix(0, ms*int64(time.Millisecond)), true
}

// SetResendAt stores time of confirmation e-mail request.
func (c *Cache) SetResendAt(ctx context.Context, email string, t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.put(ctx, resendKey(email), t.UnixNano()/int64(time.Millisecond))
}

func resendKey(email string) string {
	return ResendKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// PutNewPost puts post into the hand-off slot replacing previous one.
func (c *Cache) PutNewPost(ctx context.Context, p *entities.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.put(ctx, NewPostKey, p)
}

// TakeNewPost reads and clears the hand-off slot.
func (c *Cache) TakeNewPost(ctx context.Context) (*entities.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var p *entities.Post
	ok := c.get(ctx, NewPostKey, &p)

	if err := c.s.Delete(ctx, NewPostKey); err != nil {
		log.WithError(err).Error("failed to clear new post slot")
	}

	if !ok || p == nil {
		return nil, false
	}

	return p, true
}

// LocalPost is a post kept on the device before the remote feed existed.
type LocalPost struct {
	ID           string              `json:"id"`
	UserID       string              `json:"userId"`
	UserName     string              `json:"userName"`
	UserUsername string              `json:"userUsername"`
	UserAvatar   string              `json:"userAvatar"`
	Content      string              `json:"content"`
	Media        []entities.Media    `json:"media"`
	GifURL       string              `json:"gifUrl"`
	Tags         []string            `json:"tags"`
	Poll         *entities.Poll      `json:"poll"`
	Location     string              `json:"location"`
	Reactions    []entities.Reaction `json:"reactions"`
	Comments     []entities.Comment  `json:"comments"`
	Reposts      int                 `json:"reposts"`
	UserReposted bool                `json:"userReposted"`
	Timestamp    *time.Time          `json:"timestamp"`
}

// LocalPosts returns posts userID kept locally for the party.
func (c *Cache) LocalPosts(ctx context.Context, partyID string, userID string) []LocalPost {
	c.mu.Lock()
	defer c.mu.Unlock()

	var p []LocalPost
	c.get(ctx, postsKey(partyID, userID), &p)
	return p
}

// ClearLocalPosts removes posts userID kept locally for the party.
func (c *Cache) ClearLocalPosts(ctx context.Context, partyID string, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.s.Delete(ctx, postsKey(partyID, userID)); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("failed to delete local posts: %w", err)
	}
	return nil
}

func postsKey(partyID string, userID string) string {
	return PostsKeyPrefix + partyID + "_" + userID
}

// get decodes key into v. Missing keys, storage failures and corrupted documents are
// all reported as absent.
func (c *Cache) get(ctx context.Context, key string, v interface{}) bool {
	b, err := c.s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.WithError(err).WithField("key", key).Error("failed to read cache")
		}
		return false
	}

	if err := json.Unmarshal(b, v); err != nil {
		log.WithError(err).WithField("key", key).Warn("corrupted cache entry, treating as empty")
		return false
	}

	return true
}

func (c *Cache) put(ctx context.Context, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := c.s.Set(ctx, key, b); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
