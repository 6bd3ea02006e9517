// Package impl is implementation of feed service.
package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fomo-app/fomo/internal/cache"
	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/feed"
	"github.com/fomo-app/fomo/internal/storage"
)

var log = logrus.WithField("layer", "feed").WithField("package", "impl")

type srv struct {
	s storage.Storage
	c *cache.Cache

	now func() time.Time
}

// New creates new instance of feed service.
func New(s storage.Storage, c *cache.Cache) feed.Service {
	return &srv{
		s:   s,
		c:   c,
		now: time.Now,
	}
}

func (s *srv) List(ctx context.Context, partyID string, viewerID string, f feed.Filter) ([]*entities.Post, error) {
	posts, err := s.s.ListPosts(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	out := make([]*entities.Post, 0, len(posts)+1)

	// just created post may be not visible yet, so it is taken from the hand-off slot
	if p, ok := s.c.TakeNewPost(ctx); ok && p.PartyID == partyID && !contains(posts, p.ID) && match(p, f) {
		out = append(out, feed.View(p, viewerID))
	}

	for _, v := range posts {
		if match(v, f) {
			out = append(out, feed.View(v, viewerID))
		}
	}

	return out, nil
}

func contains(p []*entities.Post, id string) bool {
	for _, v := range p {
		if v.ID == id {
			return true
		}
	}
	return false
}

func match(p *entities.Post, f feed.Filter) bool {
	if f.Location != "" && p.Location != f.Location {
		return false
	}

	if f.Tag != "" && !hasTag(p.Tags, f.Tag) {
		return false
	}

	if f.Hashtag != "" {
		tag := "#" + strings.ToLower(strings.TrimPrefix(f.Hashtag, "#"))
		if !strings.Contains(strings.ToLower(p.Content), tag) {
			return false
		}
	}

	return true
}

func hasTag(tags []string, tag string) bool {
	for _, v := range tags {
		if v == tag {
			return true
		}
	}
	return false
}

func (s *srv) Get(ctx context.Context, id string, viewerID string) (*entities.Post, error) {
	p, err := s.s.GetPost(ctx, id)
	if err != nil {
		return nil, mapErr("get", err)
	}

	return feed.View(p, viewerID), nil
}

func (s *srv) Create(ctx context.Context, p *entities.Post) (*entities.Post, error) {
	if strings.TrimSpace(p.Content) == "" && len(p.Media) == 0 && p.GifURL == "" && p.Poll == nil {
		return nil, feed.ErrInvalidPost
	}

	now := s.now().UTC()
	p.ID = entities.NewID("post", now)
	p.Timestamp = now
	p.UpdatedAt = now
	p.Reposts = 0
	p.RepostedBy = nil
	p.Reactions = feed.NewReactions()
	p.Comments = []entities.Comment{}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if p.Poll != nil {
		for i := range p.Poll.Options {
			if p.Poll.Options[i].ID == "" {
				p.Poll.Options[i].ID = fmt.Sprintf("option_%d", i+1)
			}
		}
	}

	return s.create(ctx, p)
}

func (s *srv) create(ctx context.Context, p *entities.Post) (*entities.Post, error) {
	created, err := s.s.CreatePost(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if err := s.c.PutNewPost(ctx, created); err != nil {
		log.WithError(err).WithField("post", created.ID).Error("failed to put post into hand-off slot")
	}

	return feed.View(created, created.User.ID), nil
}

// React toggles viewer's reaction. Only one reaction of a viewer per post is kept:
// reacting with another emoji moves it.
func (s *srv) React(ctx context.Context, postID string, viewerID string, emoji string) (*entities.Post, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, feed.ErrInvalidReaction
	}
	if viewerID == "" {
		return nil, fmt.Errorf("%w: anonymous reaction", feed.ErrForbidden)
	}

	return s.update(ctx, "react to", postID, viewerID, func(p *entities.Post) error {
		if len(p.Reactions) == 0 {
			p.Reactions = feed.NewReactions()
		}

		found := false
		for i := range p.Reactions {
			r := &p.Reactions[i]
			target := r.Emoji == emoji || r.ID == emoji
			found = found || target

			switch {
			case hasUser(r.Users, viewerID):
				r.Users = without(r.Users, viewerID)
				r.Count--
			case target:
				r.Users = append(r.Users, viewerID)
				r.Count++
			}

			if r.Count < len(r.Users) {
				r.Count = len(r.Users)
			}
		}

		if !found {
			p.Reactions = append(p.Reactions, entities.Reaction{
				ID:    emoji,
				Emoji: emoji,
				Label: emoji,
				Count: 1,
				Users: []string{viewerID},
			})
		}

		return nil
	})
}

func hasUser(users []string, id string) bool {
	for _, v := range users {
		if v == id {
			return true
		}
	}
	return false
}

func without(users []string, id string) []string {
	out := make([]string, 0, len(users))
	for _, v := range users {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s *srv) Comment(ctx context.Context, postID string, parentID string, c entities.Comment) (*entities.Post, error) {
	if strings.TrimSpace(c.Content) == "" && c.GifURL == "" {
		return nil, fmt.Errorf("%w: comment is empty", feed.ErrInvalidPost)
	}

	return s.update(ctx, "comment", postID, c.User.ID, func(p *entities.Post) error {
		now := s.now().UTC()
		c.ID = entities.NewID("comment", now)
		c.Timestamp = now
		c.Replies = []entities.Comment{}

		if parentID == "" {
			p.Comments = append(p.Comments, c)
			return nil
		}

		if !reply(p.Comments, parentID, c) {
			return fmt.Errorf("%w: comment %s", feed.ErrNotFound, parentID)
		}

		return nil
	})
}

// reply appends c to replies of comment with parentID at any depth.
func reply(comments []entities.Comment, parentID string, c entities.Comment) bool {
	for i := range comments {
		if comments[i].ID == parentID {
			comments[i].Replies = append(comments[i].Replies, c)
			return true
		}
		if reply(comments[i].Replies, parentID, c) {
			return true
		}
	}
	return false
}

func (s *srv) DeleteComment(ctx context.Context, postID string, viewerID string, commentID string) (*entities.Post, error) {
	return s.update(ctx, "delete comment of", postID, viewerID, func(p *entities.Post) error {
		c := find(p.Comments, commentID)
		if c == nil {
			return fmt.Errorf("%w: comment %s", feed.ErrNotFound, commentID)
		}

		if viewerID == "" || (c.User.ID != viewerID && p.User.ID != viewerID) {
			return fmt.Errorf("%w: comment %s", feed.ErrForbidden, commentID)
		}

		p.Comments, _ = remove(p.Comments, commentID)
		return nil
	})
}

// find returns comment with id at any depth.
func find(comments []entities.Comment, id string) *entities.Comment {
	for i := range comments {
		if comments[i].ID == id {
			return &comments[i]
		}
		if c := find(comments[i].Replies, id); c != nil {
			return c
		}
	}
	return nil
}

// remove drops comment with id and its replies at any depth.
func remove(comments []entities.Comment, id string) ([]entities.Comment, bool) {
	for i := range comments {
		if comments[i].ID == id {
			return append(comments[:i:i], comments[i+1:]...), true
		}
		if replies, ok := remove(comments[i].Replies, id); ok {
			comments[i].Replies = replies
			return comments, true
		}
	}
	return comments, false
}

func (s *srv) Repost(ctx context.Context, postID string, viewerID string) (*entities.Post, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("%w: anonymous repost", feed.ErrForbidden)
	}

	return s.update(ctx, "repost", postID, viewerID, func(p *entities.Post) error {
		if hasUser(p.RepostedBy, viewerID) {
			p.RepostedBy = without(p.RepostedBy, viewerID)
			p.Reposts--
		} else {
			p.RepostedBy = append(p.RepostedBy, viewerID)
			p.Reposts++
		}

		if p.Reposts < len(p.RepostedBy) {
			p.Reposts = len(p.RepostedBy)
		}
		return nil
	})
}

func (s *srv) Delete(ctx context.Context, id string) error {
	if err := s.s.DeletePost(ctx, id); err != nil {
		return mapErr("delete", err)
	}

	return nil
}

func (s *srv) Announce(ctx context.Context, partyID string, author entities.Author, content string, tags ...string) (*entities.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, feed.ErrInvalidPost
	}

	return s.create(ctx, feed.NewAnnouncement(partyID, author, content, s.now().UTC(), tags...))
}

// update applies f to locked post and stores the result prepared for viewerID.
func (s *srv) update(ctx context.Context, op string, postID string, viewerID string, f func(p *entities.Post) error) (*entities.Post, error) {
	var out *entities.Post

	if err := s.s.InTx(ctx, func(tx storage.Storage) error {
		p, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}

		if err := f(p); err != nil {
			return err
		}

		p.UpdatedAt = s.now().UTC()
		if err := tx.UpdatePost(ctx, p); err != nil {
			return err
		}

		out = p
		return nil
	}); err != nil {
		return nil, mapErr(op, err)
	}

	return feed.View(out, viewerID), nil
}

// ImportLocal imports posts userID kept on the device for the party and clears them after
// successful insert. Posts already known by the remote store are skipped.
func (s *srv) ImportLocal(ctx context.Context, partyID string, userID string) (int, error) {
	local := s.c.LocalPosts(ctx, partyID, userID)
	if len(local) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	posts := make([]*entities.Post, 0, len(local))
	for _, v := range local {
		if v.ID == "" {
			log.WithField("party", partyID).Warn("skipping local post without id")
			continue
		}
		posts = append(posts, fromLocal(partyID, userID, v, now))
	}

	n, err := s.s.ImportPosts(ctx, posts)
	if err != nil {
		return n, fmt.Errorf("failed to import posts: %w", err)
	}

	if err := s.c.ClearLocalPosts(ctx, partyID, userID); err != nil {
		return n, fmt.Errorf("failed to clear local posts: %w", err)
	}

	log.WithFields(logrus.Fields{
		"party":    partyID,
		"user":     userID,
		"local":    len(local),
		"imported": n,
	}).Info("local posts imported")

	return n, nil
}

// fromLocal converts device post. Device flags belong to userID and become its reactions and repost.
func fromLocal(partyID string, userID string, v cache.LocalPost, now time.Time) *entities.Post {
	p := &entities.Post{
		ID:      v.ID,
		PartyID: partyID,
		User: entities.Author{
			ID:       v.UserID,
			Name:     v.UserName,
			Username: v.UserUsername,
			Avatar:   v.UserAvatar,
		},
		Content:   v.Content,
		Media:     v.Media,
		GifURL:    v.GifURL,
		Tags:      v.Tags,
		Poll:      v.Poll,
		Location:  v.Location,
		Reactions: v.Reactions,
		Comments:  v.Comments,
		Reposts:   v.Reposts,
		Timestamp: now,
		UpdatedAt: now,
	}

	if p.User.ID == "" {
		p.User.ID = userID
	}
	if v.Timestamp != nil {
		p.Timestamp = v.Timestamp.UTC()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Reactions == nil {
		p.Reactions = []entities.Reaction{}
	}
	if p.Comments == nil {
		p.Comments = []entities.Comment{}
	}

	for i := range p.Reactions {
		r := &p.Reactions[i]
		if r.UserReacted && !hasUser(r.Users, userID) {
			r.Users = append(r.Users, userID)
		}
		r.UserReacted = false

		if r.Count < len(r.Users) {
			r.Count = len(r.Users)
		}
	}

	if v.UserReposted {
		p.RepostedBy = []string{userID}
		if p.Reposts < 1 {
			p.Reposts = 1
		}
	}

	return p
}

func mapErr(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return feed.ErrNotFound
	case errors.Is(err, feed.ErrNotFound), errors.Is(err, feed.ErrInvalidPost), errors.Is(err, feed.ErrForbidden):
		return err
	default:
		return fmt.Errorf("failed to %s post: %w", op, err)
	}
}
