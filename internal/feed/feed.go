// Package feed contains interface of the party feed: posts, comments and reactions.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/fomo-app/fomo/internal/entities"
)

//go:generate mockgen -destination=./mock/feed.go -package=mock -source=feed.go

var (
	// ErrNotFound returned when post or comment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPost returned when post has neither content nor attachments.
	ErrInvalidPost = errors.New("post is empty")
	// ErrInvalidReaction returned when reaction emoji is empty.
	ErrInvalidReaction = errors.New("invalid reaction")
	// ErrForbidden returned when viewer may not modify the post or comment.
	ErrForbidden = errors.New("forbidden")
)

// Announcement tags.
const (
	TagAnnouncement = "announcement"
	TagCancelled    = "cancelled"
)

// Reaction kinds available on every post.
var Reactions = []entities.Reaction{
	{ID: "fire", Emoji: "🔥", Label: "Fire"},
	{ID: "heart", Emoji: "❤️", Label: "Love"},
	{ID: "laugh", Emoji: "😂", Label: "Haha"},
	{ID: "wow", Emoji: "😮", Label: "Wow"},
	{ID: "party", Emoji: "🎉", Label: "Party"},
}

// Filter narrows feed listing. Empty fields match everything.
type Filter struct {
	// Location keeps posts tagged with the party location tag.
	Location string
	// Tag keeps posts with the tag.
	Tag string
	// Hashtag keeps posts which content contains #hashtag.
	Hashtag string
}

// Service is a party feed.
// viewerID is an id of the account the result is prepared for; empty for anonymous viewers.
type Service interface {
	List(ctx context.Context, partyID string, viewerID string, f Filter) ([]*entities.Post, error)
	Get(ctx context.Context, id string, viewerID string) (*entities.Post, error)
	Create(ctx context.Context, p *entities.Post) (*entities.Post, error)
	// React toggles viewer's reaction. Unknown emojis are added as new reactions.
	React(ctx context.Context, postID string, viewerID string, emoji string) (*entities.Post, error)
	Comment(ctx context.Context, postID string, parentID string, c entities.Comment) (*entities.Post, error)
	// DeleteComment removes comment with its replies. Only comment and post authors may delete it.
	DeleteComment(ctx context.Context, postID string, viewerID string, commentID string) (*entities.Post, error)
	Repost(ctx context.Context, postID string, viewerID string) (*entities.Post, error)
	Delete(ctx context.Context, id string) error
	Announce(ctx context.Context, partyID string, author entities.Author, content string, tags ...string) (*entities.Post, error)
	// ImportLocal pushes posts user kept on the device for the party into the store.
	// Local copy is cleared after successful import.
	ImportLocal(ctx context.Context, partyID string, userID string) (int, error)
}

// View sets viewer dependent flags of the post.
func View(p *entities.Post, viewerID string) *entities.Post {
	for i := range p.Reactions {
		p.Reactions[i].UserReacted = viewerID != "" && contains(p.Reactions[i].Users, viewerID)
	}
	p.UserReposted = viewerID != "" && contains(p.RepostedBy, viewerID)

	return p
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// NewAnnouncement builds host announcement post.
func NewAnnouncement(partyID string, author entities.Author, content string, now time.Time, tags ...string) *entities.Post {
	author.IsHost = true

	return &entities.Post{
		ID:        entities.NewID("post", now),
		PartyID:   partyID,
		User:      author,
		Content:   content,
		Tags:      append([]string{TagAnnouncement}, tags...),
		Reactions: NewReactions(),
		Comments:  []entities.Comment{},
		Timestamp: now,
		UpdatedAt: now,
	}
}

// NewReactions returns zeroed reaction counters.
func NewReactions() []entities.Reaction {
	out := make([]entities.Reaction, len(Reactions))
	copy(out, Reactions)
	return out
}
