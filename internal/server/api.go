package server

import (
	"github.com/fomo-app/fomo/internal/entities"
)

// Error ...
// swagger:model
type Error struct {
	Error string `json:"error"`
}

// SignInRequest ...
// swagger:model
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ConfirmRequest ...
// swagger:model
type ConfirmRequest struct {
	Token string `json:"token"`
}

// ResendRequest ...
// swagger:model
type ResendRequest struct {
	Email string `json:"email"`
}

// CancelRequest ...
// swagger:model
type CancelRequest struct {
	// Location of the host shown in the announcement.
	Location string `json:"location,omitempty"`
}

// AnnounceRequest ...
// swagger:model
type AnnounceRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// ReactRequest ...
// swagger:model
type ReactRequest struct {
	// Emoji or reaction id.
	Emoji string `json:"emoji"`
}

// CommentRequest ...
// swagger:model
type CommentRequest struct {
	// ParentID is a comment to reply to, top-level comment is created when empty.
	ParentID string `json:"parentId,omitempty"`
	Content  string `json:"content"`
	GifURL   string `json:"gifUrl,omitempty"`
}

// CreatePostRequest ...
// swagger:model
type CreatePostRequest struct {
	Content  string           `json:"content"`
	Media    []entities.Media `json:"media,omitempty"`
	GifURL   string           `json:"gifUrl,omitempty"`
	Tags     []string         `json:"tags,omitempty"`
	Poll     *entities.Poll   `json:"poll,omitempty"`
	Location string           `json:"location,omitempty"`
}

// ListPartiesResponse ...
// swagger:model
type ListPartiesResponse struct {
	Parties []*entities.Party `json:"parties"`
}

// ListPostsResponse ...
// swagger:model
type ListPostsResponse struct {
	Posts []*entities.Post `json:"posts"`
}

// RefreshResponse ...
// swagger:model
type RefreshResponse struct {
	// Profile is null when the profile can not be resolved.
	Profile *entities.UserProfile `json:"profile"`
	Parties []*entities.Party     `json:"parties"`
}
