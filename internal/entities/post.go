package entities

import (
	"time"
)

// Author is a user snapshot embedded into posts and comments.
type Author struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Username     string       `json:"username"`
	Avatar       string       `json:"avatar,omitempty"`
	Location     string       `json:"location,omitempty"`
	FriendStatus FriendStatus `json:"friendStatus,omitempty"`
	IsHost       bool         `json:"isHost,omitempty"`
}

// Reaction ...
type Reaction struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
	Count int    `json:"count"`
	// Users are ids of accounts which reacted.
	Users []string `json:"users,omitempty"`
	// UserReacted is true when the viewer is one of Users.
	UserReacted bool `json:"userReacted"`
}

// Comment is a node of a post's comment tree.
type Comment struct {
	ID        string    `json:"id"`
	User      Author    `json:"user"`
	Content   string    `json:"content"`
	GifURL    string    `json:"gifUrl,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Replies   []Comment `json:"replies"`
}

// Media is an attachment reference: URL or embedded data.
type Media struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// PollOption ...
type PollOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Poll ...
type Poll struct {
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
}

// Post is a feed item.
type Post struct {
	ID           string     `json:"id"`
	PartyID      string     `json:"partyId"`
	User         Author     `json:"user"`
	Content      string     `json:"content"`
	Media        []Media    `json:"media,omitempty"`
	GifURL       string     `json:"gifUrl,omitempty"`
	Tags         []string   `json:"tags"`
	Poll         *Poll      `json:"poll,omitempty"`
	Location     string     `json:"location,omitempty"`
	Reactions    []Reaction `json:"reactions"`
	Comments     []Comment  `json:"comments"`
	Reposts      int        `json:"reposts"`
	RepostedBy   []string   `json:"repostedBy,omitempty"`
	UserReposted bool       `json:"userReposted"`
	Timestamp    time.Time  `json:"timestamp"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
