package entities

import (
	"time"
)

// PartyStatus ...
type PartyStatus string

const (
	// PartyStatusDraft is a party not yet published to attendees.
	PartyStatusDraft PartyStatus = "draft"
	// PartyStatusUpcoming ...
	PartyStatusUpcoming PartyStatus = "upcoming"
	// PartyStatusLive ...
	PartyStatusLive PartyStatus = "live"
	// PartyStatusCompleted ...
	PartyStatusCompleted PartyStatus = "completed"
	// PartyStatusCancelled ...
	PartyStatusCancelled PartyStatus = "cancelled"
)

// Valid returns true if status is one of known statuses.
func (s PartyStatus) Valid() bool {
	switch s {
	case PartyStatusDraft, PartyStatusUpcoming, PartyStatusLive, PartyStatusCompleted, PartyStatusCancelled:
		return true
	default:
		return false
	}
}

// InviteStatus ...
type InviteStatus string

const (
	// InviteStatusPending ...
	InviteStatusPending InviteStatus = "pending"
	// InviteStatusApproved ...
	InviteStatusApproved InviteStatus = "approved"
)

// LocationTag is a named sub-area of a party's location.
type LocationTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserTag is a user-selectable post tag.
type UserTag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CoHost ...
type CoHost struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Invite ...
type Invite struct {
	ID     string       `json:"id"`
	Email  string       `json:"email"`
	Status InviteStatus `json:"status"`
	Name   string       `json:"name,omitempty"`
}

// Party ...
type Party struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Date            string        `json:"date"`
	Time            string        `json:"time"`
	Location        string        `json:"location"`
	Description     string        `json:"description"`
	Hosts           []string      `json:"hosts"`
	Status          PartyStatus   `json:"status"`
	Attendees       int           `json:"attendees"`
	LocationTags    []LocationTag `json:"locationTags"`
	UserTags        []UserTag     `json:"userTags"`
	CoHosts         []CoHost      `json:"coHosts"`
	Invites         []Invite      `json:"invites"`
	RequireApproval bool          `json:"requireApproval"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// HostedBy returns true if id is one of the hosts. Comparison is verbatim.
func (p *Party) HostedBy(id string) bool {
	for _, h := range p.Hosts {
		if h == id {
			return true
		}
	}
	return false
}

// Attendants returns names of approved invitees who are not hosts.
func (p *Party) Attendants() []string {
	out := make([]string, 0, len(p.Invites))
	seen := make(map[string]struct{}, len(p.Invites))
	for _, v := range p.Invites {
		if v.Status != InviteStatusApproved || v.Name == "" || p.HostedBy(v.Name) {
			continue
		}
		if _, ok := seen[v.Name]; ok {
			continue
		}
		seen[v.Name] = struct{}{}
		out = append(out, v.Name)
	}
	return out
}

// PartyUpdate is a partial party update. Nil fields are never sent.
type PartyUpdate struct {
	Name            *string        `json:"name,omitempty"`
	Date            *string        `json:"date,omitempty"`
	Time            *string        `json:"time,omitempty"`
	Location        *string        `json:"location,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Hosts           *[]string      `json:"hosts,omitempty"`
	Status          *PartyStatus   `json:"status,omitempty"`
	Attendees       *int           `json:"attendees,omitempty"`
	LocationTags    *[]LocationTag `json:"locationTags,omitempty"`
	UserTags        *[]UserTag     `json:"userTags,omitempty"`
	CoHosts         *[]CoHost      `json:"coHosts,omitempty"`
	Invites         *[]Invite      `json:"invites,omitempty"`
	RequireApproval *bool          `json:"requireApproval,omitempty"`
}
