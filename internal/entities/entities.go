// Package entities contains main entities of service.
package entities

import (
	"time"
)

// FriendStatus is a relationship tag relative to the viewer.
type FriendStatus string

const (
	// FriendStatusSelf ...
	FriendStatusSelf FriendStatus = "self"
	// FriendStatusNone ...
	FriendStatusNone FriendStatus = "none"
	// FriendStatusPending ...
	FriendStatusPending FriendStatus = "pending"
	// FriendStatusFriends ...
	FriendStatusFriends FriendStatus = "friends"
)

// UserProfile is a best-effort view of a user.
// Any field may be empty: presence depends on the source the profile was resolved from.
type UserProfile struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Username     string       `json:"username,omitempty"`
	Avatar       string       `json:"avatar,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	JoinDate     string       `json:"joinDate,omitempty"`
	StarSign     string       `json:"starSign,omitempty"`
	Age          *int         `json:"age,omitempty"`
	FriendStatus FriendStatus `json:"friendStatus"`
}

// ProfileFields is a partial profile. Nil fields are left untouched by writers.
type ProfileFields struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	JoinDate *string `json:"joinDate,omitempty"`
	StarSign *string `json:"starSign,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

// IsEmpty returns true if no field is set.
func (f ProfileFields) IsEmpty() bool {
	return f.Name == nil && f.Username == nil && f.Avatar == nil && f.Bio == nil &&
		f.JoinDate == nil && f.StarSign == nil && f.Age == nil
}

// Merge returns a copy of f with the fields present in o applied on top.
func (f ProfileFields) Merge(o ProfileFields) ProfileFields {
	if o.Name != nil {
		f.Name = o.Name
	}
	if o.Username != nil {
		f.Username = o.Username
	}
	if o.Avatar != nil {
		f.Avatar = o.Avatar
	}
	if o.Bio != nil {
		f.Bio = o.Bio
	}
	if o.JoinDate != nil {
		f.JoinDate = o.JoinDate
	}
	if o.StarSign != nil {
		f.StarSign = o.StarSign
	}
	if o.Age != nil {
		f.Age = o.Age
	}
	return f
}

// Account is an identity registered in the account service.
type Account struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Metadata    Metadata   `json:"metadata"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Session is an authenticated session of an account.
type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"accountId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserStats is aggregated per-user statistics.
type UserStats struct {
	HostedParties   int `json:"hostedParties"`
	AttendedParties int `json:"attendedParties"`
	FriendCount     int `json:"friendCount"`
}

// StringPtr ...
func StringPtr(s string) *string {
	return &s
}

// IntPtr ...
func IntPtr(i int) *int {
	return &i
}
