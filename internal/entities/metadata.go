package entities

import (
	"encoding/json"
	"math"
	"strconv"
)

// Metadata keys.
const (
	MetadataName      = "name"
	MetadataUsername  = "username"
	MetadataBio       = "bio"
	MetadataStarSign  = "starSign"
	MetadataJoinDate  = "joinDate"
	MetadataAge       = "age"
	MetadataAvatar    = "avatar"
	metadataAvatarURL = "avatar_url"
)

// Metadata is a free-form key/value bag attached to an account.
type Metadata map[string]interface{}

// MetadataFromFields converts profile fields into a metadata patch.
// Only present fields produce keys.
func MetadataFromFields(f ProfileFields) Metadata {
	md := Metadata{}
	if f.Name != nil {
		md[MetadataName] = *f.Name
	}
	if f.Username != nil {
		md[MetadataUsername] = *f.Username
	}
	if f.Bio != nil {
		md[MetadataBio] = *f.Bio
	}
	if f.StarSign != nil {
		md[MetadataStarSign] = *f.StarSign
	}
	if f.JoinDate != nil {
		md[MetadataJoinDate] = *f.JoinDate
	}
	if f.Age != nil {
		md[MetadataAge] = *f.Age
	}
	if f.Avatar != nil {
		md[MetadataAvatar] = *f.Avatar
	}
	return md
}

// Fields extracts profile fields from metadata. Absent or mistyped keys stay nil.
func (m Metadata) Fields() ProfileFields {
	f := ProfileFields{
		Name:     m.str(MetadataName),
		Username: m.str(MetadataUsername),
		Bio:      m.str(MetadataBio),
		StarSign: m.str(MetadataStarSign),
		JoinDate: m.str(MetadataJoinDate),
		Avatar:   m.str(MetadataAvatar),
		Age:      m.int(MetadataAge),
	}
	if f.Avatar == nil {
		f.Avatar = m.str(metadataAvatarURL)
	}
	return f
}

func (m Metadata) str(key string) *string {
	v, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func (m Metadata) int(key string) *int {
	switch v := m[key].(type) {
	case int:
		return &v
	case int64:
		i := int(v)
		return &i
	case float64:
		if v != math.Trunc(v) {
			return nil
		}
		i := int(v)
		return &i
	case json.Number:
		i, err := strconv.Atoi(v.String())
		if err != nil {
			return nil
		}
		return &i
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil
		}
		return &i
	default:
		return nil
	}
}
