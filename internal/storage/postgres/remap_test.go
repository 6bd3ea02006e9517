package postgres

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/fomo-app/fomo/internal/entities"
)

func TestPartyRemap(t *testing.T) {
	now := time.Date(2024, 7, 1, 20, 0, 0, 0, time.UTC)

	tt := []struct {
		name string
		in   entities.Party
	}{
		{
			name: "full",
			in: entities.Party{
				ID:              "party_1",
				Name:            "Summer",
				Date:            "2024-07-04",
				Time:            "20:00",
				Location:        "Roof",
				Description:     "fireworks",
				Hosts:           []string{"alice", "bob"},
				Status:          entities.PartyStatusUpcoming,
				Attendees:       12,
				LocationTags:    []entities.LocationTag{{ID: "1", Name: "Bar"}},
				UserTags:        []entities.UserTag{{ID: "2", Name: "fun", Color: "#fff"}},
				CoHosts:         []entities.CoHost{{ID: "3", Name: "Carol", Email: "c@x.io"}},
				Invites:         []entities.Invite{{ID: "4", Email: "d@x.io", Status: entities.InviteStatusApproved, Name: "Dan"}},
				RequireApproval: true,
				CreatedAt:       now,
				UpdatedAt:       now.Add(time.Minute),
			},
		},
		{
			name: "empty collections",
			in: entities.Party{
				ID:        "party_2",
				Status:    entities.PartyStatusDraft,
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			dto, err := toPartyDTO(&tc.in)
			require.NoError(t, err)

			out, err := fromPartyDTO(dto)
			require.NoError(t, err)

			if diff := cmp.Diff(&tc.in, out, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("remap mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartyRemap_DefaultStatus(t *testing.T) {
	dto, err := toPartyDTO(&entities.Party{ID: "party_1"})
	require.NoError(t, err)
	require.Equal(t, "draft", dto.Status)
	require.Equal(t, "[]", string(dto.Invites))
	require.NotNil(t, dto.Hosts)
}

func TestPostRemap(t *testing.T) {
	now := time.Date(2024, 7, 1, 20, 0, 0, 0, time.UTC)

	in := entities.Post{
		ID:      "post_1",
		PartyID: "party_1",
		User: entities.Author{
			ID:       "u1",
			Name:     "Alice",
			Username: "alice",
			Avatar:   "https://a",
			IsHost:   true,
		},
		Content:  "hello",
		Media:    []entities.Media{{Type: "image", URL: "https://img"}},
		GifURL:   "https://gif",
		Tags:     []string{"announcement"},
		Poll:     &entities.Poll{Question: "?", Options: []entities.PollOption{{ID: "o1", Text: "yes", Votes: 2}}},
		Location: "Bar",
		Reactions: []entities.Reaction{
			{ID: "fire", Emoji: "🔥", Label: "Fire", Count: 1, Users: []string{"u2"}},
		},
		Comments: []entities.Comment{{
			ID:        "c1",
			User:      entities.Author{ID: "u2", Name: "Bob"},
			Content:   "nice",
			Timestamp: now,
			Replies:   []entities.Comment{{ID: "c2", Content: "ty", Timestamp: now}},
		}},
		Reposts:    3,
		RepostedBy: []string{"u2", "u3"},
		Timestamp:  now,
		UpdatedAt:  now,
	}

	dto, err := toPostDTO(&in)
	require.NoError(t, err)

	out, err := fromPostDTO(dto)
	require.NoError(t, err)

	if diff := cmp.Diff(&in, out, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("remap mismatch (-want +got):\n%s", diff)
	}
}

func TestPostRemap_ViewerFlagsAreNotStored(t *testing.T) {
	dto, err := toPostDTO(&entities.Post{
		ID:           "post_1",
		Reactions:    []entities.Reaction{{ID: "fire", Count: 1, Users: []string{"u1"}, UserReacted: true}},
		RepostedBy:   []string{"u1"},
		UserReposted: true,
	})
	require.NoError(t, err)

	out, err := fromPostDTO(dto)
	require.NoError(t, err)
	require.False(t, out.Reactions[0].UserReacted)
	require.Equal(t, []string{"u1"}, out.Reactions[0].Users)
	require.False(t, out.UserReposted)
	require.Equal(t, []string{"u1"}, out.RepostedBy)
}

func TestPostRemap_NoPoll(t *testing.T) {
	dto, err := toPostDTO(&entities.Post{ID: "post_1"})
	require.NoError(t, err)
	require.Equal(t, "null", string(dto.Poll))

	out, err := fromPostDTO(dto)
	require.NoError(t, err)
	require.Nil(t, out.Poll)
	require.Empty(t, out.Comments)
	require.NotNil(t, out.Comments)
}
