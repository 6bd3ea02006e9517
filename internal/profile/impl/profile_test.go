package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fomo-app/fomo/internal/cache"
	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/identity"
	identitymock "github.com/fomo-app/fomo/internal/identity/mock"
	"github.com/fomo-app/fomo/internal/kv/memory"
	"github.com/fomo-app/fomo/internal/profile"
	storageinterface "github.com/fomo-app/fomo/internal/storage"
	storage "github.com/fomo-app/fomo/internal/storage/mock"
)

var (
	ctx        = context.Background()
	errNetwork = errors.New("network is unreachable")
)

func newTestService(t *testing.T) (*srv, *storage.MockStorage, *identitymock.MockService, *cache.Cache) {
	ctrl := gomock.NewController(t)

	st := storage.NewMockStorage(ctrl)
	id := identitymock.NewMockService(ctrl)
	c := cache.New(memory.New())

	return New(st, id, c).(*srv), st, id, c
}

func TestSrv_Resolve(t *testing.T) {
	created := time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tt := []struct {
		name    string
		self    bool
		cached  *entities.ProfileFields
		remote  *storageinterface.Profile
		err     error
		md      entities.Metadata
		want    *entities.UserProfile
		wantErr error
	}{
		{
			name: "remote",
			remote: &storageinterface.Profile{
				ID:        "u1",
				FullName:  entities.StringPtr("Alice"),
				AvatarURL: entities.StringPtr("https://a"),
				Age:       entities.IntPtr(30),
				CreatedAt: created,
				UpdatedAt: updated,
			},
			want: &entities.UserProfile{
				ID:           "u1",
				Name:         "Alice",
				Avatar:       "https://a",
				Age:          entities.IntPtr(30),
				JoinDate:     "March 2023",
				FriendStatus: entities.FriendStatusNone,
			},
		},
		{
			name:   "self metadata with cache fallback",
			self:   true,
			err:    storageinterface.ErrNotFound,
			cached: &entities.ProfileFields{Name: entities.StringPtr("Old"), Avatar: entities.StringPtr("https://cached")},
			md:     entities.Metadata{entities.MetadataName: "Alice", entities.MetadataAge: float64(30)},
			want: &entities.UserProfile{
				ID:           "u1",
				Name:         "Alice",
				Avatar:       "https://cached",
				Age:          entities.IntPtr(30),
				FriendStatus: entities.FriendStatusSelf,
			},
		},
		{
			name:   "remote failure falls to cache",
			err:    errNetwork,
			cached: &entities.ProfileFields{Name: entities.StringPtr("X"), Bio: entities.StringPtr("bio")},
			want: &entities.UserProfile{
				ID:           "u1",
				Name:         "X",
				Bio:          "bio",
				FriendStatus: entities.FriendStatusNone,
			},
		},
		{
			name:   "self without metadata falls to cache",
			self:   true,
			err:    storageinterface.ErrNotFound,
			cached: &entities.ProfileFields{Name: entities.StringPtr("X")},
			md:     entities.Metadata{},
			want: &entities.UserProfile{
				ID:           "u1",
				Name:         "X",
				FriendStatus: entities.FriendStatusNone,
			},
		},
		{
			name:    "not found",
			err:     errNetwork,
			wantErr: profile.ErrNotFound,
		},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s, st, id, c := newTestService(t)

			if tc.cached != nil {
				_, err := c.MergeProfile(ctx, "u1", *tc.cached, 1)
				require.NoError(t, err)
			}

			st.EXPECT().GetProfile(gomock.Any(), "u1").Return(tc.remote, tc.err)

			rctx := ctx
			if tc.self {
				rctx = identity.WithToken(ctx, "t1")
				id.EXPECT().CurrentAccount(gomock.Any()).Return(&entities.Account{ID: "u1", Metadata: tc.md}, nil)
			}

			p, err := s.Resolve(rctx, "u1")
			if tc.wantErr != nil {
				require.True(t, errors.Is(err, tc.wantErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, p)
		})
	}
}

func TestSrv_Resolve_WritesThrough(t *testing.T) {
	s, st, _, c := newTestService(t)

	updated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st.EXPECT().GetProfile(gomock.Any(), "u1").Return(&storageinterface.Profile{
		ID:        "u1",
		FullName:  entities.StringPtr("Alice"),
		UpdatedAt: updated,
	}, nil)

	_, err := s.Resolve(ctx, "u1")
	require.NoError(t, err)

	e, ok := c.Profile(ctx, "u1")
	require.True(t, ok)
	require.Equal(t, "Alice", *e.Name)
	require.Equal(t, updated.UnixNano(), e.Version)
}

func TestSrv_Resolve_OtherUserIgnoresMetadata(t *testing.T) {
	s, st, id, _ := newTestService(t)

	st.EXPECT().GetProfile(gomock.Any(), "u2").Return(nil, storageinterface.ErrNotFound)
	id.EXPECT().CurrentAccount(gomock.Any()).Return(&entities.Account{
		ID:       "u1",
		Metadata: entities.Metadata{entities.MetadataName: "Alice"},
	}, nil)

	_, err := s.Resolve(identity.WithToken(ctx, "t1"), "u2")
	require.Equal(t, profile.ErrNotFound, err)
}

func TestSrv_WriteThenResolve(t *testing.T) {
	s, st, id, _ := newTestService(t)
	sctx := identity.WithToken(ctx, "t1")

	id.EXPECT().CurrentAccount(gomock.Any()).Return(nil, errNetwork).AnyTimes()
	st.EXPECT().UpsertProfile(gomock.Any(), gomock.Any()).Return(errNetwork)
	st.EXPECT().GetProfile(gomock.Any(), "u1").Return(nil, errNetwork)

	require.NoError(t, s.Write(sctx, "u1", entities.ProfileFields{Name: entities.StringPtr("X")}))

	p, err := s.Resolve(sctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "X", p.Name)
	require.Equal(t, entities.FriendStatusNone, p.FriendStatus)
}

func TestSrv_Write(t *testing.T) {
	s, st, id, c := newTestService(t)
	sctx := identity.WithToken(ctx, "t1")

	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	f := entities.ProfileFields{Bio: entities.StringPtr("hi"), Age: entities.IntPtr(25)}

	id.EXPECT().CurrentAccount(gomock.Any()).Return(&entities.Account{ID: "u1"}, nil)
	id.EXPECT().UpdateMetadata(gomock.Any(), entities.Metadata{
		entities.MetadataBio: "hi",
		entities.MetadataAge: 25,
	}).Return(nil, errNetwork)
	st.EXPECT().UpsertProfile(gomock.Any(), &storageinterface.UpsertProfileParams{
		ID:        "u1",
		Bio:       f.Bio,
		Age:       f.Age,
		UpdatedAt: now,
	}).Return(nil)

	require.NoError(t, s.Write(sctx, "u1", f))

	e, ok := c.Profile(ctx, "u1")
	require.True(t, ok)
	require.Equal(t, "hi", *e.Bio)
	require.Equal(t, now.UnixNano(), e.Version)
}

func TestSrv_Write_OtherUserSkipsMetadata(t *testing.T) {
	s, st, id, _ := newTestService(t)

	id.EXPECT().CurrentAccount(gomock.Any()).Return(&entities.Account{ID: "u1"}, nil)
	st.EXPECT().UpsertProfile(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, s.Write(identity.WithToken(ctx, "t1"), "u2", entities.ProfileFields{Name: entities.StringPtr("X")}))
}

func TestSrv_Write_StaleIsSkipped(t *testing.T) {
	s, st, _, c := newTestService(t)

	future := time.Now().Add(time.Hour)
	_, err := c.MergeProfile(ctx, "u1", entities.ProfileFields{Name: entities.StringPtr("new")}, future.UnixNano())
	require.NoError(t, err)

	st.EXPECT().UpsertProfile(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, s.Write(ctx, "u1", entities.ProfileFields{Name: entities.StringPtr("old")}))

	e, ok := c.Profile(ctx, "u1")
	require.True(t, ok)
	require.Equal(t, "new", *e.Name)
}

func TestSrv_Diagnose(t *testing.T) {
	s, st, id, c := newTestService(t)
	sctx := identity.WithToken(ctx, "t1")

	_, err := c.MergeProfile(ctx, "u1", entities.ProfileFields{Name: entities.StringPtr("Cached")}, 1)
	require.NoError(t, err)

	st.EXPECT().GetProfile(gomock.Any(), "u1").Return(nil, errNetwork).Times(2)
	id.EXPECT().CurrentAccount(gomock.Any()).Return(&entities.Account{
		ID:       "u1",
		Metadata: entities.Metadata{entities.MetadataName: "Meta"},
	}, nil).Times(2)

	status, err := s.Diagnose(sctx, "u1")
	require.NoError(t, err)

	assert.Nil(t, status.Remote)
	assert.Equal(t, errNetwork.Error(), status.RemoteError)
	assert.Equal(t, "Meta", *status.Metadata.Name)
	assert.Equal(t, "Cached", *status.Cached.Name)
	assert.Equal(t, "Meta", status.Resolved.Name)
	assert.Equal(t, entities.FriendStatusSelf, status.Resolved.FriendStatus)
	assert.Contains(t, status.Dump, "Cached")
	assert.Contains(t, status.Dump, "Meta")
}
