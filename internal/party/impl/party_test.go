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
	"github.com/fomo-app/fomo/internal/feed"
	"github.com/fomo-app/fomo/internal/kv/memory"
	"github.com/fomo-app/fomo/internal/party"
	storageinterface "github.com/fomo-app/fomo/internal/storage"
	storage "github.com/fomo-app/fomo/internal/storage/mock"
)

var (
	ctx        = context.Background()
	errNetwork = errors.New("network is unreachable")
	now        = time.Date(2024, 7, 1, 21, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T) (*srv, *storage.MockStorage, *cache.Cache) {
	ctrl := gomock.NewController(t)

	st := storage.NewMockStorage(ctrl)
	c := cache.New(memory.New())

	s := New(st, c, time.UTC).(*srv)
	s.now = func() time.Time { return now }

	return s, st, c
}

func expectTx(st *storage.MockStorage) {
	st.EXPECT().InTx(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f func(s storageinterface.Storage) error) error {
		return f(st)
	})
}

func TestSrv_CreateAndList(t *testing.T) {
	s, st, c := newTestService(t)

	st.EXPECT().CreateParty(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entities.Party) (*entities.Party, error) {
		assert.Regexp(t, `^party_\d+_[0-9a-f]{9}$`, p.ID)
		assert.Equal(t, entities.PartyStatusDraft, p.Status)
		assert.Equal(t, now, p.CreatedAt)
		return p, nil
	})

	created, err := s.Create(ctx, &entities.Party{Name: "Test", Hosts: []string{"u1"}})
	require.NoError(t, err)
	require.Len(t, c.Drafts(ctx), 1)
	require.Empty(t, c.Parties(ctx))

	st.EXPECT().ListParties(gomock.Any(), &storageinterface.ListPartiesParams{Status: &draft}).Return([]*entities.Party{created}, nil)
	drafts, err := s.ListDrafts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Test", drafts[0].Name)

	st.EXPECT().ListParties(gomock.Any(), &storageinterface.ListPartiesParams{ExcludeStatus: &draft}).Return([]*entities.Party{}, nil)
	parties, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, parties)
}

func TestSrv_Create_InvalidStatus(t *testing.T) {
	s, _, _ := newTestService(t)

	for _, status := range []entities.PartyStatus{entities.PartyStatusLive, entities.PartyStatusCompleted, "unknown"} {
		_, err := s.Create(ctx, &entities.Party{Name: "Test", Status: status})
		require.True(t, errors.Is(err, party.ErrInvalidStatus), status)
	}
}

func TestSrv_List(t *testing.T) {
	mine := &entities.Party{ID: "p1", Hosts: []string{"u1", "u2"}, Status: entities.PartyStatusUpcoming, CreatedAt: now}
	other := &entities.Party{ID: "p2", Hosts: []string{"u3"}, Status: entities.PartyStatusLive, CreatedAt: now}

	tt := []struct {
		name   string
		cached []*entities.Party
		remote []*entities.Party
		err    error
		want   []string
	}{
		{
			name:   "remote",
			remote: []*entities.Party{mine, other},
			want:   []string{"p1"},
		},
		{
			name:   "fallback to cache",
			cached: []*entities.Party{mine, other},
			err:    errNetwork,
			want:   []string{"p1"},
		},
		{
			name: "fallback to empty cache",
			err:  errNetwork,
			want: []string{},
		},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			s, st, c := newTestService(t)
			require.NoError(t, c.SaveParties(ctx, tc.cached...))

			st.EXPECT().ListParties(gomock.Any(), gomock.Any()).Return(tc.remote, tc.err)

			p, err := s.List(ctx, "u1")
			require.NoError(t, err)

			ids := make([]string, 0, len(p))
			for _, v := range p {
				ids = append(ids, v.ID)
			}
			require.Equal(t, tc.want, ids)
		})
	}
}

func TestSrv_Get(t *testing.T) {
	s, st, c := newTestService(t)
	require.NoError(t, c.SaveDrafts(ctx, &entities.Party{ID: "d1", Status: draft}))

	st.EXPECT().GetParty(gomock.Any(), "d1").Return(nil, errNetwork)
	p, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, "d1", p.ID)

	st.EXPECT().GetParty(gomock.Any(), "p1").Return(nil, errNetwork)
	_, err = s.Get(ctx, "p1")
	require.True(t, errors.Is(err, errNetwork))

	st.EXPECT().GetParty(gomock.Any(), "p2").Return(nil, storageinterface.ErrNotFound)
	_, err = s.Get(ctx, "p2")
	require.Equal(t, party.ErrNotFound, err)
}

func TestSrv_Complete(t *testing.T) {
	s, st, c := newTestService(t)

	p := &entities.Party{
		ID:     "p1",
		Hosts:  []string{"u1"},
		Status: entities.PartyStatusLive,
		Invites: []entities.Invite{
			{ID: "i1", Email: "bob@example.com", Name: "bob", Status: entities.InviteStatusApproved},
			{ID: "i2", Email: "eve@example.com", Name: "eve", Status: entities.InviteStatusPending},
		},
	}
	completed := *p
	completed.Status = entities.PartyStatusCompleted

	expectTx(st)
	st.EXPECT().GetParty(gomock.Any(), "p1").Return(p, nil)
	st.EXPECT().UpdateParty(gomock.Any(), "p1", gomock.Any(), now).DoAndReturn(
		func(_ context.Context, _ string, u *entities.PartyUpdate, _ time.Time) (*entities.Party, error) {
			require.Equal(t, entities.PartyStatusCompleted, *u.Status)
			return &completed, nil
		})
	st.EXPECT().AddStats(gomock.Any(), []string{"u1"}, []string{"bob"}).Return(nil)
	st.EXPECT().GetStats(gomock.Any(), "u1", "bob").Return(map[string]entities.UserStats{
		"u1":  {HostedParties: 1},
		"bob": {AttendedParties: 1},
	}, nil)

	out, err := s.Complete(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, entities.PartyStatusCompleted, out.Status)
	require.Equal(t, entities.UserStats{HostedParties: 1}, c.Stats(ctx)["u1"])

	// completing again must not count statistics twice
	expectTx(st)
	st.EXPECT().GetParty(gomock.Any(), "p1").Return(&completed, nil)

	out, err = s.Complete(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, entities.PartyStatusCompleted, out.Status)
}

func TestSrv_Complete_Errors(t *testing.T) {
	tt := []struct {
		name   string
		status entities.PartyStatus
		getErr error
		err    error
	}{
		{name: "draft", status: draft, err: party.ErrInvalidTransition},
		{name: "cancelled", status: entities.PartyStatusCancelled, err: party.ErrInvalidTransition},
		{name: "not found", getErr: storageinterface.ErrNotFound, err: party.ErrNotFound},
		{name: "network", getErr: errNetwork, err: errNetwork},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			s, st, _ := newTestService(t)

			expectTx(st)
			if tc.getErr != nil {
				st.EXPECT().GetParty(gomock.Any(), "p1").Return(nil, tc.getErr)
			} else {
				st.EXPECT().GetParty(gomock.Any(), "p1").Return(&entities.Party{ID: "p1", Status: tc.status}, nil)
			}

			_, err := s.Complete(ctx, "p1")
			require.True(t, errors.Is(err, tc.err), err)
		})
	}
}

func TestSrv_Publish(t *testing.T) {
	s, st, c := newTestService(t)
	require.NoError(t, c.SaveDrafts(ctx, &entities.Party{ID: "p1", Status: draft}))

	expectTx(st)
	st.EXPECT().GetParty(gomock.Any(), "p1").Return(&entities.Party{ID: "p1", Status: draft}, nil)
	st.EXPECT().UpdateParty(gomock.Any(), "p1", &entities.PartyUpdate{Status: &upcoming}, now).
		Return(&entities.Party{ID: "p1", Status: upcoming, UpdatedAt: now}, nil)

	p, err := s.Publish(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, upcoming, p.Status)
	require.Empty(t, c.Drafts(ctx))
	require.Len(t, c.Parties(ctx), 1)

	expectTx(st)
	st.EXPECT().GetParty(gomock.Any(), "p1").Return(&entities.Party{ID: "p1", Status: upcoming}, nil)

	_, err = s.Publish(ctx, "p1")
	require.True(t, errors.Is(err, party.ErrInvalidTransition))
}

func TestSrv_Cancel(t *testing.T) {
	s, st, _ := newTestService(t)

	host := entities.Author{ID: "u1", Name: "Alice", Username: "alice"}

	expectTx(st)
	st.EXPECT().GetParty(gomock.Any(), "p1").Return(&entities.Party{
		ID: "p1", Name: "Rooftop", Date: "2024-07-05", Time: "20:00", Status: upcoming,
	}, nil)
	st.EXPECT().UpdateParty(gomock.Any(), "p1", gomock.Any(), now).
		Return(&entities.Party{ID: "p1", Name: "Rooftop", Status: entities.PartyStatusCancelled}, nil)
	st.EXPECT().CreatePost(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entities.Post) (*entities.Post, error) {
		assert.Equal(t, "p1", p.PartyID)
		assert.Equal(t, []string{feed.TagAnnouncement, feed.TagCancelled}, p.Tags)
		assert.Equal(t, "Rooftop on 2024-07-05 20:00 has been cancelled.", p.Content)
		assert.True(t, p.User.IsHost)
		assert.Equal(t, "u1", p.User.ID)
		return p, nil
	})

	p, err := s.Cancel(ctx, "p1", host)
	require.NoError(t, err)
	require.Equal(t, entities.PartyStatusCancelled, p.Status)
}

func TestSrv_Cancel_AnnouncementFails(t *testing.T) {
	s, st, c := newTestService(t)

	expectTx(st)
	st.EXPECT().GetParty(gomock.Any(), "p1").Return(&entities.Party{ID: "p1", Status: upcoming}, nil)
	st.EXPECT().UpdateParty(gomock.Any(), "p1", gomock.Any(), now).
		Return(&entities.Party{ID: "p1", Status: entities.PartyStatusCancelled}, nil)
	st.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Return(nil, errNetwork)

	_, err := s.Cancel(ctx, "p1", entities.Author{ID: "u1"})
	require.True(t, errors.Is(err, errNetwork))
	require.Empty(t, c.Parties(ctx))
}

func TestSrv_PromoteLive(t *testing.T) {
	s, st, c := newTestService(t)

	st.EXPECT().ListParties(gomock.Any(), &storageinterface.ListPartiesParams{Status: &upcoming}).Return([]*entities.Party{
		{ID: "started", Date: "2024-07-01", Time: "20:00", Status: upcoming},
		{ID: "now", Date: "2024-07-01", Time: "21:00", Status: upcoming},
		{ID: "tomorrow", Date: "2024-07-02", Time: "20:00", Status: upcoming},
		{ID: "no date", Status: upcoming},
		{ID: "garbage", Date: "someday", Status: upcoming},
		{ID: "failed", Date: "2024-06-30", Status: upcoming},
	}, nil)

	live := entities.PartyStatusLive
	cancelled := entities.PartyStatusCancelled

	for i := 0; i < 3; i++ {
		expectTx(st)
	}

	st.EXPECT().GetParty(gomock.Any(), "started").Return(&entities.Party{ID: "started", Status: upcoming}, nil)
	st.EXPECT().UpdateParty(gomock.Any(), "started", &entities.PartyUpdate{Status: &live}, now).
		Return(&entities.Party{ID: "started", Status: live, UpdatedAt: now}, nil)

	// cancelled after listing, must stay cancelled
	st.EXPECT().GetParty(gomock.Any(), "now").Return(&entities.Party{ID: "now", Status: cancelled}, nil)

	st.EXPECT().GetParty(gomock.Any(), "failed").Return(&entities.Party{ID: "failed", Status: upcoming}, nil)
	st.EXPECT().UpdateParty(gomock.Any(), "failed", gomock.Any(), now).Return(nil, errNetwork)

	p, err := s.PromoteLive(ctx, now)
	require.NoError(t, err)
	require.Len(t, p, 1)
	require.Equal(t, "started", p[0].ID)
	require.Len(t, c.Parties(ctx), 1)

	st.EXPECT().ListParties(gomock.Any(), gomock.Any()).Return(nil, errNetwork)
	_, err = s.PromoteLive(ctx, now)
	require.Error(t, err)
}

func TestSrv_Stats(t *testing.T) {
	s, st, c := newTestService(t)
	require.NoError(t, c.SaveStats(ctx, map[string]entities.UserStats{
		"u1": {HostedParties: 2},
		"u2": {AttendedParties: 1},
	}))

	st.EXPECT().GetStats(gomock.Any(), "u1", "u3").Return(nil, errNetwork)
	stats, err := s.Stats(ctx, "u1", "u3")
	require.NoError(t, err)
	require.Equal(t, map[string]entities.UserStats{"u1": {HostedParties: 2}}, stats)

	st.EXPECT().GetStats(gomock.Any()).Return(map[string]entities.UserStats{"u3": {AttendedParties: 4}}, nil)
	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Len(t, c.Stats(ctx), 3)
}

func TestSrv_ImportLocal(t *testing.T) {
	s, st, c := newTestService(t)

	n, err := s.ImportLocal(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, c.SaveParties(ctx, &entities.Party{ID: "p1", Status: upcoming}))
	require.NoError(t, c.SaveDrafts(ctx, &entities.Party{ID: "d1", Status: draft}))

	st.EXPECT().ImportParties(gomock.Any(), gomock.Any()).Return(0, errNetwork)
	_, err = s.ImportLocal(ctx)
	require.Error(t, err)
	require.Len(t, c.Parties(ctx), 1)

	st.EXPECT().ImportParties(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p []*entities.Party) (int, error) {
		require.Len(t, p, 2)
		return 1, nil
	})
	n, err = s.ImportLocal(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Empty(t, c.Parties(ctx))
	require.Empty(t, c.Drafts(ctx))
}
