package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consumermock "github.com/fomo-app/fomo/internal/consumer/mock"
	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/feed"
	feedmock "github.com/fomo-app/fomo/internal/feed/mock"
	"github.com/fomo-app/fomo/internal/identity"
	identitymock "github.com/fomo-app/fomo/internal/identity/mock"
	"github.com/fomo-app/fomo/internal/party"
	partymock "github.com/fomo-app/fomo/internal/party/mock"
	"github.com/fomo-app/fomo/internal/profile"
	profilemock "github.com/fomo-app/fomo/internal/profile/mock"
	"github.com/fomo-app/fomo/internal/realtime"
)

var errTest = errors.New("test")

var account = &entities.Account{ID: "u1", Email: "alice@example.com"}

type mocks struct {
	id      *identitymock.MockService
	profile *profilemock.MockService
	party   *partymock.MockService
	feed    *feedmock.MockService
}

func newTestRouter(t *testing.T, changes Subscriber) (chi.Router, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		id:      identitymock.NewMockService(ctrl),
		profile: profilemock.NewMockService(ctrl),
		party:   partymock.NewMockService(ctrl),
		feed:    feedmock.NewMockService(ctrl),
	}

	r := chi.NewRouter()
	SetupRouter(Services{
		Identity: m.id,
		Profile:  m.profile,
		Party:    m.party,
		Feed:     m.feed,
		Changes:  changes,
	}, r, time.Second)

	return r, m
}

func do(r http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func Test_signIn(t *testing.T) {
	tt := []struct {
		name   string
		body   string
		err    error
		status int
		rbody  string
	}{
		{
			name:   "success",
			body:   `{"email":"alice@example.com","password":"password"}`,
			status: http.StatusOK,
			rbody:  `{"token":"t","accountId":"u1","expiresAt":"1970-01-01T00:01:40Z"}`,
		},
		{
			name:   "invalid credentials",
			body:   `{"email":"alice@example.com","password":"password"}`,
			err:    identity.ErrInvalidCredentials,
			status: http.StatusUnauthorized,
			rbody:  `{"error":"invalid credentials"}`,
		},
		{
			name:   "rate limited",
			body:   `{"email":"alice@example.com","password":"password"}`,
			err:    fmt.Errorf("%w: too many attempts", identity.ErrRateLimited),
			status: http.StatusTooManyRequests,
			rbody:  `{"error":"rate limited: too many attempts"}`,
		},
		{
			name:   "internal",
			body:   `{"email":"alice@example.com","password":"password"}`,
			err:    errTest,
			status: http.StatusInternalServerError,
			rbody:  `{"error":"internal error"}`,
		},
		{
			name:   "invalid json",
			body:   `{`,
			status: http.StatusBadRequest,
		},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			r, m := newTestRouter(t, nil)

			if tc.body != `{` {
				m.id.EXPECT().SignIn(gomock.Any(), "alice@example.com", "password").DoAndReturn(
					func(context.Context, string, string) (*entities.Session, error) {
						if tc.err != nil {
							return nil, tc.err
						}
						return &entities.Session{Token: "t", AccountID: "u1", ExpiresAt: time.Unix(100, 0).UTC()}, nil
					})
			}

			w := do(r, http.MethodPost, "/v1/auth/signin", tc.body)
			require.Equal(t, tc.status, w.Code)
			if tc.rbody != "" {
				require.JSONEq(t, tc.rbody, w.Body.String())
			}
		})
	}
}

func Test_resendConfirmation(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().ResendConfirmation(gomock.Any(), "alice@example.com").Return(identity.Result{
		Success: false,
		Message: "Please wait 42 seconds before requesting another confirmation email.",
	})

	w := do(r, http.MethodPost, "/v1/auth/resend", `{"email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":false,"message":"Please wait 42 seconds before requesting another confirmation email."}`, w.Body.String())
}

func Test_signUp(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().SignUp(gomock.Any(), &identity.SignUpParams{
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password",
	}).Return(nil, identity.ErrUsernameTaken)

	w := do(r, http.MethodPost, "/v1/auth/signup", `{"name":"Alice","username":"alice","email":"alice@example.com","password":"password"}`)
	require.Equal(t, http.StatusConflict, w.Code)
}

func Test_getProfile(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.profile.EXPECT().Resolve(gomock.Any(), "u1").Return(&entities.UserProfile{
		ID:           "u1",
		Name:         "Alice",
		FriendStatus: entities.FriendStatusSelf,
	}, nil)
	m.profile.EXPECT().Resolve(gomock.Any(), "u2").Return(nil, profile.ErrNotFound)

	w := do(r, http.MethodGet, "/v1/profiles/u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":"u1","name":"Alice","friendStatus":"self"}`, w.Body.String())

	w = do(r, http.MethodGet, "/v1/profiles/u2/", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func Test_writeProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, m := newTestRouter(t, nil)

		m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil)
		m.profile.EXPECT().Write(gomock.Any(), "u1", entities.ProfileFields{Name: entities.StringPtr("X")}).Return(nil)
		m.profile.EXPECT().Resolve(gomock.Any(), "u1").Return(&entities.UserProfile{ID: "u1", Name: "X"}, nil)

		w := do(r, http.MethodPatch, "/v1/profiles/u1", `{"name":"X"}`)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"id":"u1","name":"X","friendStatus":""}`, w.Body.String())
	})

	t.Run("another user", func(t *testing.T) {
		r, m := newTestRouter(t, nil)

		m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil)

		w := do(r, http.MethodPatch, "/v1/profiles/u2", `{"name":"X"}`)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unauthorized", func(t *testing.T) {
		r, m := newTestRouter(t, nil)

		m.id.EXPECT().CurrentAccount(gomock.Any()).Return(nil, identity.ErrUnauthorized)

		w := do(r, http.MethodPatch, "/v1/profiles/u1", `{"name":"X"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty", func(t *testing.T) {
		r, m := newTestRouter(t, nil)

		m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil)

		w := do(r, http.MethodPatch, "/v1/profiles/u1", `{}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func Test_listParties(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.party.EXPECT().List(gomock.Any(), "u1").Return([]*entities.Party{}, nil)

	w := do(r, http.MethodGet, "/v1/users/u1/parties", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"parties":[]}`, w.Body.String())
}

func Test_getStats(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.party.EXPECT().Stats(gomock.Any(), "u1", "u2").Return(map[string]entities.UserStats{
		"u1": {HostedParties: 1},
	}, nil).Times(1)

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodGet, "/v1/stats?ids=u1,%20u2,", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"u1":{"hostedParties":1,"attendedParties":0,"friendCount":0}}`, w.Body.String())
	}
}

func Test_createParty(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil)
	m.party.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entities.Party) (*entities.Party, error) {
		assert.Equal(t, []string{"u1"}, p.Hosts)
		assert.Equal(t, "Rooftop", p.Name)
		p.ID = "party_1"
		return p, nil
	})

	w := do(r, http.MethodPost, "/v1/parties", `{"name":"Rooftop"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"id":"party_1"`)
}

func Test_completeParty(t *testing.T) {
	tt := []struct {
		name   string
		hosts  []string
		err    error
		status int
	}{
		{name: "success", hosts: []string{"u1"}, status: http.StatusOK},
		{name: "not a host", hosts: []string{"u2"}, status: http.StatusForbidden},
		{name: "invalid transition", hosts: []string{"u1"}, err: party.ErrInvalidTransition, status: http.StatusConflict},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			r, m := newTestRouter(t, nil)

			m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil)
			m.party.EXPECT().Get(gomock.Any(), "p1").Return(&entities.Party{ID: "p1", Hosts: tc.hosts}, nil)
			if tc.status != http.StatusForbidden {
				m.party.EXPECT().Complete(gomock.Any(), "p1").DoAndReturn(func(context.Context, string) (*entities.Party, error) {
					if tc.err != nil {
						return nil, tc.err
					}
					return &entities.Party{ID: "p1", Status: entities.PartyStatusCompleted}, nil
				})
			}

			w := do(r, http.MethodPost, "/v1/parties/p1/complete", "")
			require.Equal(t, tc.status, w.Code)
		})
	}
}

func Test_cancelParty(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil).Times(2)
	m.party.EXPECT().Get(gomock.Any(), "p1").Return(&entities.Party{ID: "p1", Hosts: []string{"u1"}}, nil)
	m.profile.EXPECT().Resolve(gomock.Any(), "u1").Return(&entities.UserProfile{ID: "u1", Name: "Alice", Username: "alice"}, nil)
	m.party.EXPECT().Cancel(gomock.Any(), "p1", entities.Author{
		ID:       "u1",
		Name:     "Alice",
		Username: "alice",
		Location: "Roof",
	}).Return(&entities.Party{ID: "p1", Status: entities.PartyStatusCancelled}, nil)

	w := do(r, http.MethodPost, "/v1/parties/p1/cancel", `{"location":"Roof"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"cancelled"`)
}

func Test_listPosts(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil)
	m.feed.EXPECT().List(gomock.Any(), "p1", "u1", feed.Filter{Location: "roof", Hashtag: "lit"}).Return([]*entities.Post{{ID: "post_1"}}, nil)

	w := do(r, http.MethodGet, "/v1/parties/p1/posts?location=roof&hashtag=lit", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"id":"post_1"`)
}

func Test_createPost(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(&entities.Account{
		ID:       "u1",
		Metadata: entities.Metadata{entities.MetadataName: "Alice"},
	}, nil)
	m.profile.EXPECT().Resolve(gomock.Any(), "u1").Return(nil, profile.ErrNotFound)
	m.feed.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entities.Post) (*entities.Post, error) {
		assert.Equal(t, "p1", p.PartyID)
		assert.Equal(t, "Alice", p.User.Name)
		assert.Equal(t, "kitchen", p.User.Location)
		return p, nil
	})

	w := do(r, http.MethodPost, "/v1/parties/p1/posts", `{"content":"hi","location":"kitchen"}`)
	require.Equal(t, http.StatusCreated, w.Code)
}

func Test_deletePost(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil).Times(2)
	m.feed.EXPECT().Get(gomock.Any(), "post_1", "u1").Return(&entities.Post{ID: "post_1", User: entities.Author{ID: "u2"}}, nil)
	m.feed.EXPECT().Get(gomock.Any(), "post_2", "u1").Return(&entities.Post{ID: "post_2", User: entities.Author{ID: "u1"}}, nil)
	m.feed.EXPECT().Delete(gomock.Any(), "post_2").Return(nil)

	require.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/v1/posts/post_1", "").Code)
	require.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/v1/posts/post_2", "").Code)
}

func Test_react(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil).Times(2)
	m.feed.EXPECT().React(gomock.Any(), "post_1", "u1", "🔥").Return(&entities.Post{ID: "post_1"}, nil)
	m.feed.EXPECT().React(gomock.Any(), "post_1", "u1", "").Return(nil, feed.ErrInvalidReaction)

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/v1/posts/post_1/reactions", `{"emoji":"🔥"}`).Code)
	require.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/v1/posts/post_1/reactions", `{"emoji":""}`).Code)
}

func Test_repost(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil)
	m.feed.EXPECT().Repost(gomock.Any(), "post_1", "u1").Return(&entities.Post{ID: "post_1", Reposts: 1, UserReposted: true}, nil)

	w := do(r, http.MethodPost, "/v1/posts/post_1/reposts", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"userReposted":true`)
}

func Test_deleteComment(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil).Times(2)
	m.feed.EXPECT().DeleteComment(gomock.Any(), "post_1", "u1", "c1").Return(nil, fmt.Errorf("%w: comment c1", feed.ErrForbidden))
	m.feed.EXPECT().DeleteComment(gomock.Any(), "post_1", "u1", "c2").Return(&entities.Post{ID: "post_1"}, nil)

	require.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/v1/posts/post_1/comments/c1", "").Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/v1/posts/post_1/comments/c2", "").Code)
}

func Test_getPost_Anonymous(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.feed.EXPECT().Get(gomock.Any(), "post_1", "").Return(&entities.Post{ID: "post_1"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/posts/post_1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	// expired session is served as anonymous
	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(nil, identity.ErrUnauthorized)
	m.feed.EXPECT().Get(gomock.Any(), "post_1", "").Return(&entities.Post{ID: "post_1"}, nil)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v1/posts/post_1", "").Code)
}

func Test_refreshUser(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.profile.EXPECT().Resolve(gomock.Any(), "u2").Return(nil, profile.ErrNotFound)
	m.party.EXPECT().List(gomock.Any(), "u2").Return([]*entities.Party{{ID: "p1"}}, nil)

	w := do(r, http.MethodGet, "/v1/users/u2/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"profile":null`)
	require.Contains(t, w.Body.String(), `"id":"p1"`)

	m.profile.EXPECT().Resolve(gomock.Any(), "u2").Return(nil, errTest)
	require.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/v1/users/u2/refresh", "").Code)
}

func Test_comment(t *testing.T) {
	r, m := newTestRouter(t, nil)

	m.id.EXPECT().CurrentAccount(gomock.Any()).Return(account, nil)
	m.profile.EXPECT().Resolve(gomock.Any(), "u1").Return(&entities.UserProfile{ID: "u1", Name: "Alice"}, nil)
	m.feed.EXPECT().Comment(gomock.Any(), "post_1", "c1", entities.Comment{
		User:    entities.Author{ID: "u1", Name: "Alice"},
		Content: "reply",
	}).Return(nil, feed.ErrNotFound)

	w := do(r, http.MethodPost, "/v1/posts/post_1/comments", `{"parentId":"c1","content":"reply"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

type fakeListener struct {
	ch chan *pq.Notification
}

func (l *fakeListener) Listen(string) error { return nil }
func (l *fakeListener) NotificationChannel() <-chan *pq.Notification { return l.ch }
func (l *fakeListener) Ping() error { return nil }
func (l *fakeListener) Close() error { return nil }

// notifyingHub reports subscription changes.
type notifyingHub struct {
	*realtime.Hub
	subscribed   chan struct{}
	unsubscribed chan struct{}
}

func (h notifyingHub) Subscribe(f realtime.Filter, cb func(e realtime.Event)) *realtime.Subscription {
	s := h.Hub.Subscribe(f, cb)
	h.subscribed <- struct{}{}
	return s
}

func (h notifyingHub) Unsubscribe(s *realtime.Subscription) {
	h.Hub.Unsubscribe(s)
	h.unsubscribed <- struct{}{}
}

func Test_changesStream(t *testing.T) {
	l := &fakeListener{ch: make(chan *pq.Notification)}
	h := notifyingHub{
		Hub:          realtime.New(l),
		subscribed:   make(chan struct{}, 1),
		unsubscribed: make(chan struct{}, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = h.Run(ctx)
	}()

	r, _ := newTestRouter(t, h)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/changes?tables=parties&filter=id=eq.p1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	<-h.subscribed

	l.ch <- &pq.Notification{Extra: `{"table":"parties","type":"UPDATE","record":{"id":"p2"}}`}
	l.ch <- &pq.Notification{Extra: `{"table":"parties","type":"INSERT","record":{"id":"p1","name":"A"}}`}

	var e realtime.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&e))
	require.Equal(t, realtime.EventInsert, e.Type)
	require.Equal(t, "p1", e.Record["id"])

	require.NoError(t, conn.Close())

	select {
	case <-h.unsubscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("subscription is not closed")
	}
}

func Test_changesStream_InvalidFilter(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/v1/changes?filter=id", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler(t *testing.T) {
	ctrl := gomock.NewController(t)

	ok, failed := consumermock.NewMockConsumer(ctrl), consumermock.NewMockConsumer(ctrl)
	ok.EXPECT().Ping(gomock.Any()).Return(nil).Times(2)
	failed.EXPECT().Ping(gomock.Any()).Return(errTest)

	w := httptest.NewRecorder()
	HealthHandler("1.0.0", time.Second, map[string]Pinger{"promoter": ok})(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"version":"1.0.0"}`, w.Body.String())

	w = httptest.NewRecorder()
	HealthHandler("1.0.0", time.Second, map[string]Pinger{"promoter": ok, "changes": failed})(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.JSONEq(t, `{"version":"1.0.0","errors":{"changes":"test"}}`, w.Body.String())
}
