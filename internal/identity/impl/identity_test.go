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
	"github.com/fomo-app/fomo/internal/kv/memory"
	mailmock "github.com/fomo-app/fomo/internal/mail/mock"
	storageinterface "github.com/fomo-app/fomo/internal/storage"
	storage "github.com/fomo-app/fomo/internal/storage/mock"
)

var ctx = context.Background()

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time {
	return c.t
}

func (c *clock) Add(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestService(t *testing.T, cfg Config) (*srv, *storage.MockStorage, *mailmock.MockSender, *clock) {
	ctrl := gomock.NewController(t)

	st := storage.NewMockStorage(ctrl)
	m := mailmock.NewMockSender(ctrl)
	c := &clock{t: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)}

	s := New(st, cache.New(memory.New()), m, cfg).(*srv)
	s.now = c.Now

	return s, st, m, c
}

func TestSrv_ResendConfirmation_Cooldown(t *testing.T) {
	s, st, m, c := newTestService(t, DefaultConfig)

	account := &storageinterface.Account{Account: entities.Account{ID: "u1", Email: "a@b.co"}}

	st.EXPECT().GetAccountByEmail(gomock.Any(), "a@b.co").Return(account, nil).Times(2)
	st.EXPECT().CreateConfirmation(gomock.Any(), gomock.Any(), "u1", gomock.Any()).Return(nil).Times(2)
	m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	res := s.ResendConfirmation(ctx, "A@b.co")
	require.True(t, res.Success)

	c.Add(30 * time.Second)
	res = s.ResendConfirmation(ctx, "a@b.co")
	require.False(t, res.Success)
	require.Equal(t, "Please wait 30 seconds before requesting another confirmation email.", res.Message)

	c.Add(31 * time.Second)
	res = s.ResendConfirmation(ctx, "a@b.co")
	require.True(t, res.Success)
}

func TestSrv_ResendConfirmation_InvalidEmail(t *testing.T) {
	s, _, _, _ := newTestService(t, DefaultConfig)

	res := s.ResendConfirmation(ctx, "not-an-email")
	require.False(t, res.Success)
	require.Equal(t, "Please enter a valid email address.", res.Message)
}

func TestSrv_ResendConfirmation_RateLimited(t *testing.T) {
	cfg := DefaultConfig
	cfg.ResendAttempts = 1

	s, st, m, c := newTestService(t, cfg)

	st.EXPECT().GetAccountByEmail(gomock.Any(), "a@b.co").Return(&storageinterface.Account{
		Account: entities.Account{ID: "u1", Email: "a@b.co"},
	}, nil)
	st.EXPECT().CreateConfirmation(gomock.Any(), gomock.Any(), "u1", gomock.Any()).Return(nil)
	m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	require.True(t, s.ResendConfirmation(ctx, "a@b.co").Success)

	c.Add(2 * identity.ResendCooldown)
	res := s.ResendConfirmation(ctx, "a@b.co")
	require.False(t, res.Success)
	require.Equal(t, "Too many confirmation emails requested. Please try again later.", res.Message)
}

func TestSrv_ResendConfirmation_Failure(t *testing.T) {
	s, st, m, _ := newTestService(t, DefaultConfig)

	st.EXPECT().GetAccountByEmail(gomock.Any(), "a@b.co").Return(&storageinterface.Account{
		Account: entities.Account{ID: "u1", Email: "a@b.co"},
	}, nil).Times(2)
	st.EXPECT().CreateConfirmation(gomock.Any(), gomock.Any(), "u1", gomock.Any()).Return(nil).Times(2)
	gomock.InOrder(
		m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp is down")),
		m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil),
	)

	require.False(t, s.ResendConfirmation(ctx, "a@b.co").Success)
	// failed request does not start cooldown
	require.True(t, s.ResendConfirmation(ctx, "a@b.co").Success)
}

func TestSrv_ResendConfirmation_Skipped(t *testing.T) {
	s, st, _, c := newTestService(t, DefaultConfig)

	confirmed := time.Now()
	gomock.InOrder(
		st.EXPECT().GetAccountByEmail(gomock.Any(), "a@b.co").Return(nil, storageinterface.ErrNotFound),
		st.EXPECT().GetAccountByEmail(gomock.Any(), "a@b.co").Return(&storageinterface.Account{
			Account: entities.Account{ID: "u1", ConfirmedAt: &confirmed},
		}, nil),
	)

	require.True(t, s.ResendConfirmation(ctx, "a@b.co").Success)
	c.Add(identity.ResendCooldown)
	require.True(t, s.ResendConfirmation(ctx, "a@b.co").Success)
}

func TestSrv_SignUp(t *testing.T) {
	tt := []struct {
		name     string
		params   identity.SignUpParams
		taken    bool
		createFn func() (*entities.Account, error)
		err      error
	}{
		{
			name:   "invalid email",
			params: identity.SignUpParams{Email: "nope", Password: "Password1"},
			err:    identity.ErrInvalidEmail,
		},
		{
			name:   "short password",
			params: identity.SignUpParams{Email: "a@b.co", Password: "short"},
			err:    identity.ErrInvalidPassword,
		},
		{
			name:   "username taken",
			params: identity.SignUpParams{Email: "a@b.co", Password: "Password1", Username: "alice"},
			taken:  true,
			err:    identity.ErrUsernameTaken,
		},
		{
			name:   "email taken",
			params: identity.SignUpParams{Email: "a@b.co", Password: "Password1", Username: "alice"},
			createFn: func() (*entities.Account, error) {
				return nil, storageinterface.ErrAlreadyExists
			},
			err: identity.ErrEmailTaken,
		},
		{
			name: "success",
			params: identity.SignUpParams{
				Name:     "Alice",
				Email:    "A@b.co",
				Password: "Password1",
				Username: "alice",
				Age:      entities.IntPtr(25),
				StarSign: "Leo",
			},
			createFn: func() (*entities.Account, error) {
				return &entities.Account{ID: "u1", Email: "a@b.co"}, nil
			},
		},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s, st, m, _ := newTestService(t, DefaultConfig)

			if tc.params.Username != "" {
				st.EXPECT().UsernameTaken(gomock.Any(), tc.params.Username).Return(tc.taken, nil)
			}

			if tc.createFn != nil {
				st.EXPECT().InTx(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, f func(s storageinterface.Storage) error) error {
						return f(st)
					},
				)
				st.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, p *storageinterface.CreateAccountParams) (*entities.Account, error) {
						assert.Equal(t, "a@b.co", p.Email)
						assert.NotEqual(t, tc.params.Password, p.PasswordHash)
						if tc.err != nil {
							return tc.createFn()
						}
						assert.Equal(t, entities.Metadata{
							entities.MetadataName:     "Alice",
							entities.MetadataUsername: "alice",
							entities.MetadataAge:      25,
							entities.MetadataStarSign: "Leo",
							entities.MetadataJoinDate: "July 2024",
						}, p.Metadata)
						return tc.createFn()
					},
				).AnyTimes()
			}

			if tc.err == nil {
				st.EXPECT().UpsertProfile(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, p *storageinterface.UpsertProfileParams) error {
						assert.Equal(t, "u1", p.ID)
						assert.Equal(t, "Alice", *p.FullName)
						assert.Equal(t, 25, *p.Age)
						return nil
					},
				)
				st.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)
				st.EXPECT().CreateConfirmation(gomock.Any(), gomock.Any(), "u1", gomock.Any()).Return(nil)
				m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("best effort"))
			}

			session, err := s.SignUp(ctx, &tc.params)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err), err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "u1", session.AccountID)
			require.NotEmpty(t, session.Token)
			require.True(t, session.ExpiresAt.After(time.Date(2024, 7, 30, 0, 0, 0, 0, time.UTC)))
		})
	}
}

func TestSrv_SignIn(t *testing.T) {
	hash, err := hashPassword("Password1", testArgon2Params)
	require.NoError(t, err)

	s, st, _, _ := newTestService(t, DefaultConfig)

	account := &storageinterface.Account{Account: entities.Account{ID: "u1"}, PasswordHash: hash}
	st.EXPECT().GetAccountByEmail(gomock.Any(), "a@b.co").Return(account, nil).Times(2)
	st.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)

	_, err = s.SignIn(ctx, "a@b.co", "wrong")
	require.True(t, errors.Is(err, identity.ErrInvalidCredentials))

	session, err := s.SignIn(ctx, " A@B.CO", "Password1")
	require.NoError(t, err)
	require.Equal(t, "u1", session.AccountID)
}

func TestSrv_SignIn_RateLimited(t *testing.T) {
	cfg := DefaultConfig
	cfg.SignInAttempts = 2

	s, st, _, c := newTestService(t, cfg)

	st.EXPECT().GetAccountByEmail(gomock.Any(), "a@b.co").Return(nil, storageinterface.ErrNotFound).Times(3)

	for i := 0; i < 2; i++ {
		_, err := s.SignIn(ctx, "a@b.co", "Password1")
		require.True(t, errors.Is(err, identity.ErrInvalidCredentials))
	}

	_, err := s.SignIn(ctx, "a@b.co", "Password1")
	require.True(t, errors.Is(err, identity.ErrRateLimited))

	c.Add(cfg.SignInWindow)
	_, err = s.SignIn(ctx, "a@b.co", "Password1")
	require.True(t, errors.Is(err, identity.ErrInvalidCredentials))
}

func TestSrv_CurrentAccount(t *testing.T) {
	s, st, _, c := newTestService(t, DefaultConfig)

	_, err := s.CurrentAccount(ctx)
	require.Equal(t, identity.ErrUnauthorized, err)

	tctx := identity.WithToken(ctx, "t1")

	st.EXPECT().GetSession(gomock.Any(), "t1").Return(&entities.Session{
		Token:     "t1",
		AccountID: "u1",
		ExpiresAt: c.Now().Add(time.Hour),
	}, nil).Times(2)
	st.EXPECT().GetAccount(gomock.Any(), "u1").Return(&entities.Account{ID: "u1"}, nil)

	a, err := s.CurrentAccount(tctx)
	require.NoError(t, err)
	require.Equal(t, "u1", a.ID)

	c.Add(time.Hour)
	_, err = s.CurrentAccount(tctx)
	require.Equal(t, identity.ErrUnauthorized, err)
}

func TestSrv_SignOut(t *testing.T) {
	s, st, _, _ := newTestService(t, DefaultConfig)

	require.Equal(t, identity.ErrUnauthorized, s.SignOut(ctx))

	gomock.InOrder(
		st.EXPECT().RevokeSession(gomock.Any(), "t1", gomock.Any()).Return(nil),
		st.EXPECT().RevokeSession(gomock.Any(), "t1", gomock.Any()).Return(storageinterface.ErrNotFound),
	)

	require.NoError(t, s.SignOut(identity.WithToken(ctx, "t1")))
	require.Equal(t, identity.ErrUnauthorized, s.SignOut(identity.WithToken(ctx, "t1")))
}

func TestSrv_Confirm(t *testing.T) {
	s, st, _, _ := newTestService(t, DefaultConfig)

	gomock.InOrder(
		st.EXPECT().ConfirmAccount(gomock.Any(), "c1", gomock.Any()).Return(&entities.Account{ID: "u1"}, nil),
		st.EXPECT().ConfirmAccount(gomock.Any(), "c1", gomock.Any()).Return(nil, storageinterface.ErrNotFound),
	)

	a, err := s.Confirm(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "u1", a.ID)

	_, err = s.Confirm(ctx, "c1")
	require.Equal(t, identity.ErrInvalidToken, err)
}
