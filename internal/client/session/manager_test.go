package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/client/storage"
	"github.com/myreport/reportcycle/internal/common"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeAuth struct {
	resp       *api.LoginResponse
	err        error
	refresh    *api.TokenResponse
	loginCalls int
}

func (f *fakeAuth) Login(_ context.Context, _ api.Credentials) (*api.LoginResponse, error) {
	f.loginCalls++
	if f.err != nil {
		return nil, f.err
	}
	r := *f.resp
	return &r, nil
}

func (f *fakeAuth) RefreshToken(_ context.Context, _ string) (*api.TokenResponse, error) {
	if f.refresh == nil {
		return nil, &api.APIError{Status: 401, Message: "expired"}
	}
	return f.refresh, nil
}

type fakeAvatars struct {
	urls []string
	err  error
}

func (f *fakeAvatars) Fetch(_ context.Context, url string) ([]byte, string, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte{0xff, 0xd8, 0xff}, "image/jpeg", nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type fixture struct {
	mgr       *Manager
	ephemeral *storage.MemoryStore
	durable   *storage.MemoryStore
	auth      *fakeAuth
	avatars   *fakeAvatars
	clock     *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ephemeral: storage.NewMemoryStore(),
		durable:   storage.NewMemoryStore(),
		auth: &fakeAuth{resp: &api.LoginResponse{
			Token:    "tok",
			Exp:      t0.Add(time.Hour).Unix(),
			UserID:   42,
			Username: "jdoe_1",
		}},
		avatars: &fakeAvatars{},
		clock:   &clock{now: t0},
	}
	f.mgr = NewManager(Options{
		Ephemeral:  f.ephemeral,
		Durable:    f.durable,
		Auth:       f.auth,
		Avatars:    f.avatars,
		AppBaseURL: "https://app.example/",
		Now:        f.clock.Now,
	})
	return f
}

func put(t *testing.T, s Store, sess Session) {
	t.Helper()
	raw, err := json.Marshal(sess)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), common.SessionKey, raw))
}

func stored(t *testing.T, s Store) *Session {
	t.Helper()
	raw, err := s.Get(context.Background(), common.SessionKey)
	require.NoError(t, err)
	if raw == nil {
		return nil
	}
	var out Session
	require.NoError(t, json.Unmarshal(raw, &out))
	return &out
}

func TestInitialize_NoSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mgr.Initialize(context.Background()))
	assert.Nil(t, f.mgr.Current())
	assert.False(t, f.mgr.Active())
}

func TestInitialize_ExpiredClearsBothTiers(t *testing.T) {
	f := newFixture(t)
	put(t, f.durable, Session{UserID: 1, Token: "old", Exp: t0.Add(-time.Minute).Unix()})
	put(t, f.ephemeral, Session{UserID: 1, Token: "old", Exp: t0.Add(-time.Minute).Unix()})

	require.NoError(t, f.mgr.Initialize(context.Background()))

	assert.Nil(t, f.mgr.Current())
	assert.Nil(t, stored(t, f.ephemeral))
	assert.Nil(t, stored(t, f.durable))
}

func TestInitialize_MissingExpIsExpired(t *testing.T) {
	f := newFixture(t)
	put(t, f.durable, Session{UserID: 1, Token: "tok"})

	require.NoError(t, f.mgr.Initialize(context.Background()))
	assert.Nil(t, f.mgr.Current())
	assert.Nil(t, stored(t, f.durable))
}

func TestInitialize_CorruptEnvelope(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ephemeral.Set(context.Background(), common.SessionKey, []byte("{not json")))

	require.NoError(t, f.mgr.Initialize(context.Background()))
	assert.Nil(t, f.mgr.Current())
	assert.Nil(t, stored(t, f.ephemeral))
}

func TestInitialize_EphemeralWins(t *testing.T) {
	f := newFixture(t)
	put(t, f.durable, Session{UserID: 1, Token: "durable", Exp: t0.Add(time.Hour).Unix()})
	put(t, f.ephemeral, Session{UserID: 2, Token: "ephemeral", Exp: t0.Add(time.Hour).Unix()})

	require.NoError(t, f.mgr.Initialize(context.Background()))

	cur := f.mgr.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "ephemeral", cur.Token)
	tier, ok := f.mgr.Tier()
	assert.True(t, ok)
	assert.Equal(t, Ephemeral, tier)
}

func TestInitialize_FallsBackToDurable(t *testing.T) {
	f := newFixture(t)
	put(t, f.durable, Session{UserID: 1, Token: "durable", Exp: t0.Add(time.Hour).Unix()})

	require.NoError(t, f.mgr.Initialize(context.Background()))
	require.NotNil(t, f.mgr.Current())
	assert.Equal(t, "durable", f.mgr.Current().Token)
	assert.True(t, f.mgr.Active())
}

func TestLogin_TierSelection(t *testing.T) {
	tests := []struct {
		name     string
		remember bool
	}{
		{name: "remember", remember: true},
		{name: "session only", remember: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.mgr.Login(context.Background(), api.Credentials{UsernameOrEmail: "jdoe_1", Password: "x"}, tt.remember)
			require.NoError(t, err)

			if tt.remember {
				assert.NotNil(t, stored(t, f.durable))
				assert.Nil(t, stored(t, f.ephemeral))
			} else {
				assert.NotNil(t, stored(t, f.ephemeral))
				assert.Nil(t, stored(t, f.durable))
			}
		})
	}
}

func TestLogin_ClearsOtherTier(t *testing.T) {
	f := newFixture(t)
	put(t, f.durable, Session{UserID: 7, Token: "stale", Exp: t0.Add(time.Hour).Unix()})

	_, err := f.mgr.Login(context.Background(), api.Credentials{}, false)
	require.NoError(t, err)

	assert.Nil(t, stored(t, f.durable))
	assert.Equal(t, "tok", stored(t, f.ephemeral).Token)
}

func TestLogin_DefaultAvatarInlined(t *testing.T) {
	f := newFixture(t)
	s, err := f.mgr.Login(context.Background(), api.Credentials{}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://app.example/images/avatar.jpg"}, f.avatars.urls)
	assert.True(t, strings.HasPrefix(s.ProfilePictureBase64, "data:image/jpeg;base64,"))
	assert.Greater(t, len(s.ProfilePictureBase64), len("data:image/jpeg;base64,"))
	assert.True(t, s.Valid(t0))
	assert.Equal(t, s.ProfilePictureBase64, stored(t, f.durable).ProfilePictureBase64)
}

func TestLogin_PictureFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.avatars.err = errors.New("boom")
	f.auth.resp.ProfilePictureURL = "https://cdn.example/me.png"

	s, err := f.mgr.Login(context.Background(), api.Credentials{}, false)
	require.NoError(t, err)
	assert.Empty(t, s.ProfilePictureBase64)
	assert.Equal(t, []string{"https://cdn.example/me.png"}, f.avatars.urls)
}

func TestLogin_ExpiryFromToken(t *testing.T) {
	f := newFixture(t)
	exp := t0.Add(2 * time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix(), "sub": "42"}).SignedString([]byte("k"))
	require.NoError(t, err)
	f.auth.resp.Token = tok
	f.auth.resp.Exp = 0

	s, err := f.mgr.Login(context.Background(), api.Credentials{}, false)
	require.NoError(t, err)
	assert.Equal(t, exp.Unix(), s.Exp)
}

func TestLogin_ErrorLeavesPreviousSession(t *testing.T) {
	f := newFixture(t)
	put(t, f.ephemeral, Session{UserID: 1, Token: "prev", Exp: t0.Add(time.Hour).Unix()})
	require.NoError(t, f.mgr.Initialize(context.Background()))

	f.auth.err = &api.APIError{Status: 401, Message: "Invalid credentials"}
	_, err := f.mgr.Login(context.Background(), api.Credentials{}, false)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, 1, f.auth.loginCalls)
	assert.Equal(t, "prev", f.mgr.Current().Token)
	assert.Equal(t, "prev", stored(t, f.ephemeral).Token)
}

func TestLogout(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		f := newFixture(t)
		ok, err := f.mgr.Logout(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, stored(t, f.durable))
		assert.Nil(t, stored(t, f.ephemeral))
	})

	t.Run("valid session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.mgr.Login(context.Background(), api.Credentials{}, true)
		require.NoError(t, err)

		ok, err := f.mgr.Logout(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Nil(t, f.mgr.Current())
		assert.Nil(t, stored(t, f.durable))
		assert.Nil(t, stored(t, f.ephemeral))

		ok, err = f.mgr.Logout(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired in memory", func(t *testing.T) {
		f := newFixture(t)
		f.auth.resp.Exp = t0.Add(time.Minute).Unix()
		_, err := f.mgr.Login(context.Background(), api.Credentials{}, false)
		require.NoError(t, err)

		f.clock.now = t0.Add(time.Minute + 10*time.Second)
		ok, err := f.mgr.Logout(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, stored(t, f.ephemeral))
	})
}

func TestUpdateProfile_WritesHoldingTier(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Login(context.Background(), api.Credentials{}, true)
	require.NoError(t, err)

	first, display := "Jane", "JD"
	require.NoError(t, f.mgr.UpdateProfile(context.Background(), Patch{FirstName: &first, DisplayName: &display}))

	got := stored(t, f.durable)
	require.NotNil(t, got)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "JD", got.DisplayName)
	assert.Equal(t, "jdoe_1", got.Username)
	assert.Nil(t, stored(t, f.ephemeral))
	assert.Equal(t, "Jane", f.mgr.Current().FirstName)
}

func TestUpdateDisplayName_NoSession(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.mgr.UpdateDisplayName(context.Background(), "x"), ErrNoSession)
	assert.ErrorIs(t, f.mgr.UpdateProfilePicture(context.Background(), "x"), ErrNoSession)
	assert.ErrorIs(t, f.mgr.Refresh(context.Background()), ErrNoSession)
}

func TestUpdateProfilePicture(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Login(context.Background(), api.Credentials{}, false)
	require.NoError(t, err)

	require.NoError(t, f.mgr.UpdateProfilePicture(context.Background(), "https://cdn.example/new-lg.png"))

	cur := f.mgr.Current()
	assert.Equal(t, "https://cdn.example/new-lg.png", cur.ProfilePictureURL)
	assert.NotEmpty(t, cur.ProfilePictureBase64)
	assert.Equal(t, "https://cdn.example/new-lg.png", f.avatars.urls[len(f.avatars.urls)-1])
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Login(context.Background(), api.Credentials{}, false)
	require.NoError(t, err)

	f.auth.refresh = &api.TokenResponse{Token: "fresh", Exp: t0.Add(3 * time.Hour).Unix(), UserID: 42}
	require.NoError(t, f.mgr.Refresh(context.Background()))

	assert.Equal(t, "fresh", f.mgr.Current().Token)
	assert.Equal(t, "fresh", stored(t, f.ephemeral).Token)
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Login(context.Background(), api.Credentials{}, false)
	require.NoError(t, err)

	c := f.mgr.Current()
	c.Token = "mutated"
	assert.Equal(t, "tok", f.mgr.Current().Token)
}

func TestTokenExpiry(t *testing.T) {
	_, err := TokenExpiry("not-a-jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = TokenExpiry(tok)
	assert.ErrorIs(t, err, ErrMissingExpiry)
}
