package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/client/session"
	"github.com/myreport/reportcycle/internal/client/storage"
	"github.com/myreport/reportcycle/internal/client/validate"
	"github.com/myreport/reportcycle/internal/logging"
)

type fakeLogin struct {
	exp int64
}

func (f *fakeLogin) Login(_ context.Context, c api.Credentials) (*api.LoginResponse, error) {
	return &api.LoginResponse{Token: "tok-" + c.UsernameOrEmail, Exp: f.exp, UserID: 42, Email: "j@d.io"}, nil
}

func (f *fakeLogin) RefreshToken(context.Context, string) (*api.TokenResponse, error) {
	return nil, errors.New("not used")
}

type fakeAuthAPI struct {
	logoutErr    error
	logoutTokens []string
	register     *api.RegisterRequest
	redirects    []string
	reset        *api.ResetPasswordRequest
	calls        int
}

func (f *fakeAuthAPI) Logout(_ context.Context, token string) error {
	f.calls++
	f.logoutTokens = append(f.logoutTokens, token)
	return f.logoutErr
}

func (f *fakeAuthAPI) Register(_ context.Context, r api.RegisterRequest) (*api.RegisterResponse, error) {
	f.calls++
	f.register = &r
	return &api.RegisterResponse{UserID: 1, Message: "Check your inbox."}, nil
}

func (f *fakeAuthAPI) Usernames(context.Context, string) (string, error) {
	f.calls++
	return "Usernames sent.", nil
}

func (f *fakeAuthAPI) RequestResetToken(_ context.Context, _ string, redirectURL string) (string, error) {
	f.calls++
	f.redirects = append(f.redirects, redirectURL)
	return "Reset link sent.", nil
}

func (f *fakeAuthAPI) ResetPassword(_ context.Context, r api.ResetPasswordRequest) (string, error) {
	f.calls++
	f.reset = &r
	return "Password changed.", nil
}

func (f *fakeAuthAPI) ResendActivation(_ context.Context, _ string, redirectURL string) (string, error) {
	f.calls++
	f.redirects = append(f.redirects, redirectURL)
	return "Activation sent.", nil
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type env struct {
	clock    time.Time
	sessions *session.Manager
	login    *fakeLogin
	authAPI  *fakeAuthAPI
	auth     *AuthService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{clock: now, login: &fakeLogin{exp: now.Add(time.Hour).Unix()}, authAPI: &fakeAuthAPI{}}
	e.sessions = session.NewManager(session.Options{
		Ephemeral: storage.NewMemoryStore(),
		Durable:   storage.NewMemoryStore(),
		Auth:      e.login,
		Now:       func() time.Time { return e.clock },
	})
	e.auth = NewAuthService(e.authAPI, e.sessions, "https://app.example/", logging.NewNop())
	return e
}

func TestSignIn(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.SignIn(context.Background(), "", "", false)
	var verr validate.Errors
	require.ErrorAs(t, err, &verr)

	s, err := e.auth.SignIn(context.Background(), "jdoe_1", "pw", true)
	require.NoError(t, err)
	assert.Equal(t, "tok-jdoe_1", s.Token)
	tier, ok := e.sessions.Tier()
	assert.True(t, ok)
	assert.Equal(t, session.Durable, tier)
}

func TestSignOut(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.auth.SignOut(context.Background()))
		assert.Zero(t, e.authAPI.calls)
	})

	t.Run("valid session", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.auth.SignIn(context.Background(), "jdoe_1", "pw", false)
		require.NoError(t, err)

		require.NoError(t, e.auth.SignOut(context.Background()))
		assert.Equal(t, []string{"tok-jdoe_1"}, e.authAPI.logoutTokens)
		assert.Nil(t, e.sessions.Current())
	})

	t.Run("expired session skips remote", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.auth.SignIn(context.Background(), "jdoe_1", "pw", false)
		require.NoError(t, err)
		e.clock = now.Add(time.Hour + 10*time.Second)

		require.NoError(t, e.auth.SignOut(context.Background()))
		assert.Empty(t, e.authAPI.logoutTokens)
		assert.Nil(t, e.sessions.Current())
	})

	t.Run("remote failure still clears local session", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.auth.SignIn(context.Background(), "jdoe_1", "pw", true)
		require.NoError(t, err)
		e.authAPI.logoutErr = &api.APIError{Status: 500, Message: "Logout failed."}

		err = e.auth.SignOut(context.Background())
		assert.Equal(t, "Logout failed.", api.Message(err))
		assert.Equal(t, []string{"tok-jdoe_1"}, e.authAPI.logoutTokens)
		assert.Nil(t, e.sessions.Current())
		_, ok := e.sessions.Tier()
		assert.False(t, ok)
	})
}

func TestSignUp(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.SignUp(context.Background(), validate.SignUpForm{Username: "jd", Email: "x", Password: "abc", RepeatPassword: "abc"})
	require.Error(t, err)
	assert.Zero(t, e.authAPI.calls)

	resp, err := e.auth.SignUp(context.Background(), validate.SignUpForm{
		Username: "jdoe_1", Email: "j@d.io", Password: "Secr3t!pass", RepeatPassword: "Secr3t!pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Check your inbox.", resp.Message)
	assert.Equal(t, "https://app.example/signin", e.authAPI.register.LoginRedirectURL)
}

func TestRecovery(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	msg, err := e.auth.ForgotPassword(ctx, "jdoe_1")
	require.NoError(t, err)
	assert.Equal(t, "Reset link sent.", msg)

	_, err = e.auth.ResendActivation(ctx, " j@d.io ")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example/reset-password", "https://app.example/signin"}, e.authAPI.redirects)

	_, err = e.auth.ForgotUsername(ctx, "nope")
	assert.Error(t, err)

	_, err = e.auth.ResetPassword(ctx, "jdoe_1", "t0k", "blob", "Secr3t!pass", "Secr3t!pass")
	require.NoError(t, err)
	assert.Equal(t, api.ResetPasswordRequest{Username: "jdoe_1", Token: "t0k", Data: "blob", Password: "Secr3t!pass"}, *e.authAPI.reset)

	_, err = e.auth.ResetPassword(ctx, "jdoe_1", "t0k", "blob", "weak", "weak")
	assert.Error(t, err)
}

type fakeCore struct {
	page    api.UserDetailsPage
	created *api.UserDetails
	updated *api.UserDetails
}

func (f *fakeCore) UserDetails(context.Context, string, int64, int, int) (*api.UserDetailsPage, error) {
	return &f.page, nil
}

func (f *fakeCore) CreateUserDetails(_ context.Context, _ string, d api.UserDetails) (*api.UserDetails, error) {
	f.created = &d
	d.Creator = d.UserID
	return &d, nil
}

func (f *fakeCore) UpdateUserDetails(_ context.Context, _ string, _ int64, d api.UserDetails) (*api.UserDetails, error) {
	f.updated = &d
	return &d, nil
}

func (f *fakeCore) GenderTypes(context.Context) ([]api.GenderType, error) {
	return []api.GenderType{{GenderID: 1, GenderName: "Female", SortOrder: 1}}, nil
}

type fakeResolver struct {
	res map[string][]string
	err error
}

func (f *fakeResolver) AccessURLs(context.Context, string, int, []string) (map[string][]string, error) {
	return f.res, f.err
}

func TestProfile_LoadAndSave(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.SignIn(context.Background(), "jdoe_1", "pw", false)
	require.NoError(t, err)

	core := &fakeCore{}
	p := NewProfileService(core, &fakeResolver{}, e.sessions, logging.NewNop())

	d, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, d.Exists())
	assert.Equal(t, int64(42), d.UserID)

	d.DisplayName = "Jane D"
	d.ProfilePictureURL = "https://cdn.example/me-lg.png"
	saved, err := p.Save(context.Background(), d)
	require.NoError(t, err)
	assert.NotNil(t, core.created)
	assert.Nil(t, core.updated)
	assert.True(t, saved.Exists())

	cur := e.sessions.Current()
	assert.Equal(t, "Jane D", cur.DisplayName)
	assert.Equal(t, "https://cdn.example/me-lg.png", cur.ProfilePictureURL)

	_, err = p.Save(context.Background(), *saved)
	require.NoError(t, err)
	assert.NotNil(t, core.updated)
}

func TestProfile_NoSession(t *testing.T) {
	e := newEnv(t)
	p := NewProfileService(&fakeCore{}, &fakeResolver{}, e.sessions, logging.NewNop())
	_, err := p.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestProfile_SetPictureFromUpload(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.SignIn(context.Background(), "jdoe_1", "pw", false)
	require.NoError(t, err)

	obj := "https://reports.s3.eu-west-2.amazonaws.com/GB/d3/u42/me.png"
	resolver := &fakeResolver{res: map[string][]string{obj: {"https://cdn/me-xs.png", "https://cdn/me-xl.png", "https://cdn/me-org.png"}}}
	p := NewProfileService(&fakeCore{}, resolver, e.sessions, logging.NewNop())

	assert.Equal(t, "https://cdn/me-xl.png", p.SetPictureFromUpload(context.Background(), obj))

	resolver.err = errors.New("down")
	assert.Equal(t, obj, p.SetPictureFromUpload(context.Background(), obj))
	assert.Equal(t, "https://example.com/x.png", p.SetPictureFromUpload(context.Background(), "https://example.com/x.png"))
}
