package services

import (
	"context"
	"errors"
	"strings"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/client/session"
	"github.com/myreport/reportcycle/internal/client/validate"
	"github.com/myreport/reportcycle/internal/logging"
)

const (
	SignInPath        = "/signin"
	ResetPasswordPath = "/reset-password"
)

// AuthAPI is the part of the auth service used outside of the session
// manager.
type AuthAPI interface {
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, r api.RegisterRequest) (*api.RegisterResponse, error)
	Usernames(ctx context.Context, email string) (string, error)
	RequestResetToken(ctx context.Context, username, redirectURL string) (string, error)
	ResetPassword(ctx context.Context, r api.ResetPasswordRequest) (string, error)
	ResendActivation(ctx context.Context, usernameOrEmail, redirectURL string) (string, error)
}

// Sessions is the session manager as seen by the services.
type Sessions interface {
	Login(ctx context.Context, creds api.Credentials, remember bool) (*session.Session, error)
	Logout(ctx context.Context) (bool, error)
	Current() *session.Session
	Active() bool
	UpdateProfile(ctx context.Context, p session.Patch) error
	UpdateProfilePicture(ctx context.Context, url string) error
}

type AuthService struct {
	api        AuthAPI
	sessions   Sessions
	appBaseURL string
	logger     logging.Logger
}

func NewAuthService(a AuthAPI, s Sessions, appBaseURL string, logger logging.Logger) *AuthService {
	return &AuthService{
		api:        a,
		sessions:   s,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		logger:     logger,
	}
}

func (s *AuthService) SignIn(ctx context.Context, usernameOrEmail, password string, remember bool) (*session.Session, error) {
	if strings.TrimSpace(usernameOrEmail) == "" || password == "" {
		return nil, validate.Errors{"Please enter your username or email and password."}
	}
	return s.sessions.Login(ctx, api.Credentials{UsernameOrEmail: usernameOrEmail, Password: password}, remember)
}

// SignOut ends the session remotely, then locally. An expired session is
// only dropped locally. The local session is cleared even when the remote
// call fails; that failure is still returned.
func (s *AuthService) SignOut(ctx context.Context) error {
	cur := s.sessions.Current()
	if cur == nil {
		return nil
	}
	var remoteErr error
	if s.sessions.Active() {
		if remoteErr = s.api.Logout(ctx, cur.Token); remoteErr != nil {
			s.logger.Warn(ctx, "remote logout failed", "user_id", cur.UserID, "error", remoteErr)
		}
	}
	if _, err := s.sessions.Logout(ctx); err != nil {
		return errors.Join(remoteErr, err)
	}
	return remoteErr
}

func (s *AuthService) SignUp(ctx context.Context, f validate.SignUpForm) (*api.RegisterResponse, error) {
	if err := validate.SignUp(f).Err(); err != nil {
		return nil, err
	}
	return s.api.Register(ctx, api.RegisterRequest{
		Username:         f.Username,
		Email:            f.Email,
		Password:         f.Password,
		LoginRedirectURL: s.appBaseURL + SignInPath,
	})
}

func (s *AuthService) ForgotUsername(ctx context.Context, email string) (string, error) {
	if err := validate.ForgotUsername(email).Err(); err != nil {
		return "", err
	}
	return s.api.Usernames(ctx, email)
}

func (s *AuthService) ForgotPassword(ctx context.Context, username string) (string, error) {
	if err := validate.ForgotPassword(username).Err(); err != nil {
		return "", err
	}
	return s.api.RequestResetToken(ctx, username, s.appBaseURL+ResetPasswordPath)
}

// ResetPassword completes a reset started by ForgotPassword. username, token
// and data come from the reset link.
func (s *AuthService) ResetPassword(ctx context.Context, username, token, data, password, repeat string) (string, error) {
	if err := validate.ResetPassword(username, token, password, repeat).Err(); err != nil {
		return "", err
	}
	return s.api.ResetPassword(ctx, api.ResetPasswordRequest{
		Username: username,
		Token:    token,
		Data:     data,
		Password: password,
	})
}

func (s *AuthService) ResendActivation(ctx context.Context, usernameOrEmail string) (string, error) {
	if err := validate.ResendActivation(usernameOrEmail).Err(); err != nil {
		return "", err
	}
	return s.api.ResendActivation(ctx, strings.TrimSpace(usernameOrEmail), s.appBaseURL+SignInPath)
}
