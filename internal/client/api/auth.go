package api

import (
	"context"
	"net/http"
	"net/url"
)

// AuthClient talks to the authentication service.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

func (a *AuthClient) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var out LoginResponse
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/v1/login",
		body:     creds,
		out:      &out,
		ok:       []int{http.StatusOK},
		fallback: "Login failed, please try again.",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates token on the server. Unlike the other calls its
// failures are meant to be shown in a confirmation dialog by the caller.
func (a *AuthClient) Logout(ctx context.Context, token string) error {
	return a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/v1/logout",
		token:    token,
		fallback: "Failed to logout.",
	})
}

func (a *AuthClient) Register(ctx context.Context, r RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/v1/register",
		body:     r,
		out:      &out,
		ok:       []int{http.StatusCreated},
		fallback: "Registration failed, please try again.",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) RefreshToken(ctx context.Context, token string) (*TokenResponse, error) {
	var out TokenResponse
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/v1/refresh_token",
		token:    token,
		out:      &out,
		fallback: "Failed to refresh the session.",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Usernames asks the service to send the usernames registered to email.
func (a *AuthClient) Usernames(ctx context.Context, email string) (string, error) {
	var out MessageResponse
	err := a.c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/v1/usernames",
		query:    url.Values{"email": {email}},
		out:      &out,
		fallback: "Failed to retrieve usernames, please try again.",
	})
	return out.Message, err
}

func (a *AuthClient) RequestResetToken(ctx context.Context, username, redirectURL string) (string, error) {
	var out MessageResponse
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/reset_token",
		body: map[string]string{
			"username":                     username,
			"passwordResetPageRedirectURL": redirectURL,
		},
		out:      &out,
		fallback: "Failed to request a password reset, please try again.",
	})
	return out.Message, err
}

func (a *AuthClient) ResetPassword(ctx context.Context, r ResetPasswordRequest) (string, error) {
	var out MessageResponse
	err := a.c.do(ctx, request{
		method:   http.MethodPut,
		path:     "/v1/reset_password",
		body:     r,
		out:      &out,
		fallback: "Failed to reset the password, please try again.",
	})
	return out.Message, err
}

func (a *AuthClient) ResendActivation(ctx context.Context, usernameOrEmail, redirectURL string) (string, error) {
	var out MessageResponse
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/resend_activation",
		body: map[string]string{
			"usernameOrEmail":  usernameOrEmail,
			"loginRedirectURL": redirectURL,
		},
		out:      &out,
		fallback: "Failed to resend the activation link, please try again.",
	})
	return out.Message, err
}
