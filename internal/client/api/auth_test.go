package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myreport/reportcycle/internal/logging"
)

func newTestAuth(t *testing.T, h http.HandlerFunc) *AuthClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAuthClient(NewClient(srv.URL, srv.Client(), logging.NewNop()))
}

func TestAuthClient_Login(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/login", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "Secret#123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid username or password."}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok","exp":1900000000,"userId":7,"displayName":"Ann"}`))
	})

	resp, err := auth.Login(context.Background(), Credentials{UsernameOrEmail: "ann_smith", Password: "Secret#123"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.EqualValues(t, 1900000000, resp.Exp)
	assert.EqualValues(t, 7, resp.UserID)
	assert.Equal(t, "Ann", resp.DisplayName)

	_, err = auth.Login(context.Background(), Credentials{UsernameOrEmail: "ann_smith", Password: "bad"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid username or password.", Message(err))
}

func TestAuthClient_LoginFallbackMessage(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`oops`))
	})

	_, err := auth.Login(context.Background(), Credentials{})
	assert.Equal(t, "Login failed, please try again.", Message(err))
}

func TestAuthClient_LogoutSendsBearer(t *testing.T) {
	var gotAuth string
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, auth.Logout(context.Background(), "tok"))
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestAuthClient_Register(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://app.example/signin", req.LoginRedirectURL)
		if req.Username == "taken_name" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"errors":[{"msg":"Username already exists"},{"msg":"Email already exists"}]}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"userId":12,"message":"Check your inbox."}`))
	})

	resp, err := auth.Register(context.Background(), RegisterRequest{Username: "new_name", LoginRedirectURL: "https://app.example/signin"})
	require.NoError(t, err)
	assert.EqualValues(t, 12, resp.UserID)

	_, err = auth.Register(context.Background(), RegisterRequest{Username: "taken_name", LoginRedirectURL: "https://app.example/signin"})
	assert.Equal(t, "1. Username already exists\n2. Email already exists", Message(err))
}

func TestAuthClient_Usernames(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ann@example.com", r.URL.Query().Get("email"))
		_, _ = w.Write([]byte(`{"message":"Usernames sent to your email."}`))
	})

	msg, err := auth.Usernames(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Usernames sent to your email.", msg)
}

func TestAuthClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	auth := NewAuthClient(NewClient(srv.URL, nil, logging.NewNop()))

	_, err := auth.RefreshToken(context.Background(), "tok")
	require.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, NetworkMessage, Message(err))
}
