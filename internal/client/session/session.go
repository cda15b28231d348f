package session

import (
	"context"
	"errors"
	"time"

	"github.com/myreport/reportcycle/internal/client/api"
)

var (
	// ErrNoSession is returned by operations that need a signed-in user.
	ErrNoSession = errors.New("no active session")

	// ErrMissingExpiry is returned by Login when neither the response nor the
	// token carries an expiry.
	ErrMissingExpiry = errors.New("token has no expiry")
)

// Session is the persisted record of a signed-in user. Its JSON form is what
// the storage tiers hold.
type Session struct {
	UserID               int64  `json:"userId"`
	Username             string `json:"username,omitempty"`
	Email                string `json:"email,omitempty"`
	Token                string `json:"token"`
	Exp                  int64  `json:"exp"`
	FirstName            string `json:"firstName,omitempty"`
	MiddleName           string `json:"middleName,omitempty"`
	LastName             string `json:"lastName,omitempty"`
	DisplayName          string `json:"displayName,omitempty"`
	ProfilePictureURL    string `json:"profilePictureUrl,omitempty"`
	ProfilePictureBase64 string `json:"profilePictureBase64,omitempty"`
}

// Valid reports whether the token is still within its lifetime at now.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.Exp > now.Unix()
}

// ExpiresAt returns Exp as a time.
func (s *Session) ExpiresAt() time.Time {
	return time.Unix(s.Exp, 0)
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Tier selects where a session record is persisted.
type Tier int

const (
	Ephemeral Tier = iota
	Durable
)

func (t Tier) String() string {
	if t == Durable {
		return "durable"
	}
	return "ephemeral"
}

// Store is a key/value backend for one tier. Get returns (nil, nil) when the
// key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Authenticator is the part of the auth service the manager calls.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*api.LoginResponse, error)
	RefreshToken(ctx context.Context, token string) (*api.TokenResponse, error)
}

// AvatarFetcher downloads a picture and reports its content type.
type AvatarFetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// Patch lists profile fields to change. Nil fields are left as they are.
type Patch struct {
	FirstName   *string
	MiddleName  *string
	LastName    *string
	DisplayName *string
	Email       *string
}

func (p Patch) apply(s *Session) {
	if p.FirstName != nil {
		s.FirstName = *p.FirstName
	}
	if p.MiddleName != nil {
		s.MiddleName = *p.MiddleName
	}
	if p.LastName != nil {
		s.LastName = *p.LastName
	}
	if p.DisplayName != nil {
		s.DisplayName = *p.DisplayName
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
}
