package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/common"
	"github.com/myreport/reportcycle/internal/logging"
)

// DefaultAvatarPath is appended to the application base URL when the user
// has no profile picture.
const DefaultAvatarPath = "/images/avatar.jpg"

type Options struct {
	Ephemeral Store
	Durable   Store
	Auth      Authenticator
	Avatars   AvatarFetcher
	// AppBaseURL locates the default avatar.
	AppBaseURL string
	Logger     logging.Logger
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

type Manager struct {
	ephemeral Store
	durable   Store
	auth      Authenticator
	avatars   AvatarFetcher
	avatarURL string
	logger    logging.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current *Session
	tier    Tier
}

func NewManager(opts Options) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		ephemeral: opts.Ephemeral,
		durable:   opts.Durable,
		auth:      opts.Auth,
		avatars:   opts.Avatars,
		avatarURL: strings.TrimRight(opts.AppBaseURL, "/") + DefaultAvatarPath,
		logger:    logger.With("component", "session"),
		now:       now,
	}
}

func (m *Manager) store(t Tier) Store {
	if t == Durable {
		return m.durable
	}
	return m.ephemeral
}

// Initialize loads a persisted session. The ephemeral tier is consulted
// first. An expired or unreadable record leaves no session and both tiers
// cleared. Having no session is not an error.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	for _, t := range []Tier{Ephemeral, Durable} {
		raw, err := m.store(t).Get(ctx, common.SessionKey)
		if err != nil {
			return fmt.Errorf("read %s session: %w", t, err)
		}
		if raw == nil {
			continue
		}

		var s Session
		if err := json.Unmarshal(raw, &s); err != nil {
			m.logger.Warn(ctx, "discarding unreadable session", "tier", t.String(), "error", err)
			return m.clearLocked(ctx)
		}
		if !s.Valid(m.now()) {
			m.logger.Info(ctx, "stored session expired", "tier", t.String(), "user_id", s.UserID)
			return m.clearLocked(ctx)
		}

		m.current = &s
		m.tier = t
		m.logger.Debug(ctx, "session restored", "tier", t.String(), "user_id", s.UserID)
		return nil
	}
	return nil
}

// Login authenticates and persists the new session in the durable tier when
// remember is set, otherwise in the ephemeral tier. The previous session
// stays active until the new record has been persisted.
func (m *Manager) Login(ctx context.Context, creds api.Credentials, remember bool) (*Session, error) {
	resp, err := m.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	s := &Session{
		UserID:            resp.UserID,
		Username:          resp.Username,
		Email:             resp.Email,
		Token:             resp.Token,
		Exp:               resp.Exp,
		FirstName:         resp.FirstName,
		MiddleName:        resp.MiddleName,
		LastName:          resp.LastName,
		DisplayName:       resp.DisplayName,
		ProfilePictureURL: resp.ProfilePictureURL,
	}
	if s.Exp == 0 {
		if s.Exp, err = TokenExpiry(s.Token); err != nil {
			return nil, err
		}
	}
	s.ProfilePictureBase64 = m.inlinePicture(ctx, s.ProfilePictureURL)

	tier := Ephemeral
	if remember {
		tier = Durable
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.clearTiersLocked(ctx); err != nil {
		return nil, err
	}
	if err := m.store(tier).Set(ctx, common.SessionKey, raw); err != nil {
		return nil, fmt.Errorf("write %s session: %w", tier, err)
	}
	m.current = s
	m.tier = tier
	m.logger.Info(ctx, "signed in", "user_id", s.UserID, "tier", tier.String())
	return s.clone(), nil
}

// Logout forgets the session. It reports whether the session was still
// valid, which tells the caller if a remote logout is worth making.
func (m *Manager) Logout(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wasValid := m.current.Valid(m.now())
	return wasValid, m.clearLocked(ctx)
}

// UpdateProfile applies p to the session and persists it in the tier that
// holds the session.
func (m *Manager) UpdateProfile(ctx context.Context, p Patch) error {
	return m.mutate(ctx, p.apply)
}

func (m *Manager) UpdateDisplayName(ctx context.Context, name string) error {
	return m.mutate(ctx, func(s *Session) { s.DisplayName = name })
}

// UpdateProfilePicture records url as the profile picture and refreshes the
// inline copy. An empty url falls back to the default avatar.
func (m *Manager) UpdateProfilePicture(ctx context.Context, url string) error {
	if m.Current() == nil {
		return ErrNoSession
	}
	inline := m.inlinePicture(ctx, url)
	return m.mutate(ctx, func(s *Session) {
		s.ProfilePictureURL = url
		s.ProfilePictureBase64 = inline
	})
}

// Refresh exchanges the current token for a fresh one.
func (m *Manager) Refresh(ctx context.Context) error {
	cur := m.Current()
	if cur == nil {
		return ErrNoSession
	}
	resp, err := m.auth.RefreshToken(ctx, cur.Token)
	if err != nil {
		return err
	}
	exp := resp.Exp
	if exp == 0 {
		if exp, err = TokenExpiry(resp.Token); err != nil {
			return err
		}
	}
	return m.mutate(ctx, func(s *Session) {
		s.Token = resp.Token
		s.Exp = exp
	})
}

// Current returns a copy of the session, or nil.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.clone()
}

// Active reports whether a session exists and has not expired.
func (m *Manager) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Valid(m.now())
}

// Tier reports where the current session is persisted.
func (m *Manager) Tier() (Tier, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tier, m.current != nil
}

func (m *Manager) mutate(ctx context.Context, fn func(*Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoSession
	}
	next := m.current.clone()
	fn(next)

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tier, err := m.holdingTierLocked(ctx)
	if err != nil {
		return err
	}
	if err := m.store(tier).Set(ctx, common.SessionKey, raw); err != nil {
		return fmt.Errorf("write %s session: %w", tier, err)
	}
	m.current = next
	m.tier = tier
	return nil
}

// holdingTierLocked returns the ephemeral tier when it holds the record and
// the durable tier otherwise.
func (m *Manager) holdingTierLocked(ctx context.Context) (Tier, error) {
	raw, err := m.ephemeral.Get(ctx, common.SessionKey)
	if err != nil {
		return Ephemeral, fmt.Errorf("read ephemeral session: %w", err)
	}
	if raw != nil {
		return Ephemeral, nil
	}
	return Durable, nil
}

func (m *Manager) clearLocked(ctx context.Context) error {
	m.current = nil
	m.tier = Ephemeral
	return m.clearTiersLocked(ctx)
}

func (m *Manager) clearTiersLocked(ctx context.Context) error {
	var errs []error
	for _, t := range []Tier{Ephemeral, Durable} {
		if err := m.store(t).Delete(ctx, common.SessionKey); err != nil {
			errs = append(errs, fmt.Errorf("clear %s session: %w", t, err))
		}
	}
	return errors.Join(errs...)
}

// inlinePicture returns url (or the default avatar) as a data URI. A failed
// download yields an empty string.
func (m *Manager) inlinePicture(ctx context.Context, url string) string {
	if m.avatars == nil {
		return ""
	}
	if url == "" {
		url = m.avatarURL
	}
	data, ct, err := m.avatars.Fetch(ctx, url)
	if err != nil {
		m.logger.Warn(ctx, "profile picture unavailable", "url", url, "error", err)
		return ""
	}
	return DataURI(ct, data)
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The client cannot verify it and only needs the expiry for bookkeeping.
func TokenExpiry(token string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if exp == nil {
		return 0, ErrMissingExpiry
	}
	return exp.Unix(), nil
}
