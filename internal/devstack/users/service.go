// Package users runs the devstack account service: registration, login,
// token refresh and revocation, and username/password recovery.
package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/myreport/reportcycle/internal/client/validate"
	"github.com/myreport/reportcycle/internal/common"
	"github.com/myreport/reportcycle/internal/cryptox"
	"github.com/myreport/reportcycle/internal/devstack/auth"
	"github.com/myreport/reportcycle/internal/devstack/config"
	"github.com/myreport/reportcycle/internal/logging"
)

const resetTokenValidity = time.Hour

// Token is an issued session token.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
	now                         func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
	resets  map[int64]resetToken
}

func NewService(repo Repository, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		logger:                      logger.With("module", "users"),
		now:                         time.Now,
		revoked:                     make(map[string]time.Time),
		resets:                      make(map[int64]resetToken),
	}
}

// Register creates an account. Input that breaks the account rules comes
// back as validate.Errors.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	var errs validate.Errors
	errs = append(errs, validate.Username(username)...)
	errs = append(errs, validate.Email(email)...)
	errs = append(errs, validate.Password(password, password)...)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, &User{UserName: username, Email: email, Password: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.UserName)
	return user, nil
}

func (s *Service) generateAccessToken(user *User) (*Token, error) {
	value, exp, err := auth.GenerateToken(user.ID, user.UserName, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &Token{Value: value, ExpiresAt: exp}, nil
}

// Login checks credentials given as username or email. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, login, password string) (*User, *Token, error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorInvalidLoginPassword
		}
		return nil, nil, common.ErrorInternal
	}

	if !user.Password.Verify(password) {
		return nil, nil, common.ErrorInvalidLoginPassword
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}
	return user, token, nil
}

// Authorize verifies a session token and rejects revoked ones.
func (s *Service) Authorize(_ context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) revoke(claims *auth.Claims) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = claims.ExpiresAt.Time
}

// Refresh swaps a valid token for a new one. The old token stops working.
func (s *Service) Refresh(ctx context.Context, claims *auth.Claims) (*Token, error) {
	token, err := s.generateAccessToken(&User{ID: claims.UserID, UserName: claims.Username})
	if err != nil {
		return nil, common.ErrorInternal
	}
	s.revoke(claims)
	s.logger.Debug(ctx, "token refreshed", "user_id", claims.UserID)
	return token, nil
}

func (s *Service) Logout(ctx context.Context, claims *auth.Claims) {
	s.revoke(claims)
	s.logger.Info(ctx, "user logged out", "user_id", claims.UserID)
}

// Usernames lists the usernames registered with email.
func (s *Service) Usernames(ctx context.Context, email string) ([]string, error) {
	found, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(found))
	for _, u := range found {
		names = append(names, u.UserName)
	}
	return names, nil
}

// RequestReset issues a one-hour password reset token for username. The
// devstack has no mail delivery, so the token is logged.
func (s *Service) RequestReset(ctx context.Context, username string) (string, error) {
	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		return "", err
	}

	token, err := common.MakeRandHexString(16)
	if err != nil {
		return "", common.ErrorInternal
	}

	s.mu.Lock()
	s.resets[user.ID] = resetToken{token: token, expiresAt: s.now().Add(resetTokenValidity)}
	s.mu.Unlock()

	s.logger.Info(ctx, "password reset requested", "username", user.UserName, "token", token)
	return token, nil
}

// ResetPassword sets a new password when token matches the pending reset.
// A token works once.
func (s *Service) ResetPassword(ctx context.Context, username, token, password string) error {
	if err := validate.Password(password, password).Err(); err != nil {
		return err
	}

	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		return common.ErrInvalidToken
	}

	s.mu.Lock()
	pending, ok := s.resets[user.ID]
	valid := ok && s.now().Before(pending.expiresAt) &&
		subtle.ConstantTimeCompare([]byte(pending.token), []byte(token)) == 1
	if valid {
		delete(s.resets, user.ID)
	}
	s.mu.Unlock()
	if !valid {
		return common.ErrInvalidToken
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.logger.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// Exists reports whether login names a registered user.
func (s *Service) Exists(ctx context.Context, login string) bool {
	_, err := s.repo.GetUserByLogin(ctx, login)
	return err == nil
}
