// Package auth issues and checks the HS256 tokens handed out by the
// devstack: session tokens, upload policies and object access tokens.
// Each kind carries its own audience so one cannot stand in for another.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/myreport/reportcycle/internal/common"
)

const (
	AudienceSession = "session"
	AudienceUpload  = "upload"
	AudienceObject  = "object"
)

// Claims are the session token claims: the registered ones plus the user.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Username string `json:"username,omitempty"`
}

// PolicyClaims bind an upload grant to one object key, content type and
// size limit. The key travels as the subject.
type PolicyClaims struct {
	jwt.RegisteredClaims
	UserID      int64  `json:"userId"`
	ContentType string `json:"contentType"`
	MaxSize     int64  `json:"maxSize"`
}

func newRegistered(audience, subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(claims jwt.Claims, secretKey []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

func parse(tokenString string, claims jwt.Claims, secretKey []byte, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}
	if !token.Valid {
		return common.ErrInvalidToken
	}
	return nil
}

// GenerateToken issues a session token for the user and returns it with
// its expiry.
func GenerateToken(userID int64, username string, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	claims := Claims{
		RegisteredClaims: newRegistered(AudienceSession, "", time.Now(), validityDuration),
		UserID:           userID,
		Username:         username,
	}
	tokenString, err := sign(claims, secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, claims.ExpiresAt.Time, nil
}

// ParseToken verifies a session token. Expired tokens yield
// common.ErrTokenExpired, everything else common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}
	if err := parse(tokenString, claims, secretKey, AudienceSession); err != nil {
		return nil, err
	}
	return claims, nil
}

// GeneratePolicy signs an upload policy for key.
func GeneratePolicy(key string, userID int64, contentType string, maxSize int64, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	claims := PolicyClaims{
		RegisteredClaims: newRegistered(AudienceUpload, key, time.Now(), validityDuration),
		UserID:           userID,
		ContentType:      contentType,
		MaxSize:          maxSize,
	}
	tokenString, err := sign(claims, secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, claims.ExpiresAt.Time, nil
}

func ParsePolicy(tokenString string, secretKey []byte) (*PolicyClaims, error) {
	claims := &PolicyClaims{}
	if err := parse(tokenString, claims, secretKey, AudienceUpload); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateObjectToken grants read access to one stored object.
func GenerateObjectToken(key string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return sign(newRegistered(AudienceObject, key, time.Now(), validityDuration), secretKey)
}

// ParseObjectToken returns the object key the token grants access to.
func ParseObjectToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := parse(tokenString, claims, secretKey, AudienceObject); err != nil {
		return "", err
	}
	return claims.Subject, nil
}
