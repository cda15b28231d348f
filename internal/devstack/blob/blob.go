// Package blob stores uploaded objects for the devstack file service and
// hands out time-limited read URLs for them.
package blob

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("object not found")

// Store keeps objects by key.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	// PresignGet returns a URL that reads key until ttl elapses.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Object is a stored blob.
type Object struct {
	ContentType string
	Data        []byte
	Modified    time.Time
}
