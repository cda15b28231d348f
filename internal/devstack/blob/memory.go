package blob

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/myreport/reportcycle/internal/devstack/auth"
)

// ObjectsPath is where the devstack serves MemoryStore objects.
const ObjectsPath = "/objects/"

// MemoryStore keeps objects in process memory. Its presigned URLs point
// back at the devstack itself and carry a signed object token.
type MemoryStore struct {
	mu        sync.RWMutex
	objects   map[string]Object
	baseURL   string
	secretKey []byte
}

func NewMemoryStore(baseURL string, secretKey []byte) *MemoryStore {
	return &MemoryStore{
		objects:   make(map[string]Object),
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
	}
}

func (m *MemoryStore) Put(_ context.Context, key, contentType string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{ContentType: contentType, Data: buf, Modified: time.Now()}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

func (m *MemoryStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	token, err := auth.GenerateObjectToken(key, m.secretKey, ttl)
	if err != nil {
		return "", err
	}
	return m.baseURL + ObjectsPath + key + "?" + url.Values{"token": {token}}.Encode(), nil
}

// Open checks a presigned token against key and returns the object.
func (m *MemoryStore) Open(ctx context.Context, key, token string) (Object, error) {
	granted, err := auth.ParseObjectToken(token, m.secretKey)
	if err != nil {
		return Object{}, err
	}
	if granted != key {
		return Object{}, ErrNotFound
	}
	return m.Get(ctx, key)
}
