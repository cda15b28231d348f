package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/myreport/reportcycle/internal/common"
	"github.com/myreport/reportcycle/internal/cryptox"
)

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) ([]*User, error)
	UpdatePassword(ctx context.Context, id int64, hash cryptox.PasswordHash) error
}

// MemoryRepository keeps users in process memory. Logins and emails are
// matched case-insensitively.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, byID: make(map[int64]*User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.UserName, user.UserName) {
			return nil, common.ErrorAlreadyExists
		}
	}

	created := *user
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	r.nextID++
	r.byID[created.ID] = &created

	out := created
	return &out, nil
}

// GetUserByLogin finds a user by username or email.
func (r *MemoryRepository) GetUserByLogin(_ context.Context, login string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.UserName, login) || strings.EqualFold(u.Email, login) {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []*User
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			out := *u
			found = append(found, &out)
		}
	}
	return found, nil
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, id int64, hash cryptox.PasswordHash) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Password = hash
	return nil
}
