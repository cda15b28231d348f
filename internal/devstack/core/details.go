package core

import (
	"context"
	"slices"
	"sync"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/common"
)

// DetailsStore keeps one user details record per user.
type DetailsStore struct {
	mu      sync.RWMutex
	records map[int64]api.UserDetails
}

func NewDetailsStore() *DetailsStore {
	return &DetailsStore{records: make(map[int64]api.UserDetails)}
}

// List pages through records ordered by user id. A non-zero userID limits
// the list to that user.
func (s *DetailsStore) List(_ context.Context, userID int64, page, limit int) api.UserDetailsPage {
	s.mu.RLock()
	all := make([]api.UserDetails, 0, len(s.records))
	for id, d := range s.records {
		if userID == 0 || id == userID {
			all = append(all, d)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b api.UserDetails) int {
		switch {
		case a.UserID < b.UserID:
			return -1
		case a.UserID > b.UserID:
			return 1
		}
		return 0
	})

	start := (page - 1) * limit
	if start >= len(all) {
		return api.UserDetailsPage{Data: []api.UserDetails{}}
	}
	end := min(start+limit, len(all))
	return api.UserDetailsPage{Data: all[start:end], HasMore: end < len(all)}
}

// Create stores d as userID's record. Each user has at most one.
func (s *DetailsStore) Create(_ context.Context, userID int64, d api.UserDetails) (api.UserDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; ok {
		return api.UserDetails{}, common.ErrorAlreadyExists
	}
	d.UserID = userID
	d.Creator = userID
	s.records[userID] = d
	return d, nil
}

func (s *DetailsStore) Update(_ context.Context, userID int64, d api.UserDetails) (api.UserDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.records[userID]
	if !ok {
		return api.UserDetails{}, common.ErrorNotFound
	}
	d.UserID = userID
	d.Creator = cur.Creator
	s.records[userID] = d
	return d, nil
}
