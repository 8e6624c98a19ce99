package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/student-registry/internal/model"
)

// MemUserStore is an in-memory UserStore used by tests and local runs
// without a database. It honors the same atomicity contract as the MySQL
// store: bumps and reads on the same user never interleave mid-update.
type MemUserStore struct {
	mu     sync.RWMutex
	nextID uint64
	byID   map[uint64]model.User
	byName map[string]uint64
}

func NewMemUserStore() *MemUserStore {
	return &MemUserStore{
		nextID: 1,
		byID:   make(map[uint64]model.User),
		byName: make(map[string]uint64),
	}
}

func (s *MemUserStore) Create(_ context.Context, username, email, passwordHash string, role model.Role) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[username]; taken {
		return model.User{}, ErrDuplicate
	}
	for _, u := range s.byID {
		if u.Email == email {
			return model.User{}, ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u := model.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		TokenVersion: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.nextID++
	s.byID[u.ID] = u
	s.byName[username] = u.ID
	return u, nil
}

func (s *MemUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[username]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return s.byID[id], nil
}

func (s *MemUserStore) BumpTokenVersion(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.TokenVersion++
	u.UpdatedAt = time.Now().UTC()
	s.byID[id] = u
	return nil
}

// Delete removes a user. Tests use it to simulate a deleted account whose
// tokens are still in circulation.
func (s *MemUserStore) Delete(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		delete(s.byName, u.Username)
		delete(s.byID, id)
	}
}
