package users

import (
	"context"
	"slices"
	"sync"
)

type MemoryStore struct {
	mu    sync.RWMutex
	users []User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make([]User, 0)}
}

func (s *MemoryStore) CreateUser(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.users, func(u User) bool { return u.ID == user.ID }) {
		return ErrDuplicateUserID
	}
	s.users = append(s.users, user)
	return nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.users), nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.users)
	s.users = slices.DeleteFunc(s.users, func(u User) bool { return u.ID == userID })
	return len(s.users) != before, nil
}
