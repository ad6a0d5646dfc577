package users

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Service is the user slice of the application state.
type Service struct {
	store Store
	newID func() string
	mu    sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		newID: uuid.NewString,
	}
}

func (s *Service) AddUser(ctx context.Context, input NewUser) (User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return User{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := User{ID: s.newID(), Name: name}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// RemoveUser deletes the user. Unknown ids are ignored.
func (s *Service) RemoveUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("remove user %s: %w", userID, err)
	}
	return nil
}

func (s *Service) SelectUsers(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return all, nil
}
