// Package app wires the task, user and counter slices into one explicitly
// constructed Store that the view layer receives by pointer.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"taskmaster/internal/config"
	"taskmaster/internal/counter"
	"taskmaster/internal/tasks"
	"taskmaster/internal/users"
)

type Store struct {
	Tasks   *tasks.Service
	Users   *users.Service
	Counter *counter.Counter

	closers []io.Closer
}

// New builds the slices selected by cfg. The caller owns the result and
// must Close it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	store := &Store{Counter: counter.New()}

	taskStore, err := openTaskStore(cfg.TaskBackend)
	if err != nil {
		return nil, err
	}
	if closer, ok := taskStore.(io.Closer); ok {
		store.closers = append(store.closers, closer)
	}
	store.Tasks = tasks.NewService(taskStore)

	userStore, err := openUserStore(cfg.UserBackend)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if closer, ok := userStore.(io.Closer); ok {
		store.closers = append(store.closers, closer)
	}
	store.Users = users.NewService(userStore)

	if err := store.Tasks.UpdateFilter(cfg.DefaultFilter); err != nil {
		_ = store.Close()
		return nil, err
	}

	if cfg.Seed {
		if err := Seed(ctx, store); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}

	logger.Debug("store ready",
		"task_backend", cfg.TaskBackend,
		"user_backend", cfg.UserBackend,
		"seeded", cfg.Seed,
		"filter", string(cfg.DefaultFilter),
	)
	return store, nil
}

func (s *Store) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func openTaskStore(backend string) (tasks.Store, error) {
	switch backend {
	case config.BackendMemory:
		return tasks.NewMemoryStore(), nil
	case config.BackendSQLite:
		store, err := tasks.NewSQLiteStore()
		if err != nil {
			return nil, fmt.Errorf("open sqlite task store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: task backend %q", config.ErrUnknownBackend, backend)
	}
}

func openUserStore(backend string) (users.Store, error) {
	switch backend {
	case config.BackendMemory:
		return users.NewMemoryStore(), nil
	case config.BackendGorm:
		store, err := users.NewGormStore()
		if err != nil {
			return nil, fmt.Errorf("open gorm user store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: user backend %q", config.ErrUnknownBackend, backend)
	}
}
