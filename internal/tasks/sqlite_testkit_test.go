package tasks

import (
	"context"
	"testing"
)

type sqliteTestHarness struct {
	Ctx     context.Context
	Store   *SQLiteStore
	Service *Service
}

func newSQLiteTestHarness(t *testing.T) *sqliteTestHarness {
	t.Helper()

	store, err := NewSQLiteStore()
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &sqliteTestHarness{
		Ctx:     context.Background(),
		Store:   store,
		Service: NewService(store),
	}
}

type storeFactory struct {
	name string
	open func(t *testing.T) Store
}

func storeFactories() []storeFactory {
	return []storeFactory{
		{
			name: "memory",
			open: func(_ *testing.T) Store { return NewMemoryStore() },
		},
		{
			name: "sqlite",
			open: func(t *testing.T) Store { return newSQLiteTestHarness(t).Store },
		},
	}
}
