package tasks

import (
	"context"
	"slices"
	"sync"
)

type MemoryStore struct {
	mu      sync.RWMutex
	ordered []Task
	index   map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ordered: make([]Task, 0),
		index:   make(map[string]int),
	}
}

func (s *MemoryStore) CreateTask(_ context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[task.ID]; exists {
		return ErrDuplicateTaskID
	}
	s.index[task.ID] = len(s.ordered)
	s.ordered = append(s.ordered, task)
	return nil
}

func (s *MemoryStore) GetTask(_ context.Context, taskID string) (Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[taskID]
	if !ok {
		return Task{}, false, nil
	}
	return s.ordered[i], true, nil
}

func (s *MemoryStore) ListTasks(_ context.Context) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.ordered), nil
}

func (s *MemoryStore) SetCompleted(_ context.Context, taskID string, completed bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[taskID]
	if !ok {
		return false, nil
	}
	s.ordered[i].IsCompleted = completed
	return true, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[taskID]
	if !ok {
		return false, nil
	}
	s.ordered = slices.Delete(s.ordered, i, i+1)
	delete(s.index, taskID)
	for j := i; j < len(s.ordered); j++ {
		s.index[s.ordered[j].ID] = j
	}
	return true, nil
}

// CountByPriority tallies tasks per priority. Priorities with no tasks are
// omitted.
func (s *MemoryStore) CountByPriority(_ context.Context) (map[Priority]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[Priority]int)
	for _, task := range s.ordered {
		counts[task.Priority]++
	}
	return counts, nil
}
