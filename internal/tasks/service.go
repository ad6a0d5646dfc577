package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Service is the task slice of the application state: the task collection
// behind a Store plus the current priority filter. Operations are applied
// one at a time in call order.
type Service struct {
	store  Store
	newID  func() string
	mu     sync.Mutex
	filter Filter
}

func NewService(store Store) *Service {
	return &Service{
		store:  store,
		newID:  uuid.NewString,
		filter: FilterAll,
	}
}

func (s *Service) AddTask(ctx context.Context, input NewTask) (Task, error) {
	priority, err := ParsePriority(string(input.Priority))
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := Task{
		ID:          s.newID(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		IsCompleted: false,
		Priority:    priority,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// ToggleCompleteState flips IsCompleted on the task. Unknown ids are
// ignored.
func (s *Service) ToggleCompleteState(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, found, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("load task %s: %w", taskID, err)
	}
	if !found {
		return nil
	}
	if _, err := s.store.SetCompleted(ctx, taskID, !task.IsCompleted); err != nil {
		return fmt.Errorf("toggle task %s: %w", taskID, err)
	}
	return nil
}

// DeleteTask removes the task. Deleting an unknown id is a no-op.
func (s *Service) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	return nil
}

// UpdateFilter replaces the current filter. Values outside the enum are
// rejected and leave the filter unchanged.
func (s *Service) UpdateFilter(filter Filter) error {
	if !filter.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, string(filter))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = filter
	return nil
}

func (s *Service) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter
}

// SelectTasks returns the tasks passing the current filter in insertion
// order. The slice is a copy.
func (s *Service) SelectTasks(ctx context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if s.filter == FilterAll {
		return all, nil
	}

	result := make([]Task, 0, len(all))
	for _, task := range all {
		if s.filter.Matches(task.Priority) {
			result = append(result, task)
		}
	}
	return result, nil
}

// Summary counts every task regardless of the current filter.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.ListTasks(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list tasks: %w", err)
	}

	var counts map[Priority]int
	if counter, ok := s.store.(PriorityCounter); ok {
		counts, err = counter.CountByPriority(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("count tasks by priority: %w", err)
		}
	} else {
		counts = make(map[Priority]int)
		for _, task := range all {
			counts[task.Priority]++
		}
	}

	summary := Summary{
		Total:      len(all),
		ByPriority: make([]PriorityCount, 0, len(Priorities)),
	}
	for _, task := range all {
		if task.IsCompleted {
			summary.Completed++
		}
	}
	for _, p := range Priorities {
		summary.ByPriority = append(summary.ByPriority, PriorityCount{Priority: p, Count: counts[p]})
	}
	return summary, nil
}
