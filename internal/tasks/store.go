package tasks

import (
	"context"
	"errors"
)

var (
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidFilter   = errors.New("invalid task filter")
	ErrDuplicateTaskID = errors.New("task id already exists")
)

// Store is the backend behind Service. SetCompleted and DeleteTask report
// whether a task was affected; an unknown id is not an error.
type Store interface {
	CreateTask(ctx context.Context, task Task) error
	GetTask(ctx context.Context, taskID string) (Task, bool, error)
	ListTasks(ctx context.Context) ([]Task, error)
	SetCompleted(ctx context.Context, taskID string, completed bool) (bool, error)
	DeleteTask(ctx context.Context, taskID string) (bool, error)
}
