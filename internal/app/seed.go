package app

import (
	"context"

	"taskmaster/internal/tasks"
	"taskmaster/internal/users"
)

var seedTasks = []tasks.NewTask{
	{
		Title:       "Initialize frontend",
		Description: "Create homepage and routing",
		DueDate:     "2025-11",
		Priority:    tasks.PriorityHigh,
	},
}

var seedUsers = []users.NewUser{
	{Name: "Ivor"},
	{Name: "Logan"},
}

// Seed loads the demo task and users.
func Seed(ctx context.Context, store *Store) error {
	for _, input := range seedTasks {
		if _, err := store.Tasks.AddTask(ctx, input); err != nil {
			return err
		}
	}
	for _, input := range seedUsers {
		if _, err := store.Users.AddUser(ctx, input); err != nil {
			return err
		}
	}
	return nil
}
