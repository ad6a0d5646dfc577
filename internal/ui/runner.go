package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskmaster/internal/app"
	"taskmaster/internal/tasks"
	"taskmaster/internal/users"
)

// errUsage marks input mistakes that are reported and then ignored.
var errUsage = errors.New("usage")

const helpText = `commands:
  tasks | users | counter          switch page
  filter <all|low|medium|high>     set the task filter
  add-task <priority> <due> <title...> [| description]
  toggle <n|id>                    flip completion of a listed task
  delete <n|id>                    delete a listed task
  add-user <name...>
  rm-user <n|id>
  inc [amount] | dec               change the counter
  q                                quit
`

// Preview renders the store once without reading commands.
func Preview(ctx context.Context, store *app.Store, out io.Writer) error {
	snapshot, err := TakeSnapshot(ctx, store)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(out, NewModel(snapshot).View()); err != nil {
		return fmt.Errorf("write ui view: %w", err)
	}
	return nil
}

// RunInteractive renders the store, reads one command per line from in and
// applies it before reading the next.
func RunInteractive(ctx context.Context, store *app.Store, in io.Reader, out io.Writer) error {
	snapshot, err := TakeSnapshot(ctx, store)
	if err != nil {
		return err
	}
	model := NewModel(snapshot)
	scanner := bufio.NewScanner(in)

	for {
		if _, err := fmt.Fprint(out, model.View()); err != nil {
			return fmt.Errorf("write ui view: %w", err)
		}
		if _, err := fmt.Fprint(out, "\ncommand> "); err != nil {
			return fmt.Errorf("write ui prompt: %w", err)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read ui command: %w", err)
			}
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		next, quit, err := apply(ctx, store, model, line, out)
		if errors.Is(err, errUsage) {
			if _, werr := fmt.Fprintf(out, "error: %v\n", err); werr != nil {
				return fmt.Errorf("write ui command error: %w", werr)
			}
		} else if err != nil {
			return err
		}
		if quit {
			return nil
		}

		snapshot, err := TakeSnapshot(ctx, store)
		if err != nil {
			return err
		}
		model = next.WithSnapshot(snapshot)
	}
}

func apply(ctx context.Context, store *app.Store, model Model, line string, out io.Writer) (Model, bool, error) {
	name, rest, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	rest = strings.TrimSpace(rest)

	switch name {
	case "q", "quit", "exit":
		return model, true, nil
	case "":
		// No-op; rerender.
	case "tab", "right", "l":
		model = model.NextTab()
	case "backtab", "left", "h":
		model = model.PrevTab()
	case "1", "2", "3":
		model = model.SelectTab(int(name[0] - '1'))
	case "tasks", "users", "counter":
		model = model.SelectTabByName(name)
	case "help", "?":
		if _, err := fmt.Fprint(out, helpText); err != nil {
			return model, false, fmt.Errorf("write ui help: %w", err)
		}
	case "filter":
		filter, err := tasks.ParseFilter(rest)
		if err != nil {
			return model, false, usageError(err)
		}
		if err := store.Tasks.UpdateFilter(filter); err != nil {
			return model, false, usageError(err)
		}
		model = model.SelectTabByName(PageTasks)
	case "add-task":
		input, err := parseNewTask(rest)
		if err != nil {
			return model, false, err
		}
		if _, err := store.Tasks.AddTask(ctx, input); err != nil {
			if errors.Is(err, tasks.ErrInvalidPriority) {
				return model, false, usageError(err)
			}
			return model, false, err
		}
		model = model.SelectTabByName(PageTasks)
	case "toggle", "delete":
		taskID, err := resolveTaskRef(model.snapshot.Tasks, rest)
		if err != nil {
			return model, false, err
		}
		if name == "toggle" {
			err = store.Tasks.ToggleCompleteState(ctx, taskID)
		} else {
			err = store.Tasks.DeleteTask(ctx, taskID)
		}
		if err != nil {
			return model, false, err
		}
	case "add-user":
		if _, err := store.Users.AddUser(ctx, users.NewUser{Name: rest}); err != nil {
			if errors.Is(err, users.ErrEmptyName) {
				return model, false, usageError(err)
			}
			return model, false, err
		}
		model = model.SelectTabByName(PageUsers)
	case "rm-user":
		userID, err := resolveUserRef(model.snapshot.Users, rest)
		if err != nil {
			return model, false, err
		}
		if err := store.Users.RemoveUser(ctx, userID); err != nil {
			return model, false, err
		}
	case "inc":
		amount := 1
		if rest != "" {
			parsed, err := strconv.Atoi(rest)
			if err != nil {
				return model, false, fmt.Errorf("%w: inc amount %q is not a number", errUsage, rest)
			}
			amount = parsed
		}
		store.Counter.Increment(amount)
		model = model.SelectTabByName(PageCounter)
	case "dec":
		store.Counter.Decrement()
		model = model.SelectTabByName(PageCounter)
	default:
		return model, false, fmt.Errorf("%w: unknown command: %s", errUsage, name)
	}
	return model, false, nil
}

// parseNewTask reads "<priority> <due> <title...> [| description]".
func parseNewTask(args string) (tasks.NewTask, error) {
	head, description, _ := strings.Cut(args, "|")
	fields := strings.Fields(head)
	if len(fields) < 3 {
		return tasks.NewTask{}, fmt.Errorf("%w: add-task <priority> <due> <title...> [| description]", errUsage)
	}
	return tasks.NewTask{
		Priority:    tasks.Priority(fields[0]),
		DueDate:     fields[1],
		Title:       strings.Join(fields[2:], " "),
		Description: strings.TrimSpace(description),
	}, nil
}

// resolveTaskRef accepts either a 1-based row number from the visible list
// or a task id. Unknown ids pass through so the store can ignore them.
func resolveTaskRef(visible []tasks.Task, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: a task number or id is required", errUsage)
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(visible) {
		return visible[n-1].ID, nil
	}
	return ref, nil
}

func resolveUserRef(listed []users.User, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: a user number or id is required", errUsage)
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(listed) {
		return listed[n-1].ID, nil
	}
	return ref, nil
}

func usageError(err error) error {
	return fmt.Errorf("%w: %w", errUsage, err)
}
