package ui

import (
	"context"
	"fmt"
	"strings"

	"taskmaster/internal/app"
	"taskmaster/internal/tasks"
	"taskmaster/internal/users"
)

const (
	PageTasks   = "Tasks"
	PageUsers   = "Users"
	PageCounter = "Counter"
)

var filterLabels = map[tasks.Filter]string{
	tasks.FilterAll:    "All",
	tasks.FilterLow:    "Low",
	tasks.FilterMedium: "Medium",
	tasks.FilterHigh:   "High",
}

// Snapshot is a read-only copy of the store taken before each render.
type Snapshot struct {
	Filter  tasks.Filter
	Tasks   []tasks.Task
	Summary tasks.Summary
	Users   []users.User
	Count   int
}

func TakeSnapshot(ctx context.Context, store *app.Store) (Snapshot, error) {
	visible, err := store.Tasks.SelectTasks(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("select tasks: %w", err)
	}
	summary, err := store.Tasks.Summary(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("summarize tasks: %w", err)
	}
	people, err := store.Users.SelectUsers(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("select users: %w", err)
	}

	return Snapshot{
		Filter:  store.Tasks.Filter(),
		Tasks:   visible,
		Summary: summary,
		Users:   people,
		Count:   store.Counter.Count(),
	}, nil
}

type Model struct {
	tabs      []string
	activeTab int
	snapshot  Snapshot
}

func NewModel(snapshot Snapshot) Model {
	return Model{
		tabs:      []string{PageTasks, PageUsers, PageCounter},
		activeTab: 0,
		snapshot:  snapshot,
	}
}

// WithSnapshot keeps the active page and swaps in fresh store data.
func (m Model) WithSnapshot(snapshot Snapshot) Model {
	m.snapshot = snapshot
	return m
}

func (m Model) ActiveTab() string {
	if len(m.tabs) == 0 {
		return ""
	}
	return m.tabs[m.safeActiveTab()]
}

func (m Model) NextTab() Model {
	if len(m.tabs) == 0 {
		return m
	}
	m.activeTab = (m.activeTab + 1) % len(m.tabs)
	return m
}

func (m Model) PrevTab() Model {
	if len(m.tabs) == 0 {
		return m
	}
	m.activeTab = (m.activeTab - 1 + len(m.tabs)) % len(m.tabs)
	return m
}

func (m Model) SelectTab(index int) Model {
	if index >= 0 && index < len(m.tabs) {
		m.activeTab = index
	}
	return m
}

func (m Model) SelectTabByName(name string) Model {
	for i, tab := range m.tabs {
		if strings.EqualFold(tab, name) {
			m.activeTab = i
		}
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString("TaskMaster\n")
	b.WriteString("keys: tab/shift+tab move | 1/2/3 jump | help | q quit\n\n")
	if len(m.tabs) == 0 {
		return b.String()
	}

	writeTabs(&b, m.tabs, m.safeActiveTab())
	b.WriteString("\n\n")

	switch m.ActiveTab() {
	case PageTasks:
		m.viewTasks(&b)
	case PageUsers:
		m.viewUsers(&b)
	case PageCounter:
		fmt.Fprintf(&b, "count: %d\n", m.snapshot.Count)
	}
	return b.String()
}

func (m Model) safeActiveTab() int {
	if m.activeTab < 0 || m.activeTab >= len(m.tabs) {
		return 0
	}
	return m.activeTab
}

func (m Model) viewTasks(b *strings.Builder) {
	active := 0
	labels := make([]string, 0, len(tasks.Filters))
	for i, f := range tasks.Filters {
		labels = append(labels, filterLabels[f])
		if f == m.snapshot.Filter {
			active = i
		}
	}
	b.WriteString("filter: ")
	writeTabs(b, labels, active)
	b.WriteString("\n")

	s := m.snapshot.Summary
	fmt.Fprintf(b, "total=%d done=%d low=%d medium=%d high=%d\n\n",
		s.Total,
		s.Completed,
		s.Count(tasks.PriorityLow),
		s.Count(tasks.PriorityMedium),
		s.Count(tasks.PriorityHigh),
	)

	if len(m.snapshot.Tasks) == 0 {
		b.WriteString("- no tasks\n")
		return
	}
	for i, task := range m.snapshot.Tasks {
		check := " "
		if task.IsCompleted {
			check = "x"
		}
		fmt.Fprintf(b, "%2d. [%s] %s (%s", i+1, check, strings.TrimSpace(task.Title), task.Priority)
		if task.DueDate != "" {
			fmt.Fprintf(b, ", due %s", task.DueDate)
		}
		fmt.Fprintf(b, ") id=%s\n", task.ID)
		if desc := strings.TrimSpace(task.Description); desc != "" {
			fmt.Fprintf(b, "    %s\n", desc)
		}
	}
}

func (m Model) viewUsers(b *strings.Builder) {
	if len(m.snapshot.Users) == 0 {
		b.WriteString("- no users\n")
		return
	}
	for i, user := range m.snapshot.Users {
		fmt.Fprintf(b, "%2d. %s id=%s\n", i+1, user.Name, user.ID)
	}
}

func writeTabs(b *strings.Builder, tabs []string, active int) {
	for i, tab := range tabs {
		if i == active {
			fmt.Fprintf(b, "[ %s ] ", tab)
		} else {
			fmt.Fprintf(b, "  %s   ", tab)
		}
	}
}
