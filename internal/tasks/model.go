package tasks

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts any casing ("High", " low ") and returns the
// canonical lower-case priority.
func ParsePriority(raw string) (Priority, error) {
	candidate := Priority(strings.ToLower(strings.TrimSpace(raw)))
	for _, p := range Priorities {
		if candidate == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: low, medium, high)", ErrInvalidPriority, raw)
}

type Filter string

const (
	FilterAll    Filter = "all"
	FilterLow    Filter = Filter(PriorityLow)
	FilterMedium Filter = Filter(PriorityMedium)
	FilterHigh   Filter = Filter(PriorityHigh)
)

// Filters lists every filter value in tab order.
var Filters = []Filter{FilterAll, FilterLow, FilterMedium, FilterHigh}

func ParseFilter(raw string) (Filter, error) {
	candidate := Filter(strings.ToLower(strings.TrimSpace(raw)))
	for _, f := range Filters {
		if candidate == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: all, low, medium, high)", ErrInvalidFilter, raw)
}

func (f Filter) Valid() bool {
	for _, known := range Filters {
		if f == known {
			return true
		}
	}
	return false
}

// Matches reports whether a task with priority p passes the filter.
func (f Filter) Matches(p Priority) bool {
	return f == FilterAll || Priority(f) == p
}

type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	IsCompleted bool     `json:"is_completed"`
	Priority    Priority `json:"priority"`
}

// NewTask is the input to Service.AddTask. Completion state is not part of
// it: tasks always start incomplete.
type NewTask struct {
	Title       string
	Description string
	DueDate     string
	Priority    Priority
}
