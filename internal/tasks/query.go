package tasks

import "context"

// PriorityCounter is implemented by backends that can tally tasks per
// priority without materialising the whole list.
type PriorityCounter interface {
	CountByPriority(ctx context.Context) (map[Priority]int, error)
}

type PriorityCount struct {
	Priority Priority `json:"priority"`
	Count    int      `json:"count"`
}

type Summary struct {
	Total      int             `json:"total"`
	Completed  int             `json:"completed"`
	ByPriority []PriorityCount `json:"by_priority"`
}

// Pending is the number of tasks not yet completed.
func (s Summary) Pending() int {
	return s.Total - s.Completed
}

// Count returns the number of tasks with priority p.
func (s Summary) Count(p Priority) int {
	for _, entry := range s.ByPriority {
		if entry.Priority == p {
			return entry.Count
		}
	}
	return 0
}
