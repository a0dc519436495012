package todo

import (
	"slices"
	"strings"
	"time"
)

// Task is a single to-do item.
type Task struct {
	ID        string
	Text      string
	Completed bool
	Category  string
	CreatedAt time.Time
}

// View derives the displayed list: tasks in the given category (All keeps
// everything) whose text contains query, ignoring case, newest first.
// The input slice is not modified.
func View(tasks []Task, category, query string) []Task {
	q := strings.ToLower(query)
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if category != CategoryAll && t.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(t.Text), q) {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Counts reports how many tasks exist and how many of them are completed.
func Counts(tasks []Task) (total, completed int) {
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return len(tasks), completed
}
