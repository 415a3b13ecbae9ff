// Package view derives what the task list shows: the filtered view for a
// selector, per-selector counts, progress for a view and due-date labels.
// Every function here is pure; callers re-run them after each store change.
package view

import (
	"time"

	"myday/internal/task"
)

// Selector picks a view. It is either a pseudo view (All, My Day, Deleted)
// or a category name.
type Selector string

const (
	All      Selector = "All"
	MyDay    Selector = "My Day"
	Personal Selector = Selector(task.Personal)
	Work     Selector = Selector(task.Work)
	Health   Selector = Selector(task.Health)
	Deleted  Selector = "Deleted"
)

// Selectors returns every selector in navigation order.
func Selectors() []Selector {
	return []Selector{All, MyDay, Personal, Work, Health, Deleted}
}

// ParseSelector accepts any string; values that are not known selectors
// filter like All.
func ParseSelector(s string) Selector {
	return Selector(s)
}

// Known reports whether s is one of Selectors().
func (s Selector) Known() bool {
	for _, k := range Selectors() {
		if s == k {
			return true
		}
	}
	return false
}

// Filter returns the tasks visible under sel, keeping their relative order.
// Deleted tasks only appear under Deleted. My Day matches tasks created on
// now's local calendar date.
func Filter(tasks []task.Task, sel Selector, now time.Time) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	if sel == Deleted {
		for _, t := range tasks {
			if t.Deleted {
				out = append(out, t)
			}
		}
		return out
	}

	today := task.DateOf(now)
	for _, t := range tasks {
		if t.Deleted {
			continue
		}
		if matches(t, sel, today) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t task.Task, sel Selector, today task.Date) bool {
	switch sel {
	case MyDay:
		return task.DateOf(t.CreatedAt) == today
	case Personal, Work, Health:
		return t.Category == task.Category(sel)
	default:
		return true
	}
}

// Counts returns the badge count for every selector shown with one in the
// navigation bar: My Day, the three categories and Deleted.
func Counts(tasks []task.Task, now time.Time) map[Selector]int {
	counts := make(map[Selector]int, 5)
	for _, sel := range []Selector{MyDay, Personal, Work, Health, Deleted} {
		counts[sel] = len(Filter(tasks, sel, now))
	}
	return counts
}
