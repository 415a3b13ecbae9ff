package view

import (
	"fmt"
	"time"

	"myday/internal/task"
)

// DueLabel describes due relative to now's calendar date.
func DueLabel(due task.Date, now time.Time) string {
	if due.IsZero() {
		return ""
	}
	days := task.DateOf(now).DaysUntil(due)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

// EmptyMessage is the placeholder shown when the view for sel has no tasks.
func EmptyMessage(sel Selector) (title, message string) {
	switch sel {
	case MyDay:
		return "No tasks for today!", "Add tasks to see them here"
	case Deleted:
		return "No deleted tasks!", "Deleted tasks will appear here"
	default:
		return "No tasks yet!", "Start by adding your first task"
	}
}
