package reminder

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"myday/internal/task"
)

// Notification is raised once per qualifying task when the scheduler fires.
type Notification struct {
	ID     string
	TaskID int64
	Text   string
	Due    task.Date
	At     time.Time
}

func newNotification(t task.Task, at time.Time) Notification {
	return Notification{
		ID:     uuid.Must(uuid.NewV7()).String(),
		TaskID: t.ID,
		Text:   t.Text,
		Due:    t.Due,
		At:     at,
	}
}

func (n Notification) Message() string {
	return fmt.Sprintf("Reminder: %q is due today!", n.Text)
}

// Notifier receives reminders. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes each reminder to a logger.
type LogNotifier struct {
	Logger *log.Logger
}

func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("reminder %s: task #%d %s", n.ID, n.TaskID, n.Message())
}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(n)
		}
	}
}
