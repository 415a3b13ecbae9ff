package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyText       = errors.New("task text is empty")
	ErrUnknownCategory = errors.New("unknown category")
	ErrBadDate         = errors.New("invalid date")
)

// Category is the fixed grouping a task is filed under at creation.
type Category string

const (
	Personal Category = "Personal"
	Work     Category = "Work"
	Health   Category = "Health"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{Personal, Work, Health}
}

// ParseCategory maps an exact category name to a Category. The empty string
// yields Personal.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case "":
		return Personal, nil
	case Personal, Work, Health:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// DateOf returns the local calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Local().Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses YYYY-MM-DD. Blank input yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// DaysUntil counts calendar days from d to o; negative when o is earlier.
func (d Date) DaysUntil(o Date) int {
	a := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(o.Year, o.Month, o.Day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.In(time.UTC).Format(dateLayout)
}

// Task is a single tracked to-do item. Only Completed and Deleted change
// after creation.
type Task struct {
	ID        int64
	Text      string
	Category  Category
	Completed bool
	Deleted   bool
	Due       Date
	Reminder  bool
	CreatedAt time.Time
}

// New validates its inputs and builds an unsaved task. ID and CreatedAt are
// assigned by the Store.
func New(text string, category Category, due Date, reminder bool) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	category, err := ParseCategory(string(category))
	if err != nil {
		return Task{}, err
	}
	return Task{
		Text:     text,
		Category: category,
		Due:      due,
		Reminder: reminder,
	}, nil
}

// HasReminder reports whether the reminder flag applies, which requires a due date.
func (t Task) HasReminder() bool {
	return t.Reminder && !t.Due.IsZero()
}
