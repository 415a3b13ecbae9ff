package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"myday/internal/config"
	"myday/internal/reminder"
	"myday/internal/task"
	"myday/internal/view"
)

var now = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.Local)

type memSettings map[string]string

func (s memSettings) GetSetting(k string) (string, error) { return s[k], nil }
func (s memSettings) SetSetting(k, v string) error       { s[k] = v; return nil }

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func newTestModel(t *testing.T, store *task.Store) (Model, memSettings) {
	t.Helper()
	settings := memSettings{darkModeKey: "false"}
	m := New(Options{
		Store:    store,
		Config:   config.Default(),
		Settings: settings,
		Now:      func() time.Time { return now },
	})
	return m, settings
}

func newStore() *task.Store {
	return task.NewStore(task.WithClock(func() time.Time { return now }))
}

func TestAddTaskThroughForm(t *testing.T) {
	store := newStore()
	m, _ := newTestModel(t, store)

	m = press(m, "a")
	if m.mode != modeAdd {
		t.Fatalf("expected add mode")
	}
	m.form.text.SetValue("Buy milk")
	m = press(m, "enter")

	if store.Len() != 1 {
		t.Fatalf("expected 1 task, got %d", store.Len())
	}
	if m.mode != modeList || m.status != "Added task" {
		t.Fatalf("unexpected state after add: mode=%d status=%q", m.mode, m.status)
	}
	got := store.Snapshot()[0]
	if got.Text != "Buy milk" || got.Category != task.Personal || got.Reminder {
		t.Fatalf("unexpected task: %+v", got)
	}
	if len(m.visible) != 1 {
		t.Fatalf("view not refreshed: %d", len(m.visible))
	}
}

func TestAddBlankTaskRejected(t *testing.T) {
	store := newStore()
	m, _ := newTestModel(t, store)

	m = press(m, "a")
	m.form.text.SetValue("   ")
	m = press(m, "enter")

	if store.Len() != 0 {
		t.Fatalf("blank task was created")
	}
	if m.mode != modeAdd || m.status != "Task text cannot be empty" {
		t.Fatalf("expected to stay in form with error, mode=%d status=%q", m.mode, m.status)
	}

	m = press(m, "esc")
	if m.mode != modeList {
		t.Fatalf("esc should leave the form")
	}
}

func TestAddTaskWithAllFields(t *testing.T) {
	store := newStore()
	m, _ := newTestModel(t, store)

	m = press(m, "a")
	m.form.text.SetValue("Standup")
	m = press(m, "tab", " ", "tab")
	m.form.due.SetValue("2026-10-18")
	m = press(m, "tab", " ", "enter")

	if store.Len() != 1 {
		t.Fatalf("expected task to be created, status=%q", m.status)
	}
	got := store.Snapshot()[0]
	want := task.Date{Year: 2026, Month: time.October, Day: 18}
	if got.Category != task.Work || got.Due != want || !got.Reminder {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestAddTaskBadDueDate(t *testing.T) {
	store := newStore()
	m, _ := newTestModel(t, store)

	m = press(m, "a")
	m.form.text.SetValue("Standup")
	m.form.due.SetValue("tomorrow")
	m = press(m, "enter")

	if store.Len() != 0 {
		t.Fatalf("task created with invalid due date")
	}
	if !strings.HasPrefix(m.status, "due date invalid") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestToggleSelectedTask(t *testing.T) {
	store := newStore()
	tk, _ := store.Add("Report", task.Work, task.Date{}, false)
	m, _ := newTestModel(t, store)

	m = press(m, " ")
	if got, _ := store.Get(tk.ID); !got.Completed {
		t.Fatalf("toggle did not complete task")
	}
	m = press(m, " ")
	if got, _ := store.Get(tk.ID); got.Completed {
		t.Fatalf("second toggle did not reopen task")
	}
	if m.status != "Marked pending" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestDeleteDeclined(t *testing.T) {
	store := newStore()
	tk, _ := store.Add("Keep me", task.Personal, task.Date{}, false)
	m, _ := newTestModel(t, store)

	m = press(m, "d")
	if m.mode != modeConfirm {
		t.Fatalf("expected confirmation prompt")
	}
	m = press(m, "x")
	if m.mode != modeConfirm {
		t.Fatalf("unrelated key should keep the prompt open")
	}
	m = press(m, "n")

	if got, _ := store.Get(tk.ID); got.Deleted {
		t.Fatalf("declined delete changed the task")
	}
	if m.mode != modeList || m.status != "Delete cancelled" {
		t.Fatalf("unexpected state: mode=%d status=%q", m.mode, m.status)
	}
}

func TestDeleteConfirmed(t *testing.T) {
	store := newStore()
	tk, _ := store.Add("Drop me", task.Personal, task.Date{}, false)
	m, _ := newTestModel(t, store)

	m = press(m, "d", "y")

	if got, _ := store.Get(tk.ID); !got.Deleted {
		t.Fatalf("confirmed delete did not flag task")
	}
	if len(m.visible) != 0 {
		t.Fatalf("deleted task still visible in All")
	}

	m = press(m, "shift+tab")
	if m.sel != view.Deleted || len(m.visible) != 1 {
		t.Fatalf("expected task in Deleted view, sel=%q visible=%d", m.sel, len(m.visible))
	}
	m = press(m, " ")
	if got, _ := store.Get(tk.ID); got.Completed {
		t.Fatalf("deleted task should not toggle from the Deleted view")
	}
}

func TestSwitchViews(t *testing.T) {
	store := newStore()
	store.Add("a", task.Work, task.Date{}, false)
	m, _ := newTestModel(t, store)

	want := []view.Selector{view.MyDay, view.Personal, view.Work, view.Health, view.Deleted, view.All}
	for _, sel := range want {
		m = press(m, "tab")
		if m.sel != sel {
			t.Fatalf("expected %q, got %q", sel, m.sel)
		}
	}
}

func TestDefaultViewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultView = "My Day"
	m := New(Options{Store: newStore(), Config: cfg, Settings: memSettings{darkModeKey: "true"}, Now: func() time.Time { return now }})
	if m.sel != view.MyDay || !m.dark {
		t.Fatalf("unexpected initial state: sel=%q dark=%v", m.sel, m.dark)
	}

	cfg.DefaultView = "Someday"
	m = New(Options{Store: newStore(), Config: cfg, Settings: memSettings{darkModeKey: "true"}})
	if m.sel != view.All {
		t.Fatalf("unknown default view should fall back to All, got %q", m.sel)
	}
}

func TestThemeTogglePersists(t *testing.T) {
	m, settings := newTestModel(t, newStore())
	if m.dark {
		t.Fatalf("expected light theme from settings")
	}
	m = press(m, "t")
	if !m.dark || settings[darkModeKey] != "true" {
		t.Fatalf("theme not toggled/persisted: dark=%v setting=%q", m.dark, settings[darkModeKey])
	}
	m = press(m, "t")
	if m.dark || settings[darkModeKey] != "false" {
		t.Fatalf("theme not toggled back: dark=%v setting=%q", m.dark, settings[darkModeKey])
	}
}

func TestCheckRemindersKey(t *testing.T) {
	calls := 0
	m := New(Options{
		Store:          newStore(),
		Config:         config.Default(),
		Settings:       memSettings{darkModeKey: "false"},
		CheckReminders: func() { calls++ },
		Now:            func() time.Time { return now },
	})
	press(m, "R")
	if calls != 1 {
		t.Fatalf("expected one reminder check, got %d", calls)
	}
}

func TestReminderMessageShowsAlert(t *testing.T) {
	inbox := NewInbox()
	m := New(Options{Store: newStore(), Config: config.Default(), Settings: memSettings{darkModeKey: "false"}, Inbox: inbox})
	if m.Init() == nil {
		t.Fatalf("Init should listen on the inbox")
	}

	next, cmd := m.Update(reminderMsg(reminder.Notification{TaskID: 1, Text: "Pay rent"}))
	m = next.(Model)
	if !strings.Contains(m.alert, "Pay rent") {
		t.Fatalf("alert not set: %q", m.alert)
	}
	if cmd == nil {
		t.Fatalf("expected to keep listening for reminders")
	}
	if !strings.Contains(m.View(), "Pay rent") {
		t.Fatalf("view missing reminder alert")
	}
}

func TestMyDayRefreshesAfterMidnight(t *testing.T) {
	clock := now
	store := task.NewStore(task.WithClock(func() time.Time { return clock }))
	store.Add("Stretch", task.Health, task.Date{}, false)
	cfg := config.Default()
	cfg.DefaultView = "My Day"
	m := New(Options{Store: store, Config: cfg, Settings: memSettings{darkModeKey: "false"}, Now: func() time.Time { return clock }})
	if len(m.visible) != 1 {
		t.Fatalf("expected task in My Day, got %d", len(m.visible))
	}

	next, cmd := m.Update(tickMsg(clock))
	m = next.(Model)
	if len(m.visible) != 1 || cmd == nil {
		t.Fatalf("same-day tick changed the list or stopped ticking")
	}

	clock = clock.AddDate(0, 0, 1)
	next, _ = m.Update(tickMsg(clock))
	m = next.(Model)
	if len(m.visible) != 0 {
		t.Fatalf("My Day still lists yesterday's task after the date changed")
	}
	if !strings.Contains(m.View(), "My Day (0)") {
		t.Fatalf("nav count out of sync:\n%s", m.View())
	}
}

func TestInboxNotifyNeverBlocks(t *testing.T) {
	inbox := make(Inbox, 1)
	inbox.Notify(reminder.Notification{TaskID: 1})
	done := make(chan struct{})
	go func() {
		inbox.Notify(reminder.Notification{TaskID: 2})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Notify blocked on a full inbox")
	}
	if n := <-inbox; n.TaskID != 1 {
		t.Fatalf("expected first reminder kept, got %d", n.TaskID)
	}
}

func TestViewRendersProgressAndEmptyStates(t *testing.T) {
	store := newStore()
	m, _ := newTestModel(t, store)
	if !strings.Contains(m.View(), "No tasks yet!") {
		t.Fatalf("missing empty state")
	}

	a, _ := store.Add("Buy milk", task.Personal, task.Date{}, false)
	store.Add("Report", task.Work, task.DateOf(now), true)
	store.ToggleComplete(a.ID)
	m, _ = newTestModel(t, store)

	out := m.View()
	for _, want := range []string{"50% Complete", "Buy milk", "Report", "due Today", "reminder", "My Day (2)", "completed on 2026-10-17"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}

	m = press(m, "shift+tab")
	out = m.View()
	if strings.Contains(out, "Complete") || !strings.Contains(out, "No deleted tasks!") {
		t.Fatalf("Deleted view should hide progress and show its empty state:\n%s", out)
	}

	m = press(m, "tab", "d", "y", "shift+tab")
	out = m.View()
	if !strings.Contains(out, "deleted on 2026-10-17") || strings.Contains(out, "completed on") {
		t.Fatalf("Deleted view should show the deletion line only:\n%s", out)
	}
}

type failingSaver struct{ calls int }

func (f *failingSaver) SaveTasks([]task.Task) error {
	f.calls++
	return errors.New("disk full")
}

func TestSaveFailureShownInStatus(t *testing.T) {
	store := newStore()
	saver := &failingSaver{}
	m := New(Options{
		Store:    store,
		Config:   config.Default(),
		Settings: memSettings{darkModeKey: "false"},
		Saver:    saver,
		Now:      func() time.Time { return now },
	})

	m = press(m, "a")
	m.form.text.SetValue("Buy milk")
	m = press(m, "enter")
	if saver.calls != 1 || m.status != "save failed: disk full" {
		t.Fatalf("add: calls=%d status=%q", saver.calls, m.status)
	}

	m = press(m, " ")
	if saver.calls != 2 || m.status != "save failed: disk full" {
		t.Fatalf("toggle: calls=%d status=%q", saver.calls, m.status)
	}

	m = press(m, "d", "y")
	if saver.calls != 3 || m.status != "save failed: disk full" {
		t.Fatalf("delete: calls=%d status=%q", saver.calls, m.status)
	}
	if store.Len() != 1 {
		t.Fatalf("store should keep the task in memory, got %d", store.Len())
	}
}
