package ui

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"myday/internal/config"
	"myday/internal/reminder"
	"myday/internal/task"
	"myday/internal/view"
)

const darkModeKey = "dark_mode"

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirm
)

// Settings stores user preferences. storage.Store satisfies it.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Saver persists the full task list. storage.Store satisfies it.
type Saver interface {
	SaveTasks(tasks []task.Task) error
}

// Inbox carries reminders from the scheduler goroutine into the program.
// Notify never blocks; a full inbox drops the reminder.
type Inbox chan reminder.Notification

func NewInbox() Inbox {
	return make(Inbox, 16)
}

func (in Inbox) Notify(n reminder.Notification) {
	select {
	case in <- n:
	default:
		log.Printf("reminder inbox full, dropped task #%d", n.TaskID)
	}
}

type reminderMsg reminder.Notification

func (in Inbox) wait() tea.Cmd {
	if in == nil {
		return nil
	}
	return func() tea.Msg {
		return reminderMsg(<-in)
	}
}

// tickMsg drives the day-change check behind My Day.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// answer is the user's reply to the delete prompt.
type answer bool

func (a answer) Confirm(task.Task) bool { return bool(a) }

type Options struct {
	Store    *task.Store
	Config   config.Config
	Settings Settings
	Saver    Saver
	Inbox    Inbox
	// CheckReminders runs the reminder check immediately.
	CheckReminders func()
	Now            func() time.Time
}

type Model struct {
	store    *task.Store
	cfg      config.Config
	settings Settings
	saver    Saver
	inbox    Inbox
	check    func()
	now      func() time.Time

	tasks   []task.Task
	day     task.Date
	sel     view.Selector
	visible []task.Task
	cursor  int
	mode    mode
	form    addForm
	pending *task.Task

	dark   bool
	styles *Styles
	status string
	alert  string
	width  int
}

func New(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sel := view.ParseSelector(opts.Config.DefaultView)
	if !sel.Known() {
		sel = view.All
	}
	dark := loadDarkMode(opts.Settings)

	m := Model{
		store:    opts.Store,
		cfg:      opts.Config,
		settings: opts.Settings,
		saver:    opts.Saver,
		inbox:    opts.Inbox,
		check:    opts.CheckReminders,
		now:      now,
		sel:      sel,
		form:     newAddForm(),
		dark:     dark,
		styles:   NewStyles(themeFor(dark)),
		status:   "Press 'a' to add, space to toggle, 'd' to delete.",
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(m Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func loadDarkMode(s Settings) bool {
	if s != nil {
		v, err := s.GetSetting(darkModeKey)
		if err != nil {
			log.Printf("load theme preference: %v", err)
		} else if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return lipgloss.HasDarkBackground()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.inbox.wait(), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeConfirm:
			return m.updateDeleteConfirm(msg.String())
		case modeAdd:
			return m.updateAddMode(msg)
		default:
			return m.updateListMode(msg.String())
		}
	case reminderMsg:
		n := reminder.Notification(msg)
		m.alert = n.Message()
		return m, m.inbox.wait()
	case tickMsg:
		if task.DateOf(m.now()) != m.day {
			m.refresh()
		}
		return m, tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.form.text.Width = clampWidth(msg.Width - 10)
	}
	return m, nil
}

func (m *Model) refresh() {
	now := m.now()
	m.tasks = m.store.Snapshot()
	m.day = task.DateOf(now)
	m.visible = view.Filter(m.tasks, m.sel, now)
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.visible))
	case k.NextView:
		m.switchView(1)
	case k.PrevView:
		m.switchView(-1)
	case k.Add:
		m.mode = modeAdd
		m.form.open()
		m.status = "Add mode: tab moves between fields, enter saves, esc cancels"
	case k.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if t.Deleted {
			m.status = "Deleted tasks cannot be changed"
			return m, nil
		}
		if !m.store.ToggleComplete(t.ID) {
			m.status = "Task not found"
			return m, nil
		}
		m.refresh()
		if t.Completed {
			m.status = "Marked pending"
		} else {
			m.status = "Completed task"
		}
		m.save()
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if t.Deleted {
			m.status = "Task is already deleted"
			return m, nil
		}
		m.mode = modeConfirm
		m.pending = &t
		m.status = fmt.Sprintf("Delete %q? y/n", t.Text)
	case k.Theme:
		m.dark = !m.dark
		m.styles = NewStyles(themeFor(m.dark))
		m.status = "Theme: " + themeFor(m.dark).Name
		if m.settings != nil {
			if err := m.settings.SetSetting(darkModeKey, strconv.FormatBool(m.dark)); err != nil {
				m.status = fmt.Sprintf("save theme failed: %v", err)
			}
		}
	case k.CheckRemind:
		if m.check != nil {
			m.check()
			m.status = "Checked reminders"
		}
	}
	return m, nil
}

func (m *Model) switchView(delta int) {
	sels := view.Selectors()
	idx := 0
	for i, s := range sels {
		if s == m.sel {
			idx = i
			break
		}
	}
	m.sel = sels[wrapIndex(idx+delta, len(sels))]
	m.cursor = 0
	m.refresh()
	m.status = string(m.sel)
}

func (m Model) selected() (task.Task, bool) {
	if len(m.visible) == 0 {
		return task.Task{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch msg.String() {
	case k.Cancel:
		m.mode = modeList
		m.form.reset()
		m.status = "Cancelled"
		return m, nil
	case k.Confirm:
		return m.submit()
	case k.NextField:
		m.form.next()
		return m, nil
	case "shift+tab":
		m.form.prev()
		return m, nil
	default:
		return m, m.form.update(msg)
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text, category, due, remind, err := m.form.build()
	if err != nil {
		m.status = fmt.Sprintf("due date invalid: %v", err)
		return m, nil
	}
	t, err := m.store.Add(text, category, due, remind)
	if err != nil {
		m.status = "Task text cannot be empty"
		return m, nil
	}
	m.form.reset()
	m.mode = modeList
	m.refresh()
	for i, v := range m.visible {
		if v.ID == t.ID {
			m.cursor = i
			break
		}
	}
	m.status = "Added task"
	m.save()
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	var reply answer
	switch key {
	case "y", "Y":
		reply = true
	case "n", "N", m.cfg.Keys.Cancel:
		reply = false
	default:
		return m, nil
	}

	pending := m.pending
	m.pending = nil
	m.mode = modeList
	if pending == nil {
		m.status = "Nothing to delete"
		return m, nil
	}
	if !m.store.SoftDelete(pending.ID, reply) {
		if reply {
			m.status = "Task not found"
		} else {
			m.status = "Delete cancelled"
		}
		return m, nil
	}
	m.refresh()
	m.status = "Deleted task"
	m.save()
	return m, nil
}

// save writes the current snapshot. A failure replaces the status line.
func (m *Model) save() {
	if m.saver == nil {
		return
	}
	if err := m.saver.SaveTasks(m.tasks); err != nil {
		log.Printf("save tasks: %v", err)
		m.status = fmt.Sprintf("save failed: %v", err)
	}
}

func (m Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.Title.Render("My Day"))
	b.WriteString("\n")
	b.WriteString(m.renderNav())
	b.WriteString("\n\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if card := m.renderProgress(); card != "" {
		b.WriteString(card)
		b.WriteString("\n")
	}

	if len(m.visible) == 0 {
		title, msg := view.EmptyMessage(m.sel)
		b.WriteString(s.Empty.Render(title + "\n" + msg))
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	switch m.mode {
	case modeAdd:
		b.WriteString("\n")
		b.WriteString(m.renderForm())
	case modeConfirm:
		b.WriteString("\n")
		b.WriteString(s.Error.Render(m.status))
	}

	if m.alert != "" {
		b.WriteString("\n")
		b.WriteString(s.Reminder.Render(m.alert))
	}
	b.WriteString("\n")
	b.WriteString(s.Status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(s.Help.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderNav() string {
	counts := view.Counts(m.tasks, m.now())
	parts := make([]string, 0, len(view.Selectors()))
	for _, sel := range view.Selectors() {
		label := string(sel)
		if n, ok := counts[sel]; ok {
			label = fmt.Sprintf("%s (%d)", sel, n)
		}
		if sel == m.sel {
			parts = append(parts, m.styles.NavSelected.Render(label))
		} else {
			parts = append(parts, m.styles.Nav.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderHeader() string {
	header := m.styles.Header.Render(fmt.Sprintf("%s Tasks", m.sel))
	summary := fmt.Sprintf("Total: %d", len(m.visible))
	if m.sel != view.Deleted {
		summary += fmt.Sprintf("  Completed: %d", view.Aggregate(m.visible).Completed)
	}
	return header + "  " + m.styles.Meta.Render(summary)
}

func (m Model) renderProgress() string {
	if m.sel == view.Deleted {
		return ""
	}
	p := view.Aggregate(m.visible)
	if p.Total == 0 {
		return ""
	}
	body := fmt.Sprintf("Your Progress  %d%% Complete\n%s\nCompleted %d • Pending %d • Total %d",
		p.Rounded(), m.styles.progressBar(p, 30), p.Completed, p.Pending, p.Total)
	return m.styles.Card.Render(body)
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	now := m.now()
	for i, t := range m.visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		var line string
		if m.sel == view.Deleted {
			line = fmt.Sprintf("%s %s", cursor, t.Text)
		} else {
			checkbox := "[ ]"
			if t.Completed {
				checkbox = "[x]"
			}
			line = fmt.Sprintf("%s %s %s", cursor, checkbox, t.Text)
		}

		switch {
		case m.cursor == i && m.mode == modeList:
			line = m.styles.ItemSelected.Render(line)
		case t.Completed:
			line = m.styles.ItemDone.Render(line)
		default:
			line = m.styles.Item.Render(line)
		}

		b.WriteString(line)
		b.WriteString("  ")
		b.WriteString(m.styles.category(t.Category))
		if m.sel == view.Deleted {
			b.WriteString(m.styles.Meta.Render(" • deleted on " + task.DateOf(now).String()))
		} else {
			b.WriteString(m.renderMeta(t, now))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMeta(t task.Task, now time.Time) string {
	extras := make([]string, 0, 3)
	if label := view.DueLabel(t.Due, now); label != "" {
		due := "due " + label
		if !t.Completed && task.DateOf(now).DaysUntil(t.Due) < 0 {
			due = m.styles.Overdue.Render(due)
		}
		extras = append(extras, due)
	}
	if t.HasReminder() {
		extras = append(extras, "reminder")
	}
	// The completion time is not recorded; the creation date stands in for it.
	if t.Completed {
		extras = append(extras, "completed on "+task.DateOf(t.CreatedAt).String())
	}
	if len(extras) == 0 {
		return ""
	}
	return m.styles.Meta.Render(" • ") + strings.Join(extras, m.styles.Meta.Render(" • "))
}

func (m Model) renderForm() string {
	f := m.form
	s := m.styles
	field := func(ff formField, body string) string {
		st := s.Field
		if f.field == ff {
			st = s.FieldFocused
		}
		return st.Render(ff.label() + ": " + body)
	}
	remind := "off"
	if f.reminder {
		remind = "on"
	}
	rows := []string{
		field(fieldText, f.text.View()),
		lipgloss.JoinHorizontal(lipgloss.Top,
			field(fieldCategory, "< "+string(f.selectedCategory())+" >"),
			field(fieldDue, f.due.View()),
			field(fieldReminder, remind),
		),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s/%s view • %s add • space toggle • %s delete • %s theme • %s check reminders • %s quit",
		k.Up, k.Down, k.NextView, k.PrevView, k.Add, k.Delete, k.Theme, k.CheckRemind, k.Quit)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func clampWidth(w int) int {
	if w < 20 {
		return 20
	}
	if w > 80 {
		return 80
	}
	return w
}
