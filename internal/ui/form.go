package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"myday/internal/task"
)

type formField int

const (
	fieldText formField = iota
	fieldCategory
	fieldDue
	fieldReminder
	fieldCount
)

func (f formField) label() string {
	switch f {
	case fieldText:
		return "task"
	case fieldCategory:
		return "category"
	case fieldDue:
		return "due date (YYYY-MM-DD)"
	case fieldReminder:
		return "reminder"
	default:
		return ""
	}
}

// addForm collects the inputs for a new task.
type addForm struct {
	field    formField
	text     textinput.Model
	due      textinput.Model
	category int
	reminder bool
}

func newAddForm() addForm {
	text := textinput.New()
	text.Placeholder = "Add a new task..."
	text.CharLimit = 256
	text.Width = 40

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10
	due.Width = 12

	return addForm{text: text, due: due}
}

func (f *addForm) open() {
	f.reset()
	f.focus(fieldText)
}

func (f *addForm) reset() {
	f.text.SetValue("")
	f.due.SetValue("")
	f.category = 0
	f.reminder = false
	f.text.Blur()
	f.due.Blur()
	f.field = fieldText
}

func (f *addForm) focus(field formField) {
	f.field = field
	f.text.Blur()
	f.due.Blur()
	switch field {
	case fieldText:
		f.text.Focus()
	case fieldDue:
		f.due.Focus()
	}
}

func (f *addForm) next() {
	f.focus((f.field + 1) % fieldCount)
}

func (f *addForm) prev() {
	f.focus((f.field + fieldCount - 1) % fieldCount)
}

func (f *addForm) selectedCategory() task.Category {
	cats := task.Categories()
	return cats[wrapIndex(f.category, len(cats))]
}

func (f *addForm) cycleCategory(delta int) {
	f.category = wrapIndex(f.category+delta, len(task.Categories()))
}

// update handles a key the list-level bindings did not consume.
func (f *addForm) update(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch f.field {
	case fieldCategory:
		switch key {
		case "left", "h":
			f.cycleCategory(-1)
		case "right", "l", " ":
			f.cycleCategory(1)
		}
		return nil
	case fieldReminder:
		switch key {
		case " ", "left", "right":
			f.reminder = !f.reminder
		case "y":
			f.reminder = true
		case "n":
			f.reminder = false
		}
		return nil
	case fieldDue:
		var cmd tea.Cmd
		f.due, cmd = f.due.Update(msg)
		return cmd
	default:
		var cmd tea.Cmd
		f.text, cmd = f.text.Update(msg)
		return cmd
	}
}

// build validates the form into task.New arguments.
func (f *addForm) build() (text string, category task.Category, due task.Date, reminder bool, err error) {
	due, err = task.ParseDate(f.due.Value())
	if err != nil {
		return "", "", task.Date{}, false, err
	}
	return f.text.Value(), f.selectedCategory(), due, f.reminder, nil
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
