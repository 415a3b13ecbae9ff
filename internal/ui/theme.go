package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"myday/internal/task"
	"myday/internal/view"
)

// Theme is a color scheme.
type Theme struct {
	Name string

	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color
	Primary       lipgloss.Color
	Selection     lipgloss.Color
	Border        lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var Light = Theme{
	Name:          "light",
	Foreground:    lipgloss.Color("#343b58"),
	ForegroundDim: lipgloss.Color("#9699a3"),
	Primary:       lipgloss.Color("#34548a"),
	Selection:     lipgloss.Color("#d5d6db"),
	Border:        lipgloss.Color("#a8aecb"),
	Success:       lipgloss.Color("#485e30"),
	Warning:       lipgloss.Color("#8f5e15"),
	Error:         lipgloss.Color("#8c4351"),
}

var Dark = Theme{
	Name:          "dark",
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),
	Primary:       lipgloss.Color("#7aa2f7"),
	Selection:     lipgloss.Color("#33467c"),
	Border:        lipgloss.Color("#3b4261"),
	Success:       lipgloss.Color("#9ece6a"),
	Warning:       lipgloss.Color("#e0af68"),
	Error:         lipgloss.Color("#f7768e"),
}

// categoryColors mirrors the accent used for each category chip.
var categoryColors = map[task.Category]lipgloss.Color{
	task.Personal: lipgloss.Color("#3498db"),
	task.Work:     lipgloss.Color("#e74c3c"),
	task.Health:   lipgloss.Color("#2ecc71"),
}

func themeFor(dark bool) Theme {
	if dark {
		return Dark
	}
	return Light
}

// Styles holds the pre-computed styles for one theme.
type Styles struct {
	Title        lipgloss.Style
	Nav          lipgloss.Style
	NavSelected  lipgloss.Style
	Header       lipgloss.Style
	Card         lipgloss.Style
	BarFilled    lipgloss.Style
	BarEmpty     lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemDone     lipgloss.Style
	Meta         lipgloss.Style
	Overdue      lipgloss.Style
	Empty        lipgloss.Style
	Field        lipgloss.Style
	FieldFocused lipgloss.Style
	Status       lipgloss.Style
	Reminder     lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
}

func NewStyles(t Theme) *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Nav: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		NavSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),

		Header: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		BarFilled: lipgloss.NewStyle().Foreground(t.Success),
		BarEmpty:  lipgloss.NewStyle().Foreground(t.ForegroundDim),

		Item: lipgloss.NewStyle().
			Foreground(t.Foreground),

		ItemSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Bold(true),

		ItemDone: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),

		Meta:    lipgloss.NewStyle().Foreground(t.ForegroundDim),
		Overdue: lipgloss.NewStyle().Foreground(t.Error),

		Empty: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		Field: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		FieldFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		Status:   lipgloss.NewStyle().Foreground(t.ForegroundDim),
		Reminder: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
		Help:     lipgloss.NewStyle().Foreground(t.ForegroundDim),
	}
}

func (s *Styles) category(c task.Category) string {
	return lipgloss.NewStyle().Foreground(categoryColors[c]).Render(string(c))
}

// progressBar renders p as a fixed-width bar.
func (s *Styles) progressBar(p view.Progress, width int) string {
	filled := p.Rounded() * width / 100
	if filled > width {
		filled = width
	}
	return s.BarFilled.Render(strings.Repeat("█", filled)) +
		s.BarEmpty.Render(strings.Repeat("░", width-filled))
}
