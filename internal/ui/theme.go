package ui

import (
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/todo"
)

// palette holds the base colors of one theme.
type palette struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

var (
	lightPalette = palette{
		Foreground: lipgloss.Color("#111827"),
		Background: lipgloss.Color("#f9fafb"),
		Surface:    lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#6b7280"),
		Accent:     lipgloss.Color("#a855f7"),
		Success:    lipgloss.Color("#22c55e"),
		Error:      lipgloss.Color("#ef4444"),
	}
	darkPalette = palette{
		Foreground: lipgloss.Color("#f9fafb"),
		Background: lipgloss.Color("#111827"),
		Surface:    lipgloss.Color("#1f2937"),
		Muted:      lipgloss.Color("#9ca3af"),
		Accent:     lipgloss.Color("#c084fc"),
		Success:    lipgloss.Color("#4ade80"),
		Error:      lipgloss.Color("#f87171"),
	}
)

// categoryColors maps category color tokens to terminal colors.
var categoryColors = map[string]lipgloss.Color{
	"purple": lipgloss.Color("#a855f7"),
	"blue":   lipgloss.Color("#3b82f6"),
	"pink":   lipgloss.Color("#ec4899"),
	"green":  lipgloss.Color("#22c55e"),
	"orange": lipgloss.Color("#f97316"),
}

var categoryIcons = map[string]string{
	"coffee":    "☕",
	"briefcase": "▣",
	"heart":     "♥",
	"house":     "⌂",
	"bike":      "◎",
}

type styles struct {
	Title      lipgloss.Style
	Chip       lipgloss.Style
	Input      lipgloss.Style
	Task       lipgloss.Style
	Done       lipgloss.Style
	Cursor     lipgloss.Style
	Check      lipgloss.Style
	Muted      lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	background lipgloss.Color
	foreground lipgloss.Color
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Chip:       lipgloss.NewStyle().Padding(0, 1).Foreground(p.Muted).Background(p.Surface),
		Input:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Muted).Padding(0, 1),
		Task:       lipgloss.NewStyle().Foreground(p.Foreground),
		Done:       lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true),
		Cursor:     lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Check:      lipgloss.NewStyle().Foreground(p.Success),
		Muted:      lipgloss.NewStyle().Foreground(p.Muted),
		Status:     lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Error:      lipgloss.NewStyle().Foreground(p.Error),
		background: p.Background,
		foreground: p.Foreground,
	}
}

// chip renders a category selector, filled with the category color when active.
func (s styles) chip(c todo.Category, active bool) string {
	label := categoryIcons[c.Icon] + " " + c.Name
	if !active {
		return s.Chip.Render(label)
	}
	return s.Chip.
		Foreground(lipgloss.Color("#ffffff")).
		Background(categoryColors[c.Color]).
		Bold(true).
		Render(label)
}

// badge renders the category label shown next to a task.
func (s styles) badge(categoryID string) string {
	c, ok := todo.LookupCategory(categoryID)
	if !ok {
		return s.Muted.Render(categoryID)
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color("#ffffff")).
		Background(categoryColors[c.Color]).
		Render(c.Name)
}

// frame paints the themed background behind the whole view.
func (s styles) frame(content string, width int) string {
	st := lipgloss.NewStyle().Background(s.background).Foreground(s.foreground).Padding(1, 2)
	if width > 0 {
		st = st.Width(width)
	}
	return st.Render(content)
}
