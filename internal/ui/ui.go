package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tasklist/internal/config"
	"tasklist/internal/todo"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
)

const emptyViewText = "No tasks found. Add some tasks to get started!"

type Model struct {
	store      *todo.Store
	cfg        config.Config
	log        zerolog.Logger
	categories []todo.Category
	category   int
	query      string
	visible    []todo.Task
	dark       bool
	styles     styles
	cursor     int
	mode       mode
	input      textinput.Model
	search     textinput.Model
	status     string
	isErr      bool
	confirmDel bool
	pendingDel *todo.Task
	width      int
}

// New builds the initial model. The store is owned by the caller.
func New(store *todo.Store, cfg config.Config, logger zerolog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "Add a new task..."
	ti.CharLimit = 256
	ti.Width = 40

	si := textinput.New()
	si.Placeholder = "Search tasks..."
	si.CharLimit = 128
	si.Width = 40

	m := Model{
		store:      store,
		cfg:        cfg,
		log:        logger,
		categories: todo.Categories(),
		dark:       cfg.Theme == config.ThemeDark,
		input:      ti,
		search:     si,
		mode:       modeList,
		status:     fmt.Sprintf("Press '%s' to add, '%s' to search, '%s' to switch theme.", cfg.Keys.Add, cfg.Keys.Search, cfg.Keys.Theme),
	}
	m.styles = newStyles(m.dark)
	m.category = m.categoryIndex(cfg.DefaultFilter)
	m.refresh()
	return m
}

func Run(store *todo.Store, cfg config.Config, logger zerolog.Logger) error {
	program := tea.NewProgram(New(store, cfg, logger), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
		m.search.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	}
	return m.updateListMode(key)
}

// selectedCategory is the id of the active category chip.
func (m Model) selectedCategory() string {
	return m.categories[m.category].ID
}

func (m Model) categoryIndex(id string) int {
	for i, c := range m.categories {
		if c.ID == id {
			return i
		}
	}
	return 0
}

// refresh recomputes the visible list from the store.
func (m *Model) refresh() {
	m.visible = todo.View(m.store.Tasks(), m.selectedCategory(), m.query)
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.isErr = false
}

func (m *Model) setError(action string, err error) {
	m.status = fmt.Sprintf("%s failed: %v", action, err)
	m.isErr = true
	m.log.Error().Err(err).Str("action", action).Msg("store operation failed")
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.setStatus("Cancelled")
		return m, nil
	case m.cfg.Keys.Confirm:
		task, added, err := m.store.Add(context.Background(), m.input.Value(), m.selectedCategory())
		if err != nil {
			m.setError("save", err)
			return m, nil
		}
		if !added {
			m.setStatus("Task text cannot be empty")
			return m, nil
		}
		m.refresh()
		for i, t := range m.visible {
			if t.ID == task.ID {
				m.cursor = i
				break
			}
		}
		m.setStatus(fmt.Sprintf("Added %q to %s", task.Text, task.Category))
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.search.SetValue("")
		m.search.Blur()
		m.query = ""
		m.mode = modeList
		m.refresh()
		m.setStatus("Search cleared")
		return m, nil
	case m.cfg.Keys.Confirm:
		m.search.Blur()
		m.mode = modeList
		m.setStatus(fmt.Sprintf("%d matching tasks", len(m.visible)))
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.query = m.search.Value()
		m.refresh()
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.visible) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.visible))
		}
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.Focus()
		c := m.categories[m.categoryIndex(todo.CategoryForNewTask(m.selectedCategory()))]
		m.setStatus(fmt.Sprintf("New %s task: type and press Enter", c.Name))
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.search.SetValue(m.query)
		m.search.Focus()
		m.setStatus("Search: type to filter, Enter to keep, Esc to clear")
	case m.cfg.Keys.Theme:
		m.dark = !m.dark
		m.styles = newStyles(m.dark)
		if m.dark {
			m.setStatus("Dark theme")
		} else {
			m.setStatus("Light theme")
		}
	case m.cfg.Keys.NextCategory, "l":
		m.selectCategory(wrapIndex(m.category+1, len(m.categories)))
	case m.cfg.Keys.PrevCategory, "h":
		m.selectCategory(wrapIndex(m.category-1, len(m.categories)))
	case m.cfg.Keys.Toggle:
		if len(m.visible) == 0 {
			return m, nil
		}
		task := m.visible[m.cursor]
		if _, err := m.store.Toggle(context.Background(), task.ID); err != nil {
			m.setError("toggle", err)
			return m, nil
		}
		m.refresh()
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
		m.setStatus("Toggled task")
	case m.cfg.Keys.Delete:
		if len(m.visible) == 0 {
			return m, nil
		}
		t := m.visible[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m.setStatus(fmt.Sprintf("Delete \"%s\"? y/n", t.Text))
	default:
		if n := digitIndex(key); n >= 0 && n < len(m.categories) {
			m.selectCategory(n)
		}
	}
	return m, nil
}

func (m *Model) selectCategory(i int) {
	m.category = i
	m.cursor = 0
	m.refresh()
	m.setStatus("Showing " + m.categories[i].Name)
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.setStatus("Delete cancelled")
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.setStatus("Nothing to delete")
			m.confirmDel = false
			return m, nil
		}
		if _, err := m.store.Delete(context.Background(), m.pendingDel.ID); err != nil {
			m.setError("delete", err)
			m.confirmDel = false
			m.pendingDel = nil
			return m, nil
		}
		m.refresh()
		m.setStatus("Deleted task")
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Tasks"))
	total, completed := todo.Counts(m.store.Tasks())
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %d of %d shown • %d completed • %s", len(m.visible), total, completed, m.themeName())))
	b.WriteString("\n\n")

	b.WriteString(m.renderSearch())
	b.WriteString("\n")
	b.WriteString(m.renderChips())
	b.WriteString("\n\n")
	b.WriteString(m.renderDraft())
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(m.styles.Muted.Render(emptyViewText))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	if m.isErr {
		b.WriteString(m.styles.Error.Render(m.status))
	} else {
		b.WriteString(m.styles.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(renderHelp(m.cfg.Keys)))

	return m.styles.frame(b.String(), m.width)
}

func (m Model) themeName() string {
	if m.dark {
		return "dark"
	}
	return "light"
}

func (m Model) renderSearch() string {
	if m.mode == modeSearch {
		return m.styles.Input.Render(m.search.View())
	}
	if m.query == "" {
		return m.styles.Input.Render(m.styles.Muted.Render("Search tasks..."))
	}
	return m.styles.Input.Render("Search: " + m.query)
}

func (m Model) renderDraft() string {
	if m.mode == modeAdd {
		return "Add Task: " + m.input.View()
	}
	return m.styles.Muted.Render(fmt.Sprintf("Press '%s' to add a task", m.cfg.Keys.Add))
}

func (m Model) renderChips() string {
	chips := make([]string, 0, len(m.categories))
	for i, c := range m.categories {
		chips = append(chips, m.styles.chip(c, i == m.category))
	}
	return strings.Join(chips, " ")
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = m.styles.Cursor.Render(">")
		}

		checkbox := "[ ]"
		text := m.styles.Task.Render(t.Text)
		if t.Completed {
			checkbox = m.styles.Check.Render("[x]")
			text = m.styles.Done.Render(t.Text)
		}

		b.WriteString(fmt.Sprintf("%s %s %s %s", cursor, checkbox, text, m.styles.badge(t.Category)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s search • %s/%s or 1-5 category • space toggle • %s delete • %s theme • %s quit",
		k.Up, k.Down, k.Add, k.Search, k.PrevCategory, k.NextCategory, k.Delete, k.Theme, k.Quit)
}

func digitIndex(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return -1
	}
	return int(key[0] - '1')
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
