// Package tui is the interactive session picker.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const pollInterval = 1500 * time.Millisecond

// Item is one pickable session.
type Item struct {
	Name       string
	Running    bool
	Active     bool
	LastOpened time.Time
}

// Loader fetches the current items, most recently used first.
type Loader func() ([]Item, error)

type tickMsg time.Time

type itemsMsg []Item

type Model struct {
	load          Loader
	items         []Item
	filtered      []Item
	cursor        int
	scrollOffset  int
	input         textinput.Model
	width, height int

	// Choice is the session the user picked, empty when they quit instead.
	Choice   string
	quitting bool
	err      error
}

func NewModel(load Loader) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	return Model{input: ti, load: load}
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refresh() tea.Msg {
	items, err := m.load()
	if err != nil {
		return err
	}
	return itemsMsg(items)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case itemsMsg:
		m.items = msg
		m.applyFilter()
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case tickMsg:
		return m, tea.Batch(tickCmd(), m.refresh)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.CtrlC) {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, keys.Escape) {
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.applyFilter()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	// q quits only while the filter is empty
	if key.Matches(msg, keys.Quit) && m.input.Value() == "" {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, keys.Up) {
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		return m, nil
	}
	if key.Matches(msg, keys.Down) {
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		return m, nil
	}

	if key.Matches(msg, keys.Enter) {
		if sel := m.selected(); sel != nil {
			m.Choice = sel.Name
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) applyFilter() {
	filter := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if filter == "" {
		m.filtered = m.items
	} else {
		m.filtered = nil
		for _, item := range m.items {
			if strings.Contains(strings.ToLower(item.Name), filter) {
				m.filtered = append(m.filtered, item)
			}
		}
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m Model) selected() *Item {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	item := m.filtered[m.cursor]
	return &item
}

func (m Model) maxVisibleItems() int {
	// input, title, and help rows eat into the height
	maxVis := m.height - 6
	if maxVis < 5 {
		maxVis = 5
	}
	if maxVis > len(m.filtered) {
		maxVis = len(m.filtered)
	}
	return maxVis
}

func (m *Model) ensureCursorVisible() {
	maxVis := m.maxVisibleItems()
	if maxVis <= 0 {
		m.scrollOffset = 0
		return
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+maxVis {
		m.scrollOffset = m.cursor - maxVis + 1
	}
	maxOffset := len(m.filtered) - maxVis
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
}
