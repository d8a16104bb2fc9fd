package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Adaptive colors for light/dark terminal backgrounds
	accentColor = lipgloss.AdaptiveColor{Light: "#D6249F", Dark: "#FF79C6"}
	greenColor  = lipgloss.AdaptiveColor{Light: "#116620", Dark: "#50FA7B"}
	dimColor    = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#6272A4"}
	hlBgColor   = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#333333"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			PaddingLeft(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Background(hlBgColor)

	runningStyle = lipgloss.NewStyle().
			Foreground(greenColor)

	activeStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingLeft(1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B31D28", Dark: "#FF5555"}).
			PaddingLeft(1)
)

// pad right-pads s to width with spaces (based on visual width, not byte count).
func pad(s string, width int) string {
	visual := lipgloss.Width(s)
	if visual >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visual)
}

// relativeTime renders how long ago a layout was opened.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("celeris"))
	b.WriteString("\n\n")
	b.WriteString(" " + m.input.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  no sessions"))
		b.WriteString("\n")
	}

	maxVis := m.maxVisibleItems()
	end := m.scrollOffset + maxVis
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	nameWidth := 0
	for _, item := range m.filtered {
		if w := lipgloss.Width(item.Name); w > nameWidth {
			nameWidth = w
		}
	}

	for i := m.scrollOffset; i < end; i++ {
		item := m.filtered[i]

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		name := pad(item.Name, nameWidth+2)
		switch {
		case item.Active:
			name = activeStyle.Render(name)
		case item.Running:
			name = runningStyle.Render(name)
		}

		marker := " "
		if item.Running {
			marker = runningStyle.Render("●")
		}

		row := cursor + marker + " " + name + dimStyle.Render(relativeTime(item.LastOpened))
		if i == m.cursor {
			row = selectedRowStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter switch · esc clear/quit · ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}
