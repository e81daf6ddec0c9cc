// Package logoverlay provides an in-app log viewer overlay that shows
// recent log entries without leaving the TUI. The entry list is rendered
// through a scrollbox container, so long sessions scroll like any other
// content.
package logoverlay

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/scrollbox/internal/log"
	"github.com/zjrosen/scrollbox/internal/ui/shared/scrollbox"
	"github.com/zjrosen/scrollbox/internal/ui/styles"
)

const (
	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 120
	boxMinWidth       = 40

	bufferLimit = 1000
)

// CloseMsg is sent when the overlay should be closed.
type CloseMsg struct{}

// logLine is one buffered entry shown in the overlay. The buffer is
// append-only between clears, so positional identity is stable enough and
// entries carry no key of their own.
type logLine struct {
	text  string
	level log.Level
}

func (l logLine) Key() string { return "" }

func (l logLine) Render(width int) string {
	text := strings.TrimSuffix(l.text, "\n")
	if ansi.StringWidth(text) > width {
		text = ansi.Truncate(text, width-3, "...")
	}

	var style lipgloss.Style
	switch l.level {
	case log.LevelError:
		style = lipgloss.NewStyle().Foreground(styles.ErrorColor)
	case log.LevelWarn:
		style = lipgloss.NewStyle().Foreground(styles.HighlightColor)
	case log.LevelDebug:
		style = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	default:
		style = lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	}
	return style.Render(text)
}

// Model is the log overlay component state.
type Model struct {
	container *scrollbox.Container
	listener  *log.LogListener

	visible  bool
	minLevel log.Level
	width    int
	height   int
}

// New creates a log overlay. The listener is nil when logging is disabled,
// in which case the overlay only shows buffered entries.
func New(ctx context.Context) Model {
	return Model{
		container: scrollbox.NewContainer(),
		listener:  log.NewListener(ctx),
		minLevel:  log.LevelDebug,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.listener == nil {
		return nil
	}
	return m.listener.Listen()
}

// Update handles messages for the log overlay. Log events are consumed even
// while hidden so the entry list is current when the overlay opens.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(log.LogEvent); ok {
		m.refresh()
		if m.listener != nil {
			return m, m.listener.Listen()
		}
		return m, nil
	}

	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		engine := m.container.Engine()
		switch msg.String() {
		case "c":
			log.ClearBuffer()
			m.refresh()
		case "d":
			m.minLevel = log.LevelDebug
			m.refresh()
		case "i":
			m.minLevel = log.LevelInfo
			m.refresh()
		case "w":
			m.minLevel = log.LevelWarn
			m.refresh()
		case "e":
			m.minLevel = log.LevelError
			m.refresh()
		case "j", "down":
			engine.ScrollBy(1)
		case "k", "up":
			engine.ScrollBy(-1)
		case "g":
			engine.ScrollToTop()
		case "G":
			engine.ScrollToBottom()
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+x", "esc":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}

	case tea.MouseMsg:
		_, cmd := m.container.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	return m, nil
}

// View renders the overlay box. Call Overlay to place it on a background.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.HighlightColor).
		PaddingLeft(1)
	divider := styles.MutedStyle.Render(strings.Repeat("─", boxWidth))

	content := m.container.View()
	if m.container.Engine().Count() == 0 {
		content = styles.MutedStyle.Italic(true).Render("No logs to display")
	}

	body := strings.Join([]string{
		titleStyle.Render("Logs"),
		divider,
		content,
		divider,
		m.filterHint(),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderDefaultColor).
		Width(boxWidth).
		Render(body)
}

// Overlay centers the overlay within the terminal, replacing the given
// background when visible.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.View())
}

// refresh rebuilds the container items from the log buffer with the current
// level filter and keeps the newest entry visible.
func (m *Model) refresh() {
	var items []scrollbox.Item
	for _, entry := range log.GetRecentLogs(bufferLimit) {
		level, ok := entryLevel(entry)
		if ok && level < m.minLevel {
			continue
		}
		items = append(items, logLine{text: entry, level: level})
	}
	m.container.SetItems(items)
	m.container.View() // measure the new entries
	m.container.Engine().ScrollToBottom()
}

// entryLevel parses the level tag out of a formatted entry. Unknown entries
// report false and are always shown.
func entryLevel(entry string) (log.Level, bool) {
	switch {
	case strings.Contains(entry, "[ERROR]"):
		return log.LevelError, true
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn, true
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo, true
	case strings.Contains(entry, "[DEBUG]"):
		return log.LevelDebug, true
	}
	return log.LevelInfo, false
}

// Visible returns whether the overlay is currently shown.
func (m Model) Visible() bool { return m.visible }

// Toggle flips visibility, refreshing the entry list when opening.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
	}
}

// SetSize updates the overlay's knowledge of the terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Header, footer, dividers and borders take 6 rows.
	vpHeight := min(viewportMaxHeight, height-6)
	vpHeight = max(vpHeight, viewportMinHeight)
	m.container.SetSize(m.boxWidth(), vpHeight)
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

// filterHint renders the footer with the active filter level highlighted.
func (m Model) filterHint() string {
	hint := func(label string, active bool) string {
		if active {
			return styles.HighlightStyle.Render(label)
		}
		return styles.MutedStyle.Render(label)
	}

	parts := []string{
		styles.MutedStyle.Render("[c] Clear"),
		hint("[d] Debug", m.minLevel == log.LevelDebug),
		hint("[i] Info", m.minLevel == log.LevelInfo),
		hint("[w] Warn", m.minLevel == log.LevelWarn),
		hint("[e] Error", m.minLevel == log.LevelError),
	}
	return " " + strings.Join(parts, "  ")
}
