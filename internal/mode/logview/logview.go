// Package logview is a demo that tails a file and appends its lines to a
// scrolling container, sticking to the bottom the way a pager's follow
// mode does.
package logview

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/scrollbox/internal/config"
	"github.com/zjrosen/scrollbox/internal/pubsub"
	"github.com/zjrosen/scrollbox/internal/ui/shared/scrollbox"
	"github.com/zjrosen/scrollbox/internal/ui/styles"
	"github.com/zjrosen/scrollbox/internal/watcher"
)

// entry is one appended line, wrapped at the content width.
type entry struct {
	key  string
	text string
}

func (e entry) Key() string { return e.key }

func (e entry) Render(width int) string {
	if width <= 0 {
		return ""
	}
	if e.text == "" {
		return " "
	}
	return wordwrap.String(e.text, width)
}

type keyMap struct {
	Down   key.Binding
	Up     key.Binding
	Top    key.Binding
	Bottom key.Binding
	Follow key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Down:   key.NewBinding(key.WithKeys("j", "down")),
	Up:     key.NewBinding(key.WithKeys("k", "up")),
	Top:    key.NewBinding(key.WithKeys("g", "home")),
	Bottom: key.NewBinding(key.WithKeys("G", "end")),
	Follow: key.NewBinding(key.WithKeys("f")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// Model is the logview demo model.
type Model struct {
	container *scrollbox.Container
	watcher   *watcher.Watcher
	listener  *pubsub.ContinuousListener[[]string]
	cancel    context.CancelFunc
	cfg       config.Config

	path    string
	entries []scrollbox.Item
	seq     int

	// follow keeps the viewport glued to the newest line. Scrolling up
	// turns it off; G or f turn it back on.
	follow bool

	width  int
	height int
}

// New creates the logview demo tailing the given path.
func New(cfg config.Config, path string) (Model, error) {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return Model{}, fmt.Errorf("creating watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	listener := pubsub.NewContinuousListener(ctx, w.Broker())

	m := Model{
		container: newContainer(cfg),
		watcher:   w,
		listener:  listener,
		cancel:    cancel,
		cfg:       cfg,
		path:      path,
		follow:    true,
	}

	// The engine re-clamps when measured content shrinks or grows; follow
	// mode additionally pins the offset to the new maximum.
	m.container.Engine().Remeasure()

	if err := w.Start(); err != nil {
		cancel()
		return Model{}, fmt.Errorf("starting watcher: %w", err)
	}
	return m, nil
}

func newContainer(cfg config.Config) *scrollbox.Container {
	opts := []scrollbox.ContainerOption{
		scrollbox.WithWheelLines(cfg.UI.WheelLines),
	}
	if cfg.UI.ShowScrollbar {
		opts = append(opts, scrollbox.WithScrollbar())
	}
	return scrollbox.NewContainer(opts...)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.listener.Listen()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	engine := m.container.Engine()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.container.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case pubsub.Event[[]string]:
		for _, line := range msg.Payload {
			m.seq++
			m.entries = append(m.entries, entry{
				key:  fmt.Sprintf("line-%d", m.seq),
				text: line,
			})
		}
		m.container.SetItems(m.entries)
		return m, m.listener.Listen()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.cancel()
			_ = m.watcher.Stop()
			return m, tea.Quit
		case key.Matches(msg, keys.Down):
			engine.ScrollBy(1)
		case key.Matches(msg, keys.Up):
			engine.ScrollBy(-1)
			m.follow = false
		case key.Matches(msg, keys.Top):
			engine.ScrollToTop()
			m.follow = false
		case key.Matches(msg, keys.Bottom):
			engine.ScrollToBottom()
			m.follow = true
		case key.Matches(msg, keys.Follow):
			m.follow = !m.follow
			if m.follow {
				engine.ScrollToBottom()
			}
		}
		return m, nil

	case tea.MouseMsg:
		_, cmd := m.container.Update(msg)
		if !engine.AtBottom() {
			m.follow = false
		}
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	// Render once so freshly appended lines get measured, then pin to the
	// bottom before the final render when following.
	view := m.container.View()
	if m.follow && !m.container.Engine().AtBottom() {
		m.container.Engine().ScrollToBottom()
		view = m.container.View()
	}

	mode := "follow"
	if !m.follow {
		mode = "manual"
	}
	status := fmt.Sprintf(" %s  %d lines  [%s]", m.path, len(m.entries), mode)
	status = runewidth.Truncate(status, m.width, "…")

	return lipgloss.JoinVertical(lipgloss.Left,
		view,
		styles.StatusBarStyle.Render(status),
	)
}
