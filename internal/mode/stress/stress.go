// Package stress is a demo with a large generated item sequence, used to
// eyeball scrolling cost and the incremental re-measure path.
package stress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/scrollbox/internal/config"
	"github.com/zjrosen/scrollbox/internal/ui/shared/scrollbox"
	"github.com/zjrosen/scrollbox/internal/ui/styles"
)

// block is a generated item whose body can grow in place. Growth is
// invisible to the container until the item's generation is bumped, which
// is exactly what the "x" key demonstrates.
type block struct {
	id    string
	index int
	extra *int // grown paragraphs, shared so mutation survives copies
}

func (b block) Key() string { return b.id }

func (b block) Render(width int) string {
	if width <= 0 {
		return ""
	}
	// Deterministic variable length: 1..4 sentences by index.
	n := b.index%4 + 1 + *b.extra
	sentence := fmt.Sprintf("Block %d repeats itself to fill space. ", b.index)
	text := strings.Repeat(sentence, n)
	return wordwrap.String(fmt.Sprintf("#%04d %s", b.index, text), width)
}

type keyMap struct {
	Down    key.Binding
	Up      key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Page    key.Binding
	PageUp  key.Binding
	Grow    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Down:    key.NewBinding(key.WithKeys("j", "down")),
	Up:      key.NewBinding(key.WithKeys("k", "up")),
	Top:     key.NewBinding(key.WithKeys("g", "home")),
	Bottom:  key.NewBinding(key.WithKeys("G", "end")),
	Page:    key.NewBinding(key.WithKeys("ctrl+d", "pgdown")),
	PageUp:  key.NewBinding(key.WithKeys("ctrl+u", "pgup")),
	Grow:    key.NewBinding(key.WithKeys("x")),
	Refresh: key.NewBinding(key.WithKeys("r")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// Model is the stress demo model.
type Model struct {
	container *scrollbox.Container
	blocks    []block
	cfg       config.Config

	width  int
	height int
	status string
}

// New creates the stress demo with count generated blocks.
func New(cfg config.Config, count int) Model {
	if count <= 0 {
		count = 1000
	}

	align, _ := scrollbox.ParseAlign(cfg.UI.Alignment)
	opts := []scrollbox.ContainerOption{
		scrollbox.WithWheelLines(cfg.UI.WheelLines),
		scrollbox.WithNavigatorOptions(scrollbox.WithDefaultAlign(align)),
	}
	if cfg.UI.ShowScrollbar {
		opts = append(opts, scrollbox.WithScrollbar())
	}

	blocks := make([]block, count)
	items := make([]scrollbox.Item, count)
	for i := range blocks {
		extra := 0
		blocks[i] = block{id: fmt.Sprintf("block-%d", i), index: i, extra: &extra}
		items[i] = blocks[i]
	}

	m := Model{
		container: scrollbox.NewContainer(opts...),
		blocks:    blocks,
		cfg:       cfg,
	}
	m.container.SetItems(items)
	m.container.Navigator().SelectFirst()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	nav := m.container.Navigator()
	engine := m.container.Engine()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.container.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Down):
			nav.SelectNext()
		case key.Matches(msg, keys.Up):
			nav.SelectPrevious()
		case key.Matches(msg, keys.Top):
			nav.SelectFirst()
		case key.Matches(msg, keys.Bottom):
			nav.SelectLast()
		case key.Matches(msg, keys.Page):
			engine.ScrollBy(engine.ViewportHeight())
		case key.Matches(msg, keys.PageUp):
			engine.ScrollBy(-engine.ViewportHeight())
		case key.Matches(msg, keys.Grow):
			// Grow the selected block in place, then force just that one
			// item through the measurement path.
			if i := nav.SelectedIndex(); i >= 0 {
				*m.blocks[i].extra++
				engine.RemeasureItem(i)
				m.status = fmt.Sprintf("grew block %d", i)
			}
		case key.Matches(msg, keys.Refresh):
			engine.Remeasure()
			m.status = "full remeasure"
		}
		return m, nil

	case tea.MouseMsg:
		_, cmd := m.container.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	view := m.container.View()

	engine := m.container.Engine()
	status := fmt.Sprintf(" %d blocks  content %d rows  offset %d/%d  %s",
		len(m.blocks), engine.ContentHeight(),
		engine.ScrollOffset(), engine.MaxScrollOffset(), m.status)
	status = runewidth.Truncate(status, m.width, "…")

	return lipgloss.JoinVertical(lipgloss.Left,
		view,
		styles.StatusBarStyle.Render(status),
	)
}
