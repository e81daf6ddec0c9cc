// Package feed is the default demo: a scrollable feed of markdown cards of
// varying height, navigated by selection with scroll-into-view.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/scrollbox/internal/config"
	"github.com/zjrosen/scrollbox/internal/log"
	"github.com/zjrosen/scrollbox/internal/ui/shared/logoverlay"
	"github.com/zjrosen/scrollbox/internal/ui/shared/markdown"
	"github.com/zjrosen/scrollbox/internal/ui/shared/scrollbox"
	"github.com/zjrosen/scrollbox/internal/ui/styles"
)

// card is one feed entry rendered as markdown.
type card struct {
	id       string
	title    string
	body     string
	selected func() bool
}

func (c card) Key() string { return c.id }

func (c card) Render(width int) string {
	if width <= 0 {
		return ""
	}
	src := fmt.Sprintf("## %s\n\n%s", c.title, c.body)
	out := strings.TrimRight(markdown.RenderAt(width, src), "\n")
	if c.selected != nil && c.selected() {
		return lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(styles.HighlightColor).
			Render(out)
	}
	return out
}

// keyMap defines the feed key bindings.
type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	First    key.Binding
	Last     key.Binding
	HalfDown key.Binding
	HalfUp   key.Binding
	Center   key.Binding
	Align    key.Binding
	Refresh  key.Binding
	Logs     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.First, k.Last, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last},
		{k.HalfDown, k.HalfUp, k.Center, k.Align, k.Refresh},
		{k.Logs, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Next:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next")),
	Prev:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "prev")),
	First:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
	Last:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
	HalfDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
	HalfUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
	Center:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "center selection")),
	Align:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "cycle alignment")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "remeasure")),
	Logs:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logs")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the feed demo model.
type Model struct {
	container *scrollbox.Container
	overlay   logoverlay.Model
	help      help.Model
	cfg       config.Config

	width  int
	height int
	status string
}

// New creates the feed demo from config.
func New(cfg config.Config) Model {
	align, _ := scrollbox.ParseAlign(cfg.UI.Alignment)

	opts := []scrollbox.ContainerOption{
		scrollbox.WithZonePrefix("feed"),
		scrollbox.WithWheelLines(cfg.UI.WheelLines),
		scrollbox.WithNavigatorOptions(scrollbox.WithDefaultAlign(align)),
	}
	if cfg.UI.ShowScrollbar {
		opts = append(opts, scrollbox.WithScrollbar())
	}
	if cfg.UI.DebugOverflow {
		opts = append(opts, scrollbox.WithDebugOverflow())
	}

	m := Model{
		container: scrollbox.NewContainer(opts...),
		overlay:   logoverlay.New(context.Background()),
		help:      help.New(),
		cfg:       cfg,
	}
	m.container.SetItems(sampleCards(m.container.Navigator()))
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.overlay.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	nav := m.container.Navigator()
	engine := m.container.Engine()

	// The overlay consumes log events in the background and owns all input
	// while it is open.
	switch msg.(type) {
	case log.LogEvent, logoverlay.CloseMsg:
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}
	if m.overlay.Visible() {
		if _, isResize := msg.(tea.WindowSizeMsg); !isResize {
			var cmd tea.Cmd
			m.overlay, cmd = m.overlay.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.overlay.SetSize(msg.Width, msg.Height)
		vw, _ := config.ResolveDimension(m.cfg.Viewport.Width, msg.Width)
		vh, _ := config.ResolveDimension(m.cfg.Viewport.Height, msg.Height-1) // status bar row
		m.container.SetSize(vw, vh)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Logs):
			m.overlay.Toggle()
			return m, nil
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, keys.Next):
			m.moveSelection(nav.SelectNext)
		case key.Matches(msg, keys.Prev):
			m.moveSelection(nav.SelectPrevious)
		case key.Matches(msg, keys.First):
			m.moveSelection(nav.SelectFirst)
		case key.Matches(msg, keys.Last):
			m.moveSelection(nav.SelectLast)
		case key.Matches(msg, keys.HalfDown):
			engine.ScrollBy(engine.ViewportHeight() / 2)
		case key.Matches(msg, keys.HalfUp):
			engine.ScrollBy(-engine.ViewportHeight() / 2)
		case key.Matches(msg, keys.Center):
			nav.ScrollToItem(nav.SelectedIndex(), scrollbox.AlignCenter)
		case key.Matches(msg, keys.Align):
			next := nextAlign(nav.DefaultAlign())
			nav.SetDefaultAlign(next)
			m.status = fmt.Sprintf("align %s", next)
			if m.cfg.Path != "" {
				if err := config.SaveAlignment(m.cfg.Path, next.String()); err != nil {
					log.ErrorErr(log.CatConfig, "saving alignment", err)
				}
			}
		case key.Matches(msg, keys.Refresh):
			m.container.Engine().Remeasure()
			m.status = "remeasured"
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.moveSelection(func() int {
			_, cmd = m.container.Update(msg)
			return m.container.Navigator().SelectedIndex()
		})
		return m, cmd
	}

	return m, nil
}

// moveSelection runs a selection mutation and forces the cards that gained
// or lost the highlight to re-render. The highlight is drawn by the card
// itself, outside the normal invalidation triggers, so this is the
// documented RemeasureItem case: content changed without a prop change.
func (m *Model) moveSelection(move func() int) {
	engine := m.container.Engine()
	before := m.container.Navigator().SelectedIndex()
	after := move()
	if after != before {
		engine.RemeasureItem(before)
		engine.RemeasureItem(after)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	view := m.container.View()

	nav := m.container.Navigator()
	engine := m.container.Engine()
	status := fmt.Sprintf(" %d/%d  offset %d/%d  %s",
		nav.SelectedIndex()+1, nav.ItemCount(),
		engine.ScrollOffset(), engine.MaxScrollOffset(), m.status)
	status = runewidth.Truncate(status, m.width, "…")

	bar := m.help.View(keys)
	if !m.help.ShowAll {
		bar = styles.StatusBarStyle.Render(status)
	}

	screen := zone.Scan(lipgloss.JoinVertical(lipgloss.Left, view, bar))
	return m.overlay.Overlay(screen)
}

// nextAlign steps through the scroll-into-view alignments in a fixed cycle:
// auto, top, center, bottom.
func nextAlign(a scrollbox.Align) scrollbox.Align {
	switch a {
	case scrollbox.AlignAuto:
		return scrollbox.AlignTop
	case scrollbox.AlignTop:
		return scrollbox.AlignCenter
	case scrollbox.AlignCenter:
		return scrollbox.AlignBottom
	default:
		return scrollbox.AlignAuto
	}
}

// sampleCards builds the demo content. The selected-state closure lets a
// card restyle itself without the sequence changing identity.
func sampleCards(nav *scrollbox.Navigator) []scrollbox.Item {
	bodies := []struct {
		title string
		body  string
	}{
		{"Welcome", "This feed is rendered through a **scrolling container**: every card is measured after render and the viewport clips the joined content.\n\n- `j`/`k` move the selection\n- `g`/`G` jump to the ends\n- the bar on the right is proportional"},
		{"Variable heights", "Cards wrap at the viewport width, so their heights change when the terminal is resized.\n\n```go\nengine.ItemLayout(i) // {Top, Height, Bottom, ...}\n```"},
		{"Scroll anchoring", "When a card above the viewport grows or shrinks, the scroll offset shifts by the same delta. The content you are looking at stays put."},
		{"Alignment", "Press `z` to center the selected card. `g` pins the first row to the top edge; `G` pins the last row to the bottom edge."},
		{"Lists",
			"1. measured once\n2. cached by width\n3. invalidated by generation\n\n> Bump a card's generation to force a re-render and re-measure."},
		{"Longer card", strings.Repeat("Some paragraphs exist mostly to be taller than the viewport, which is the whole point of a scroll container. ", 6)},
		{"The end", "Press `q` to quit."},
	}

	items := make([]scrollbox.Item, len(bodies))
	for i, b := range bodies {
		index := i
		items[i] = card{
			id:       uuid.NewString(),
			title:    b.title,
			body:     b.body,
			selected: func() bool { return nav.SelectedIndex() == index },
		}
	}
	return items
}
