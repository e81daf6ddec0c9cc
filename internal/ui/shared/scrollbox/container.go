package scrollbox

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/scrollbox/internal/log"
)

// Render cache lifetimes. Entries are keyed by item key, width and
// measurement generation, so expiry only matters for abandoned entries.
const (
	renderCacheExpiration = 10 * time.Minute
	renderCacheCleanup    = 30 * time.Minute
)

// DefaultWheelLines is how many rows a mouse wheel notch scrolls.
const DefaultWheelLines = 3

// Container is a Bubble Tea component that renders an item sequence through
// an Engine. Every item is rendered each pass (no windowing); the joined
// content is shifted up by the scroll offset and clipped to the viewport
// height. After each render it runs the measurement pass and flushes the
// navigator's deferred scroll adjustments, which is the component's "after
// layout commit" point.
type Container struct {
	engine    *Engine
	navigator *Navigator

	width  int
	height int

	// debug disables overflow clipping for visual inspection.
	debug      bool
	scrollbar  bool
	wheelLines int
	zonePrefix string

	measurers map[string]*ItemMeasurer
	ordered   []*ItemMeasurer
	rendered  []string
	// committed[i] records that slot i has been rendered at least once.
	// Without it an item that legitimately renders "" would read as "not
	// mounted" forever, even though it still occupies one joined row.
	committed []bool
	cache     *gocache.Cache
}

// ContainerOption configures a Container.
type ContainerOption func(*Container)

// WithDebugOverflow disables clipping so content taller than the viewport
// spills out. Useful when inspecting layout issues.
func WithDebugOverflow() ContainerOption {
	return func(c *Container) { c.debug = true }
}

// WithScrollbar reserves the rightmost column for a proportional scrollbar.
func WithScrollbar() ContainerOption {
	return func(c *Container) { c.scrollbar = true }
}

// WithWheelLines sets how many rows a wheel notch scrolls.
func WithWheelLines(n int) ContainerOption {
	return func(c *Container) {
		if n > 0 {
			c.wheelLines = n
		}
	}
}

// WithZonePrefix enables bubblezone marks around each item so mouse clicks
// can be mapped to items. The prefix namespaces the zone IDs.
func WithZonePrefix(prefix string) ContainerOption {
	return func(c *Container) { c.zonePrefix = prefix }
}

// WithEngineOptions forwards options to the underlying Engine.
func WithEngineOptions(opts ...Option) ContainerOption {
	return func(c *Container) {
		for _, opt := range opts {
			opt(c.engine)
		}
	}
}

// WithNavigatorOptions forwards options to the underlying Navigator.
func WithNavigatorOptions(opts ...NavOption) ContainerOption {
	return func(c *Container) {
		for _, opt := range opts {
			opt(c.navigator)
		}
	}
}

// NewContainer creates an empty container.
func NewContainer(opts ...ContainerOption) *Container {
	c := &Container{
		engine:     New(),
		wheelLines: DefaultWheelLines,
		measurers:  make(map[string]*ItemMeasurer),
		cache:      gocache.New(renderCacheExpiration, renderCacheCleanup),
	}
	c.navigator = NewNavigator(c.engine)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine exposes the scroll engine for imperative control and queries.
func (c *Container) Engine() *Engine { return c.engine }

// Navigator exposes the selection navigator.
func (c *Container) Navigator() *Navigator { return c.navigator }

// SetItems replaces the item sequence. Adapters are retained by key so
// previously measured heights keep reporting against the right entries
// after a reorder.
func (c *Container) SetItems(items []Item) {
	c.engine.SetItems(items)

	measurers := make(map[string]*ItemMeasurer, len(items))
	ordered := make([]*ItemMeasurer, len(items))
	rendered := make([]string, len(items))
	committed := make([]bool, len(items))
	for i := range items {
		key := c.engine.keys[i]
		m, ok := c.measurers[key]
		if !ok {
			m = NewItemMeasurer(c.elementAt(i), i, c.engine.ReportItemHeight)
		} else {
			m.el = c.elementAt(i)
		}
		measurers[key] = m
		ordered[i] = m
	}
	c.measurers = measurers
	c.ordered = ordered
	c.rendered = rendered
	c.committed = committed
}

// elementAt returns the measurement handle for slot i: the rendered string
// of the current pass, unresolved until the first render commits. An empty
// render is a real, one-row element.
func (c *Container) elementAt(i int) Element {
	return ElementFunc(func() (Size, bool) {
		if i >= len(c.rendered) || !c.committed[i] {
			return Size{}, false
		}
		return MeasureString(c.rendered[i]), true
	})
}

// SetSize sets the outer size of the container and re-measures the
// viewport. Width changes cascade into item re-measurement because width is
// one of the adapter's triggers.
func (c *Container) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.engine.SetViewportSize(Size{Width: c.contentWidth(), Height: height})
}

// contentWidth is the width items render at, minus the scrollbar column.
func (c *Container) contentWidth() int {
	if c.scrollbar {
		return max(0, c.width-1)
	}
	return c.width
}

// Init implements tea.Model.
func (c *Container) Init() tea.Cmd { return nil }

// Update handles mouse scrolling and click-to-select. Keyboard handling is
// left to the embedding model, which owns the key map.
func (c *Container) Update(msg tea.Msg) (*Container, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			c.engine.ScrollBy(-c.wheelLines)
		case tea.MouseButtonWheelDown:
			c.engine.ScrollBy(c.wheelLines)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && c.zonePrefix != "" {
				for i := 0; i < c.engine.Count(); i++ {
					if z := zone.Get(c.zoneID(i)); z != nil && z.InBounds(msg) {
						c.navigator.Select(i)
						break
					}
				}
			}
		}
	}
	return c, nil
}

func (c *Container) zoneID(i int) string {
	return fmt.Sprintf("%s-item-%d", c.zonePrefix, i)
}

// View renders all items, runs the measurement pass against the freshly
// rendered content, flushes deferred scroll adjustments, and returns the
// clipped viewport (plus scrollbar when enabled).
func (c *Container) View() string {
	items := c.engine.Items()
	cw := c.contentWidth()

	blocks := make([]string, len(items))
	for i, it := range items {
		m := c.ordered[i]
		m.Sync(i, cw, c.engine.MeasureGeneration(i))
		s := c.renderItem(i, it, cw)
		if c.zonePrefix != "" {
			s = zone.Mark(c.zoneID(i), s)
		}
		c.rendered[i] = s
		c.committed[i] = true
		blocks[i] = s
	}
	content := strings.Join(blocks, "\n")

	// Layout commit: measure, then let deferred scroll-into-view run
	// against the settled geometry.
	for _, m := range c.ordered {
		m.MeasureAfterLayout()
	}
	c.navigator.Flush()

	view := content
	if !c.debug {
		view = clipRows(content, c.engine.ScrollOffset(), c.engine.ViewportHeight())
	}
	if c.scrollbar && !c.debug {
		view = lipgloss.JoinHorizontal(lipgloss.Top, view, RenderScrollbar(scrollbarConfigFor(c.engine)))
	}
	return view
}

// renderItem returns the item's rendered block, cached by key, width and
// measurement generation. Bumping a generation token therefore forces both
// a re-render and a re-measure of the block.
func (c *Container) renderItem(i int, it Item, width int) string {
	key := fmt.Sprintf("%s|%d|%d", c.engine.keys[i], width, c.engine.MeasureGeneration(i))
	if cached, found := c.cache.Get(key); found {
		if s, ok := cached.(string); ok {
			return s
		}
		log.Warn(log.CatUI, "render cache entry has wrong type", "key", key)
	}
	s := it.Render(width)
	c.cache.Set(key, s, gocache.DefaultExpiration)
	return s
}

// clipRows keeps height rows of content starting at offset, padding with
// blank rows when the content runs out. This is the shift-and-clip
// mechanism: content is moved up by the scroll offset and everything
// outside the viewport is dropped.
func clipRows(content string, offset, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	out := make([]string, 0, height)
	for row := offset; row < offset+height; row++ {
		if row >= 0 && row < len(lines) {
			out = append(out, lines[row])
		} else {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}
