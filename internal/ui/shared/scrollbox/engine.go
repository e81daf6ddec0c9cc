package scrollbox

import (
	"math"

	"github.com/zjrosen/scrollbox/internal/log"
)

// Callbacks are caller-supplied change notifications. Nil funcs are skipped.
// Every callback fires synchronously from within the mutating call, after
// the engine's own state is consistent.
type Callbacks struct {
	ScrollChanged        func(offset int)
	ContentHeightChanged func(height, previous int)
	ItemHeightChanged    func(index, height, previous int)
	ViewportChanged      func(size, previous Size)
}

// Engine owns the scroll state for a sequence of variable-height items: the
// per-item height table, the cumulative offset cache, content and viewport
// height, and the current scroll offset.
//
// The engine never measures anything itself. Heights arrive through
// ReportItemHeight (normally from an ItemMeasurer) and the viewport size
// through SetViewportSize. All operations are synchronous; there is no
// internal locking because the component is single-goroutine by design,
// driven from the host program's update loop.
type Engine struct {
	items []Item
	// keys[i] is the resolved height-table key for items[i]: the item's
	// stable key, or a positional fallback when the key is empty.
	keys []string

	heights map[string]int

	// offsets[i] is the cumulative top offset of item i. Entries at or
	// beyond firstInvalid are stale and recomputed on demand; offsets[0]
	// is always 0.
	offsets      []int
	firstInvalid int

	contentHeight int
	viewport      Size
	scrollOffset  int

	// generation forces every adapter to re-measure; itemGens force
	// individual items. Adapters observe the sum via MeasureGeneration.
	generation int
	itemGens   map[string]int

	anchoring bool
	callbacks Callbacks
}

// Option configures an Engine.
type Option func(*Engine)

// WithCallbacks installs change notifications.
func WithCallbacks(cb Callbacks) Option {
	return func(e *Engine) { e.callbacks = cb }
}

// WithoutAnchoring disables scroll anchoring. By default, when an item that
// lies entirely above the viewport changes height, the scroll offset shifts
// by the same delta so the visible content does not jump.
func WithoutAnchoring() Option {
	return func(e *Engine) { e.anchoring = false }
}

// New creates an empty Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		heights:   make(map[string]int),
		itemGens:  make(map[string]int),
		anchoring: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetItems replaces the item sequence. Measured heights are retained for
// keys that still exist in the new sequence and discarded otherwise. The
// offset cache is reset and the content height resummed from scratch.
func (e *Engine) SetItems(items []Item) {
	keys := make([]string, len(items))
	heights := make(map[string]int, len(items))
	itemGens := make(map[string]int)
	for i, it := range items {
		k := it.Key()
		if k == "" {
			k = positionalKey(i)
		}
		keys[i] = k
		if h, ok := e.heights[k]; ok {
			heights[k] = h
		}
		if g, ok := e.itemGens[k]; ok {
			itemGens[k] = g
		}
	}

	e.items = items
	e.keys = keys
	e.heights = heights
	e.itemGens = itemGens
	e.offsets = make([]int, len(items))
	e.firstInvalid = 0

	previous := e.contentHeight
	total := 0
	for _, k := range keys {
		total += heights[k]
	}
	e.contentHeight = total

	before := e.scrollOffset
	e.clampScroll()

	log.Debug(log.CatEngine, "items replaced", "count", len(items), "contentHeight", total)
	if total != previous && e.callbacks.ContentHeightChanged != nil {
		e.callbacks.ContentHeightChanged(total, previous)
	}
	if e.scrollOffset != before && e.callbacks.ScrollChanged != nil {
		e.callbacks.ScrollChanged(e.scrollOffset)
	}
}

// Count returns the number of items.
func (e *Engine) Count() int { return len(e.items) }

// Items returns the current item sequence.
func (e *Engine) Items() []Item { return e.items }

// ReportItemHeight records a measured height for the item at index. It is
// the single mutation path for the height table: it invalidates the offset
// cache from index+1, adjusts the content height by the delta, applies
// scroll anchoring when the item sits entirely above the viewport, and
// re-clamps the scroll offset. Out-of-range indices and negative heights
// are ignored.
func (e *Engine) ReportItemHeight(index, height int) {
	if index < 0 || index >= len(e.items) || height < 0 {
		return
	}
	key := e.keys[index]
	previous := e.heights[key]
	if height == previous {
		return
	}

	// The item's own top offset is unaffected by its height, so it is safe
	// to resolve before invalidating.
	top := e.offsetOf(index)
	bottom := top + previous

	e.heights[key] = height
	if index+1 < e.firstInvalid {
		e.firstInvalid = index + 1
	}

	previousContent := e.contentHeight
	e.contentHeight += height - previous

	before := e.scrollOffset
	if e.anchoring && e.scrollOffset > 0 && bottom <= e.scrollOffset {
		// The resized item is entirely above (or touching) the viewport
		// top. Shift by the delta so visible content stays put.
		e.scrollOffset += height - previous
	}
	e.clampScroll()

	log.Debug(log.CatEngine, "item height changed",
		"index", index, "height", height, "previous", previous)
	if e.callbacks.ItemHeightChanged != nil {
		e.callbacks.ItemHeightChanged(index, height, previous)
	}
	if e.callbacks.ContentHeightChanged != nil {
		e.callbacks.ContentHeightChanged(e.contentHeight, previousContent)
	}
	if e.scrollOffset != before && e.callbacks.ScrollChanged != nil {
		e.callbacks.ScrollChanged(e.scrollOffset)
	}
}

// SetViewportSize records the measured viewport size and re-clamps the
// scroll offset against the new maximum.
func (e *Engine) SetViewportSize(size Size) {
	if size == e.viewport {
		return
	}
	previous := e.viewport
	e.viewport = size
	if e.callbacks.ViewportChanged != nil {
		e.callbacks.ViewportChanged(size, previous)
	}
	e.setScroll(e.scrollOffset)
}

// ScrollTo scrolls to the given offset, clamped to [0, MaxScrollOffset].
func (e *Engine) ScrollTo(offset int) {
	e.setScroll(offset)
}

// ScrollBy scrolls by delta rows relative to the current offset.
func (e *Engine) ScrollBy(delta int) {
	e.setScroll(e.scrollOffset + delta)
}

// ScrollToTop scrolls to offset 0.
func (e *Engine) ScrollToTop() {
	e.setScroll(0)
}

// ScrollToBottom scrolls to the maximum offset.
func (e *Engine) ScrollToBottom() {
	e.setScroll(e.MaxScrollOffset())
}

// ScrollToFraction scrolls to a position given as a fraction of the
// scrollable range. Non-finite input (NaN, ±Inf) is rejected with no state
// change; out-of-range values clamp to [0, 1].
func (e *Engine) ScrollToFraction(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		log.Warn(log.CatEngine, "rejecting non-finite scroll fraction")
		return
	}
	f = math.Min(math.Max(f, 0), 1)
	e.setScroll(int(f * float64(e.MaxScrollOffset())))
}

// ScrollOffset returns the current scroll offset.
func (e *Engine) ScrollOffset() int { return e.scrollOffset }

// ContentHeight returns the summed height of all items.
func (e *Engine) ContentHeight() int { return e.contentHeight }

// ViewportHeight returns the last measured viewport height.
func (e *Engine) ViewportHeight() int { return e.viewport.Height }

// ViewportWidth returns the last measured viewport width.
func (e *Engine) ViewportWidth() int { return e.viewport.Width }

// MaxScrollOffset returns max(0, contentHeight - viewportHeight).
func (e *Engine) MaxScrollOffset() int {
	if e.contentHeight <= e.viewport.Height {
		return 0
	}
	return e.contentHeight - e.viewport.Height
}

// AtTop reports whether the viewport is scrolled to the top.
func (e *Engine) AtTop() bool { return e.scrollOffset == 0 }

// AtBottom reports whether the viewport is scrolled to the bottom.
func (e *Engine) AtBottom() bool { return e.scrollOffset >= e.MaxScrollOffset() }

// ScrollFraction returns the scroll position as a fraction of the
// scrollable range, 0 when the content fits the viewport.
func (e *Engine) ScrollFraction() float64 {
	maxOffset := e.MaxScrollOffset()
	if maxOffset <= 0 {
		return 0
	}
	return float64(e.scrollOffset) / float64(maxOffset)
}

// ItemHeight returns the measured height of the item at index, 0 for
// unmeasured or out-of-range items.
func (e *Engine) ItemHeight(index int) int {
	if index < 0 || index >= len(e.items) {
		return 0
	}
	return e.heights[e.keys[index]]
}

// Position is an item's vertical placement within the content.
type Position struct {
	Top    int
	Height int
}

// Layout extends Position with visibility against the current viewport.
type Layout struct {
	Top    int
	Height int
	Bottom int

	// Visible is true when the item's span overlaps the viewport span.
	Visible bool
	// VisibleTop is the item's first visible row in viewport coordinates.
	VisibleTop int
	// VisibleHeight is the overlap between item and viewport, 0 when not
	// visible.
	VisibleHeight int
}

// ItemPosition returns the item's top offset and height. The second return
// is false for indices outside [0, Count).
func (e *Engine) ItemPosition(index int) (Position, bool) {
	if index < 0 || index >= len(e.items) {
		return Position{}, false
	}
	return Position{Top: e.offsetOf(index), Height: e.heights[e.keys[index]]}, true
}

// ItemLayout returns the item's placement plus its visibility computed
// against the current scroll offset and viewport height. The second return
// is false for indices outside [0, Count).
func (e *Engine) ItemLayout(index int) (Layout, bool) {
	if index < 0 || index >= len(e.items) {
		return Layout{}, false
	}
	top := e.offsetOf(index)
	h := e.heights[e.keys[index]]
	l := Layout{Top: top, Height: h, Bottom: top + h}

	viewTop := e.scrollOffset
	viewBottom := e.scrollOffset + e.viewport.Height
	l.Visible = l.Bottom > viewTop && l.Top < viewBottom
	if l.Visible {
		l.VisibleTop = max(0, l.Top-viewTop)
		l.VisibleHeight = min(l.Bottom, viewBottom) - max(l.Top, viewTop)
	}
	return l, true
}

// Remeasure forces re-measurement of the viewport and of every item by
// bumping the global measurement generation, then re-clamps the scroll
// offset. Adapters observe the generation through MeasureGeneration and
// re-measure on their next layout pass.
func (e *Engine) Remeasure() {
	e.generation++
	e.setScroll(e.scrollOffset)
	log.Debug(log.CatEngine, "full remeasure requested", "generation", e.generation)
}

// RemeasureItem forces re-measurement of a single item by bumping its
// generation token. Any resulting height change flows through
// ReportItemHeight and the normal incremental invalidation, making this
// strictly cheaper than a full Remeasure.
func (e *Engine) RemeasureItem(index int) {
	if index < 0 || index >= len(e.items) {
		return
	}
	e.itemGens[e.keys[index]]++
}

// MeasureGeneration returns the generation token the item's adapter should
// observe: the global generation plus the item's own.
func (e *Engine) MeasureGeneration(index int) int {
	if index < 0 || index >= len(e.items) {
		return e.generation
	}
	return e.generation + e.itemGens[e.keys[index]]
}

// setScroll clamps and applies a scroll target, firing ScrollChanged only
// when the clamped value differs from the current offset.
func (e *Engine) setScroll(offset int) {
	maxOffset := e.MaxScrollOffset()
	if offset < 0 {
		offset = 0
	} else if offset > maxOffset {
		offset = maxOffset
	}
	if offset == e.scrollOffset {
		return
	}
	e.scrollOffset = offset
	if e.callbacks.ScrollChanged != nil {
		e.callbacks.ScrollChanged(offset)
	}
}

// clampScroll snaps the offset into the valid range without notifying.
// Callers fire ScrollChanged themselves once their whole mutation is done.
func (e *Engine) clampScroll() {
	maxOffset := e.MaxScrollOffset()
	if e.scrollOffset < 0 {
		e.scrollOffset = 0
	} else if e.scrollOffset > maxOffset {
		e.scrollOffset = maxOffset
	}
}

// offsetOf returns the cumulative top offset of the item at index,
// recomputing stale cache entries on demand. Reads below firstInvalid are
// O(1); otherwise the walk resumes from the validity frontier and never
// touches entries past the queried index.
func (e *Engine) offsetOf(index int) int {
	if index < e.firstInvalid {
		return e.offsets[index]
	}
	start := e.firstInvalid
	if start == 0 {
		e.offsets[0] = 0
		start = 1
	}
	for i := start; i <= index; i++ {
		e.offsets[i] = e.offsets[i-1] + e.heights[e.keys[i-1]]
	}
	e.firstInvalid = index + 1
	return e.offsets[index]
}
