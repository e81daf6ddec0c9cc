package scrollbox

import (
	"github.com/zjrosen/scrollbox/internal/log"
)

// Scheduler defers a continuation until after the next layout pass. The
// default scheduler queues continuations and runs them on Flush, which the
// container calls once measurement for the current pass has settled.
type Scheduler func(fn func())

// Navigator layers a selected-index concept on top of an Engine, with
// automatic scroll-into-view. Selection state changes synchronously; the
// geometry-dependent scroll adjustment is deferred by one scheduling tick
// because item layout may not yet reflect a just-changed item count.
//
// The Navigator holds no privileged access to the Engine; it only calls
// its public methods.
type Navigator struct {
	engine   *Engine
	selected int
	align    Align
	onChange func(index int)
	schedule Scheduler
	queue    []func()
}

// NavOption configures a Navigator.
type NavOption func(*Navigator)

// WithDefaultAlign sets the alignment used by Select when none is given.
func WithDefaultAlign(a Align) NavOption {
	return func(n *Navigator) { n.align = a }
}

// WithSelectionChanged installs a notification fired when the selected
// index changes.
func WithSelectionChanged(fn func(index int)) NavOption {
	return func(n *Navigator) { n.onChange = fn }
}

// WithScheduler replaces the deferred-scroll scheduler. Tests use this to
// run scroll-into-view synchronously or to capture the continuation.
func WithScheduler(s Scheduler) NavOption {
	return func(n *Navigator) { n.schedule = s }
}

// NewNavigator creates a Navigator over the given engine with nothing
// selected.
func NewNavigator(engine *Engine, opts ...NavOption) *Navigator {
	n := &Navigator{engine: engine, selected: -1}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SelectedIndex returns the selected index, -1 when nothing is selected.
func (n *Navigator) SelectedIndex() int { return n.selected }

// DefaultAlign returns the alignment Select uses when none is given.
func (n *Navigator) DefaultAlign() Align { return n.align }

// SetDefaultAlign changes the alignment Select uses when none is given.
// It affects future selections only.
func (n *Navigator) SetDefaultAlign(a Align) { n.align = a }

// ItemCount returns the number of items in the underlying engine.
func (n *Navigator) ItemCount() int { return n.engine.Count() }

// Select selects the given index using the default alignment. The index is
// clamped to [0, ItemCount-1]; an empty sequence clears the selection.
// Returns the resulting selected index.
func (n *Navigator) Select(index int) int {
	return n.SelectAligned(index, n.align)
}

// SelectAligned selects the given index and scrolls it into view with an
// explicit alignment. The scroll adjustment runs after the next layout
// pass, not synchronously.
func (n *Navigator) SelectAligned(index int, align Align) int {
	count := n.engine.Count()
	if count == 0 {
		n.setSelected(-1)
		return -1
	}
	if index < 0 {
		index = 0
	} else if index > count-1 {
		index = count - 1
	}
	n.setSelected(index)
	n.deferScroll(index, align)
	return index
}

// SelectNext selects the following item, a no-op at the last index.
func (n *Navigator) SelectNext() int {
	if n.selected >= n.engine.Count()-1 {
		return n.selected
	}
	return n.Select(n.selected + 1)
}

// SelectPrevious selects the preceding item, a no-op at index 0.
func (n *Navigator) SelectPrevious() int {
	if n.selected <= 0 {
		return n.selected
	}
	return n.Select(n.selected - 1)
}

// SelectFirst selects index 0 with top alignment so the very first row ends
// up flush against the viewport's top edge.
func (n *Navigator) SelectFirst() int {
	return n.SelectAligned(0, AlignTop)
}

// SelectLast selects the last index with bottom alignment so the very last
// row ends up flush against the viewport's bottom edge.
func (n *Navigator) SelectLast() int {
	return n.SelectAligned(n.engine.Count()-1, AlignBottom)
}

// IsSelectedVisible reports whether the selected item currently overlaps
// the viewport.
func (n *Navigator) IsSelectedVisible() bool {
	l, ok := n.engine.ItemLayout(n.selected)
	return ok && l.Visible
}

// ScrollToItem scrolls the item at index into view immediately using the
// given alignment. Unknown indices and unmeasured items are a no-op.
func (n *Navigator) ScrollToItem(index int, align Align) {
	l, ok := n.engine.ItemLayout(index)
	if !ok || l.Height == 0 {
		return
	}
	vh := n.engine.ViewportHeight()
	current := n.engine.ScrollOffset()

	var target int
	switch align {
	case AlignTop:
		target = l.Top
	case AlignBottom:
		target = l.Bottom - vh
	case AlignCenter:
		target = l.Top + l.Height/2 - vh/2
	default: // AlignAuto: minimal movement
		switch {
		case l.Top < current:
			target = l.Top
		case l.Bottom > current+vh:
			target = l.Bottom - vh
		default:
			return
		}
	}
	n.engine.ScrollTo(target)
}

// Flush runs deferred scroll adjustments. The container calls this after
// each render and measurement pass so item geometry is current when the
// adjustment computes its target.
func (n *Navigator) Flush() {
	q := n.queue
	n.queue = nil
	for _, fn := range q {
		fn()
	}
}

func (n *Navigator) setSelected(index int) {
	if index == n.selected {
		return
	}
	n.selected = index
	log.Debug(log.CatNav, "selection changed", "index", index)
	if n.onChange != nil {
		n.onChange(index)
	}
}

func (n *Navigator) deferScroll(index int, align Align) {
	fn := func() { n.ScrollToItem(index, align) }
	if n.schedule != nil {
		n.schedule(fn)
		return
	}
	n.queue = append(n.queue, fn)
}
