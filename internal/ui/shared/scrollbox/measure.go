package scrollbox

import (
	"github.com/charmbracelet/lipgloss"
)

// Element is a handle to rendered content whose size can be queried after a
// layout pass. Bounds returns false while the element has not been laid out
// yet; the adapter treats that as transient and keeps the previous height.
type Element interface {
	Bounds() (Size, bool)
}

// ElementFunc adapts a plain function to the Element interface.
type ElementFunc func() (Size, bool)

// Bounds implements Element.
func (f ElementFunc) Bounds() (Size, bool) { return f() }

// MeasureString reports the rendered size of a block of terminal content.
// Every non-empty block occupies at least one row.
func MeasureString(s string) Size {
	return Size{Width: lipgloss.Width(s), Height: lipgloss.Height(s)}
}

// ItemMeasurer wraps a single content element and reports its measured
// height to the owner. Measurement runs after a layout commit, and only
// when one of the triggers changed since the last measurement: the item's
// index, the content width, or the measurement generation. The adapter
// never measures speculatively, so internal content changes stay invisible
// until the owner bumps the generation.
type ItemMeasurer struct {
	el        Element
	onMeasure func(index, height int)

	index      int
	width      int
	generation int

	lastHeight int
	measured   bool
	dirty      bool
}

// NewItemMeasurer creates a measurer for one element. onMeasure is invoked
// with (index, height) on the first successful measurement and whenever the
// measured height differs from the last reported one.
func NewItemMeasurer(el Element, index int, onMeasure func(index, height int)) *ItemMeasurer {
	return &ItemMeasurer{
		el:        el,
		onMeasure: onMeasure,
		index:     index,
		dirty:     true,
	}
}

// Sync updates the measurement triggers. Any change marks the measurer
// dirty so the next MeasureAfterLayout call re-queries the element.
func (m *ItemMeasurer) Sync(index, width, generation int) {
	if index != m.index || width != m.width || generation != m.generation {
		m.index = index
		m.width = width
		m.generation = generation
		m.dirty = true
	}
}

// MeasureAfterLayout queries the element size and reports the height when
// it is the first measurement or differs from the last reported value.
// Call it after the host has committed a layout pass. If the element cannot
// resolve a size yet this is a no-op and the measurer stays dirty, so the
// next pass retries.
func (m *ItemMeasurer) MeasureAfterLayout() {
	if !m.dirty {
		return
	}
	size, ok := m.el.Bounds()
	if !ok {
		return
	}
	m.dirty = false
	if m.measured && size.Height == m.lastHeight {
		return
	}
	m.lastHeight = size.Height
	m.measured = true
	if m.onMeasure != nil {
		m.onMeasure(m.index, size.Height)
	}
}

// Measured reports whether at least one measurement succeeded.
func (m *ItemMeasurer) Measured() bool { return m.measured }

// LastHeight returns the last reported height, 0 before the first
// successful measurement.
func (m *ItemMeasurer) LastHeight() int { return m.lastHeight }
