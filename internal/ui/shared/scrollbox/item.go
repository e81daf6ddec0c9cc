// Package scrollbox provides a scrolling container for variable-height
// content blocks inside a fixed-size viewport. All items stay mounted and
// measured; the container shifts and clips the joined content rather than
// windowing it. The package is split into three layers: ItemMeasurer reports
// rendered heights, Engine owns the height table, offset cache and scroll
// offset, and Navigator adds selection with scroll-into-view on top.
package scrollbox

import (
	"fmt"
	"strings"
)

// Item is one content block in the scrollable sequence.
type Item interface {
	// Key returns a stable identity used to retain measured heights when
	// the sequence changes. An empty key falls back to positional identity.
	Key() string

	// Render returns the block's content rendered at the given width.
	Render(width int) string
}

// Size is a measured width/height pair in terminal cells.
type Size struct {
	Width  int
	Height int
}

// Align controls where an item is placed within the viewport when it is
// scrolled into view.
type Align int

const (
	// AlignAuto moves the minimum distance needed to make the item visible.
	AlignAuto Align = iota
	// AlignTop puts the item's first row at the viewport's first row.
	AlignTop
	// AlignBottom puts the item's last row at the viewport's last row.
	AlignBottom
	// AlignCenter centers the item within the viewport.
	AlignCenter
)

func (a Align) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	case AlignCenter:
		return "center"
	default:
		return "auto"
	}
}

// ParseAlign parses an alignment name as used in config files.
// Unknown names return an error; the zero value AlignAuto is still returned
// so callers can ignore the error and fall back.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return AlignAuto, nil
	case "top":
		return AlignTop, nil
	case "bottom":
		return AlignBottom, nil
	case "center":
		return AlignCenter, nil
	}
	return AlignAuto, fmt.Errorf("unknown alignment %q (want auto, top, bottom or center)", s)
}

// positionalKey is the height-table key for items without a stable key.
func positionalKey(index int) string {
	return fmt.Sprintf("#%d", index)
}
