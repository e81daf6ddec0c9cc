package scrollbox

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/scrollbox/internal/ui/styles"
)

// Scrollbar characters
const (
	scrollbarThumbChar = '█' // Full block
	scrollbarTrackChar = '░' // Light shade
)

// ScrollbarConfig configures scrollbar rendering against engine state.
type ScrollbarConfig struct {
	ContentHeight  int // Total content rows
	ViewportHeight int // Visible rows
	ScrollOffset   int // Current scroll position (top row)

	TrackChar string // Track character (default: "░")
	ThumbChar string // Thumb character (default: "█")
}

// DefaultScrollbarConfig returns default configuration.
func DefaultScrollbarConfig() ScrollbarConfig {
	return ScrollbarConfig{
		TrackChar: string(scrollbarTrackChar),
		ThumbChar: string(scrollbarThumbChar),
	}
}

// scrollbarConfigFor snapshots an engine's state into a ScrollbarConfig.
func scrollbarConfigFor(e *Engine) ScrollbarConfig {
	cfg := DefaultScrollbarConfig()
	cfg.ContentHeight = e.ContentHeight()
	cfg.ViewportHeight = e.ViewportHeight()
	cfg.ScrollOffset = e.ScrollOffset()
	return cfg
}

// calculateThumbBounds returns the start row and height of the scroll thumb.
// Thumb height is proportional to the visible/total ratio with a minimum of
// one row; the thumb position is proportional within the remaining track.
func calculateThumbBounds(cfg ScrollbarConfig) (start, height int) {
	if cfg.ContentHeight <= 0 || cfg.ViewportHeight <= 0 {
		return 0, 0
	}

	// Content fits: thumb fills the whole track.
	if cfg.ContentHeight <= cfg.ViewportHeight {
		return 0, cfg.ViewportHeight
	}

	height = max(1, cfg.ViewportHeight*cfg.ViewportHeight/cfg.ContentHeight)

	maxOffset := cfg.ContentHeight - cfg.ViewportHeight
	if maxOffset <= 0 {
		return 0, height
	}

	scrollableTrack := cfg.ViewportHeight - height
	if scrollableTrack <= 0 {
		return 0, height
	}

	start = scrollableTrack * cfg.ScrollOffset / maxOffset
	start = max(0, min(start, cfg.ViewportHeight-height))

	return start, height
}

// RenderScrollbar renders the scrollbar as a column of ViewportHeight rows
// joined by newlines. When the content fits the viewport it renders blank
// rows so the layout does not shift.
func RenderScrollbar(cfg ScrollbarConfig) string {
	if cfg.ViewportHeight <= 0 || cfg.ContentHeight <= 0 {
		return ""
	}

	if cfg.ContentHeight <= cfg.ViewportHeight {
		lines := make([]string, cfg.ViewportHeight)
		for i := range lines {
			lines[i] = " "
		}
		return strings.Join(lines, "\n")
	}

	thumbStart, thumbHeight := calculateThumbBounds(cfg)

	trackStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	thumbStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)

	trackChar := cfg.TrackChar
	if trackChar == "" {
		trackChar = string(scrollbarTrackChar)
	}
	thumbChar := cfg.ThumbChar
	if thumbChar == "" {
		thumbChar = string(scrollbarThumbChar)
	}

	lines := make([]string, cfg.ViewportHeight)
	for row := range cfg.ViewportHeight {
		if row >= thumbStart && row < thumbStart+thumbHeight {
			lines[row] = thumbStyle.Render(thumbChar)
		} else {
			lines[row] = trackStyle.Render(trackChar)
		}
	}

	return strings.Join(lines, "\n")
}
