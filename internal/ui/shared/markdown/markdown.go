// Package markdown provides styled markdown rendering for the TUI.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// noMarginStyle is a JSON style that removes document margins, so measured
// block heights match the visible content exactly.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with scrollbox-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given width and style.
// style should be "dark" or "light", defaulting to "dark". A fixed style is
// used instead of WithAutoStyle() because auto detection queries the
// terminal and the OSC response can leak into the input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// shared holds one renderer per width; glamour renderers bind the word
// wrap width at construction time. Single-goroutine access only.
var shared = map[int]*Renderer{}

// RenderAt renders markdown at the given width using a shared renderer,
// falling back to the raw source when rendering fails.
func RenderAt(width int, src string) string {
	r, ok := shared[width]
	if !ok {
		var err error
		r, err = New(width, "dark")
		if err != nil {
			return src
		}
		shared[width] = r
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return out
}
