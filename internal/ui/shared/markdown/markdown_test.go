package markdown

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r, err := New(60, "")
	require.NoError(t, err)
	require.Equal(t, 60, r.Width())
}

func TestRender_WrapsAtWidth(t *testing.T) {
	r, err := New(30, "dark")
	require.NoError(t, err)

	out, err := r.Render(strings.Repeat("word ", 30))
	require.NoError(t, err)

	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, lipgloss.Width(line), 30, "line overflows the wrap width: %q", line)
	}
}

func TestRender_NoDocumentMargin(t *testing.T) {
	r, err := New(40, "dark")
	require.NoError(t, err)

	out, err := r.Render("plain text")
	require.NoError(t, err)

	first := strings.Split(out, "\n")[0]
	require.NotEmpty(t, strings.TrimSpace(first), "no blank prefix row above the content")
	require.False(t, strings.HasPrefix(first, "  "), "no left document margin")
}

func TestRenderAt_CachesPerWidth(t *testing.T) {
	before := len(shared)

	RenderAt(33, "# heading")
	RenderAt(33, "other content")
	RenderAt(44, "# heading")

	require.Equal(t, before+2, len(shared), "one renderer per distinct width")
}

func TestRenderAt_OutputContainsContent(t *testing.T) {
	out := RenderAt(50, "## Title\n\nbody text")

	require.Contains(t, out, "Title")
	require.Contains(t, out, "body text")
}
