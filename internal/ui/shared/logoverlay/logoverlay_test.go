package logoverlay

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/scrollbox/internal/log"
)

// initLogging initializes the global logger once for the package and resets
// the buffer between tests.
func initLogging(t *testing.T) {
	t.Helper()
	_, err := log.Init(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatalf("initializing logger: %v", err)
	}
	log.ClearBuffer()
}

func newShownModel(t *testing.T) Model {
	t.Helper()
	m := New(context.Background())
	m.SetSize(100, 40)
	m.Toggle()
	return m
}

func keyMsg(s string) tea.KeyMsg {
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverlay_HiddenByDefault(t *testing.T) {
	initLogging(t)
	m := New(context.Background())

	require.False(t, m.Visible())
	require.Empty(t, m.View())
	require.Equal(t, "background", m.Overlay("background"))
}

func TestOverlay_ToggleShowsBufferedEntries(t *testing.T) {
	initLogging(t)
	log.Info(log.CatEngine, "buffered before opening")

	m := newShownModel(t)

	require.True(t, m.Visible())
	require.Contains(t, m.View(), "buffered before opening")
}

func TestOverlay_EmptyBuffer(t *testing.T) {
	initLogging(t)
	m := newShownModel(t)

	require.Contains(t, m.View(), "No logs to display")
}

func TestOverlay_EscCloses(t *testing.T) {
	initLogging(t)
	m := newShownModel(t)

	m, cmd := m.Update(keyMsg("esc"))

	require.False(t, m.Visible())
	require.NotNil(t, cmd)
	require.IsType(t, CloseMsg{}, cmd())
}

func TestOverlay_LevelFilter(t *testing.T) {
	initLogging(t)
	log.Debug(log.CatEngine, "debug detail")
	log.Warn(log.CatEngine, "warn notice")
	log.Error(log.CatEngine, "error report")

	m := newShownModel(t)
	require.Contains(t, m.View(), "debug detail")

	m, _ = m.Update(keyMsg("w"))
	view := m.View()
	require.NotContains(t, view, "debug detail")
	require.Contains(t, view, "warn notice")
	require.Contains(t, view, "error report")

	m, _ = m.Update(keyMsg("e"))
	view = m.View()
	require.NotContains(t, view, "warn notice")
	require.Contains(t, view, "error report")

	m, _ = m.Update(keyMsg("d"))
	require.Contains(t, m.View(), "debug detail")
}

func TestOverlay_ClearKey(t *testing.T) {
	initLogging(t)
	log.Info(log.CatEngine, "soon gone")

	m := newShownModel(t)
	require.Contains(t, m.View(), "soon gone")

	m, _ = m.Update(keyMsg("c"))
	require.Contains(t, m.View(), "No logs to display")
}

func TestOverlay_OpensScrolledToNewest(t *testing.T) {
	initLogging(t)
	for i := 0; i < 100; i++ {
		log.Info(log.CatEngine, "entry", "n", i)
	}

	m := newShownModel(t)

	require.True(t, m.container.Engine().AtBottom())
	require.Contains(t, m.View(), "n=99")
}

func TestOverlay_IgnoresInputWhileHidden(t *testing.T) {
	initLogging(t)
	m := New(context.Background())
	m.SetSize(100, 40)

	m, cmd := m.Update(keyMsg("e"))

	require.Nil(t, cmd)
	require.Equal(t, log.LevelDebug, m.minLevel, "filter keys only apply while shown")
}

func TestEntryLevel(t *testing.T) {
	cases := []struct {
		entry string
		want  log.Level
		known bool
	}{
		{"2025-01-01T00:00:00 [ERROR] [engine] boom", log.LevelError, true},
		{"2025-01-01T00:00:00 [WARN] [ui] careful", log.LevelWarn, true},
		{"2025-01-01T00:00:00 [INFO] [nav] fine", log.LevelInfo, true},
		{"2025-01-01T00:00:00 [DEBUG] [measure] detail", log.LevelDebug, true},
		{"some untagged line", log.LevelInfo, false},
	}

	for _, tc := range cases {
		level, known := entryLevel(tc.entry)
		require.Equal(t, tc.want, level, "entry %q", tc.entry)
		require.Equal(t, tc.known, known, "entry %q", tc.entry)
	}
}

func TestLogLine_TruncatesLongEntries(t *testing.T) {
	line := logLine{text: "[INFO] " + strings.Repeat("a", 60), level: log.LevelInfo}

	out := line.Render(20)
	require.Contains(t, out, "...")
}
