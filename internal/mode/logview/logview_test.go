package logview

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/scrollbox/internal/config"
	"github.com/zjrosen/scrollbox/internal/pubsub"
)

func newSizedModel(t *testing.T, initial string) Model {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	m, err := New(config.Defaults(), path)
	require.NoError(t, err)
	t.Cleanup(func() {
		m.cancel()
		_ = m.watcher.Stop()
	})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	return updated.(Model)
}

func lineBatch(lines ...string) pubsub.Event[[]string] {
	return pubsub.Event[[]string]{
		Type:      pubsub.CreatedEvent,
		Payload:   lines,
		Timestamp: time.Now(),
	}
}

func TestLogview_AppendsBatches(t *testing.T) {
	m := newSizedModel(t, "")

	updated, cmd := m.Update(lineBatch("one", "two"))
	m = updated.(Model)
	require.NotNil(t, cmd, "the model must re-listen after each batch")

	updated, _ = m.Update(lineBatch("three"))
	m = updated.(Model)

	require.Len(t, m.entries, 3)
	require.Equal(t, 3, m.container.Engine().Count())
}

func TestLogview_EntriesKeepStableKeys(t *testing.T) {
	m := newSizedModel(t, "")

	updated, _ := m.Update(lineBatch("a", "b"))
	m = updated.(Model)
	updated, _ = m.Update(lineBatch("c"))
	m = updated.(Model)

	require.Equal(t, "line-1", m.entries[0].Key())
	require.Equal(t, "line-3", m.entries[2].Key())
}

func TestLogview_FollowPinsToBottom(t *testing.T) {
	m := newSizedModel(t, "")

	lines := make([]string, 40)
	for i := range lines {
		lines[i] = "row"
	}
	updated, _ := m.Update(lineBatch(lines...))
	m = updated.(Model)

	m.View()

	engine := m.container.Engine()
	require.Positive(t, engine.MaxScrollOffset())
	require.True(t, engine.AtBottom(), "follow mode keeps the newest line visible")
}

func TestLogview_ScrollingUpLeavesFollowMode(t *testing.T) {
	m := newSizedModel(t, "")

	lines := make([]string, 40)
	for i := range lines {
		lines[i] = "row"
	}
	updated, _ := m.Update(lineBatch(lines...))
	m = updated.(Model)
	m.View()

	updated, _ = m.Update(keyMsgRunes("k"))
	m = updated.(Model)
	require.False(t, m.follow)

	m.View()
	require.False(t, m.container.Engine().AtBottom(), "manual mode must not snap back")

	updated, _ = m.Update(keyMsgRunes("G"))
	m = updated.(Model)
	require.True(t, m.follow, "jumping to the end re-enables follow")
}

func TestLogview_FollowToggle(t *testing.T) {
	m := newSizedModel(t, "")

	updated, _ := m.Update(keyMsgRunes("f"))
	m = updated.(Model)
	require.False(t, m.follow)

	updated, _ = m.Update(keyMsgRunes("f"))
	m = updated.(Model)
	require.True(t, m.follow)
}

func TestLogview_EmptyLinesStillOccupyARow(t *testing.T) {
	m := newSizedModel(t, "")

	updated, _ := m.Update(lineBatch("", "text"))
	m = updated.(Model)
	m.View()

	require.Equal(t, 1, m.container.Engine().ItemHeight(0))
}

func keyMsgRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
