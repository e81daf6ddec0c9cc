package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/scrollbox/internal/pubsub"
)

// newTestWatcher creates a watcher over a temp file with a short debounce
// and a subscription opened before Start.
func newTestWatcher(t *testing.T, initial string) (*Watcher, string, <-chan pubsub.Event[[]string]) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	cfg := DefaultConfig(path)
	cfg.DebounceDur = 20 * time.Millisecond
	w, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	sub := w.Broker().Subscribe(ctx)

	return w, path, sub
}

func waitForBatch(t *testing.T, sub <-chan pubsub.Event[[]string]) []string {
	t.Helper()
	select {
	case event := <-sub:
		return event.Payload
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a line batch")
		return nil
	}
}

func TestWatcher_PublishesInitialContent(t *testing.T) {
	w, _, sub := newTestWatcher(t, "one\ntwo\n")
	require.NoError(t, w.Start())

	require.Equal(t, []string{"one", "two"}, waitForBatch(t, sub))
}

func TestWatcher_PublishesAppendedLines(t *testing.T) {
	w, path, sub := newTestWatcher(t, "seed\n")
	require.NoError(t, w.Start())
	_ = waitForBatch(t, sub) // initial batch

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("three\nfour\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Equal(t, []string{"three", "four"}, waitForBatch(t, sub))
}

func TestWatcher_TruncationRereadsFromStart(t *testing.T) {
	w, path, sub := newTestWatcher(t, "a\nb\nc\n")
	require.NoError(t, w.Start())
	_ = waitForBatch(t, sub)

	// Rotation: the file is replaced with shorter content.
	require.NoError(t, os.WriteFile(path, []byte("fresh\n"), 0o600))

	require.Equal(t, []string{"fresh"}, waitForBatch(t, sub))
}

func TestWatcher_HoldsPartialTrailingLine(t *testing.T) {
	w, path, sub := newTestWatcher(t, "")
	require.NoError(t, w.Start())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("complete\npartial")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Equal(t, []string{"complete"}, waitForBatch(t, sub), "the unterminated line stays unread")

	f, err = os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString(" line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Equal(t, []string{"partial line"}, waitForBatch(t, sub))
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	w, path, sub := newTestWatcher(t, "")
	require.NoError(t, w.Start())

	sibling := filepath.Join(filepath.Dir(path), "other.log")
	require.NoError(t, os.WriteFile(sibling, []byte("noise\n"), 0o600))

	select {
	case event := <-sub:
		t.Fatalf("unexpected batch from sibling file: %v", event.Payload)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_StopClosesBroker(t *testing.T) {
	w, _, sub := newTestWatcher(t, "x\n")
	require.NoError(t, w.Start())
	_ = waitForBatch(t, sub)

	require.NoError(t, w.Stop())

	require.Eventually(t, func() bool {
		select {
		case _, open := <-sub:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond, "subscriber channel should close on Stop")
}
