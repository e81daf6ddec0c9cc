// Package watcher provides file tailing for the logview demo: it watches a
// file with fsnotify and publishes newly appended lines on a pub/sub
// broker, debounced so bursts of writes arrive as one batch.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/scrollbox/internal/log"
	"github.com/zjrosen/scrollbox/internal/pubsub"
)

// Watcher tails a file and publishes appended lines.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	broker    *pubsub.Broker[[]string]
	offset    int64
	done      chan struct{}
	stopOnce  sync.Once
}

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for tailing the given file.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 250 * time.Millisecond,
	}
}

// New creates a new file tail watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      cfg.Path,
		debounce:  cfg.DebounceDur,
		broker:    pubsub.NewBroker[[]string](),
		done:      make(chan struct{}),
	}, nil
}

// Broker exposes the broker carrying appended-line batches. Subscribe
// before calling Start to avoid missing the initial batch.
func (w *Watcher) Broker() *pubsub.Broker[[]string] { return w.broker }

// Start reads the file's current content, publishes it as the initial
// batch, and begins watching for appends.
func (w *Watcher) Start() error {
	if lines, err := w.readNew(); err == nil && len(lines) > 0 {
		w.broker.Publish(pubsub.CreatedEvent, lines)
	}

	// Watch the directory: editors and log rotation replace the file
	// rather than writing it in place.
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go w.loop()
	return nil
}

// Stop terminates the watcher and releases resources. Safe to call more
// than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.broker.Close()
		err = w.fsWatcher.Close()
	})
	return err
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)
	fire := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !pending {
				pending = true
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			}

		case <-fire:
			pending = false
			lines, err := w.readNew()
			if err != nil {
				log.ErrorErr(log.CatWatcher, "reading appended content", err, "path", w.path)
				continue
			}
			if len(lines) > 0 {
				log.Debug(log.CatWatcher, "publishing appended lines", "count", len(lines))
				w.broker.Publish(pubsub.CreatedEvent, lines)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// readNew reads complete lines appended since the last read. A truncated
// file (rotation) resets the offset and re-reads from the start. A partial
// trailing line stays unread until its newline arrives.
func (w *Watcher) readNew() ([]string, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", w.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", w.path, err)
	}
	if info.Size() < w.offset {
		w.offset = 0
	}
	if info.Size() == w.offset {
		return nil, nil
	}

	buf := make([]byte, info.Size()-w.offset)
	if _, err := f.ReadAt(buf, w.offset); err != nil {
		return nil, fmt.Errorf("reading %s: %w", w.path, err)
	}

	chunk := string(buf)
	cut := strings.LastIndexByte(chunk, '\n')
	if cut < 0 {
		return nil, nil
	}
	w.offset += int64(cut + 1)

	lines := strings.Split(chunk[:cut], "\n")
	return lines, nil
}
