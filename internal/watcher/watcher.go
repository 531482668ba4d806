// Package watcher watches the saved-layouts directory for external
// changes (another process or a sync tool rewriting layout files) and
// notifies the application so it can refresh its in-memory catalog.
package watcher

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// DefaultDebounce is the default window for coalescing rapid events.
// Editors and sync tools tend to emit several writes per file save.
const DefaultDebounce = 250 * time.Millisecond

// Handler is called with the set of layout files that changed.
// Multiple events may be coalesced into a single call.
type Handler func(paths []string)

// ErrorHandler is called when a watch error occurs.
type ErrorHandler func(err error)

// Watcher watches a layouts directory and reports changed .json files.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	handler      Handler
	errorHandler ErrorHandler
	debounce     time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
	closed  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window for coalescing events.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(w *Watcher) {
		w.errorHandler = handler
	}
}

// New creates a Watcher over the given layouts directory.
// The directory must already exist.
func New(layoutsDir string, handler Handler, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		handler:  handler,
		debounce: DefaultDebounce,
		pending:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(layoutsDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	w.fsWatcher = fsWatcher

	go w.run()
	return w, nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	return w.fsWatcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.errorHandler != nil {
				w.errorHandler(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only layout files are interesting. Atomic writers rename a temp
	// file into place, so Rename counts as a change too.
	if !isLayoutFile(event.Name) {
		return
	}
	if !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) &&
		!event.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.pending[event.Name] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if w.handler != nil {
		w.handler(paths)
	}
}

func isLayoutFile(path string) bool {
	if filepath.Ext(path) != ".json" {
		return false
	}
	// Skip temp and backup files produced during saves.
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".") && !strings.HasSuffix(base, ".backup")
}
