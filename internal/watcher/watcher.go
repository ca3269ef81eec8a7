package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Event represents a file change event.
type Event struct {
	Path string
	Op   string // "create", "write", "remove", "rename"
}

// DefaultDebounce is the quiet period after the last change before onChange
// runs.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a fixed set of files for changes. It watches their parent
// directories so files replaced by rename (as many editors save) are still
// seen.
type Watcher struct {
	files    map[string]bool
	dirs     []string
	debounce time.Duration
	onChange func(events []Event)
	log      logrus.FieldLogger

	mu      sync.Mutex
	pending []Event
	timer   *time.Timer
	closed  bool

	// runMu serializes onChange calls.
	runMu sync.Mutex

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a watcher for files. onChange receives the batched events of
// each debounce window.
func New(files []string, debounce time.Duration, onChange func(events []Event)) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]bool),
		debounce: debounce,
		onChange: onChange,
		log:      logrus.StandardLogger(),
		stopCh:   make(chan struct{}),
	}
	seen := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// SetLogger sets the logger used for watch errors.
func (w *Watcher) SetLogger(log logrus.FieldLogger) {
	w.log = log
}

// Watch blocks until ctx is done or Stop is called. When it returns no
// onChange call is running and none will start. A Watcher is used once.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	defer w.shutdown()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stopCh:
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if e, ok := w.translate(ev); ok {
				w.queue(e)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("file watcher error")
		}
	}
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) translate(ev fsnotify.Event) (Event, bool) {
	path := filepath.Clean(ev.Name)
	if !w.files[path] {
		return Event{}, false
	}
	op := opName(ev.Op)
	if op == "" {
		return Event{}, false
	}
	return Event{Path: path, Op: op}, true
}

func (w *Watcher) queue(e Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending = append(w.pending, e)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush hands the pending batch to onChange. A batch whose window closes
// while the previous onChange still runs waits for it, so runs never
// overlap. Events arriving meanwhile are taken along.
func (w *Watcher) flush() {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()
	if len(pending) > 0 && w.onChange != nil {
		w.onChange(pending)
	}
}

// shutdown drops pending events and waits for a running onChange.
func (w *Watcher) shutdown() {
	w.mu.Lock()
	w.closed = true
	w.pending = nil
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.runMu.Lock()
	defer w.runMu.Unlock()
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	}
	return ""
}
