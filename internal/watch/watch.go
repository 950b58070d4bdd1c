// Package watch reports changes to a fixed set of files, coalescing bursts
// of file system events into one notification. The CLI uses it to re-run a
// transformation when its input, config or script changes.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/gapseq/internal/logging"
)

// DefaultDelay is the quiet period used when New is given zero.
const DefaultDelay = 100 * time.Millisecond

// Errors for watch operations.
var (
	// ErrWatcherClosed is returned when operating on a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrPathNotExist is returned when watching a path that does not exist.
	ErrPathNotExist = errors.New("path does not exist")

	// ErrNotFile is returned when watching a directory.
	ErrNotFile = errors.New("path is a directory")
)

// Change is one debounced notification.
type Change struct {
	// Paths lists the changed files, sorted.
	Paths []string
	// Time is when the quiet period ended.
	Time time.Time
}

// Stats holds watcher counters.
type Stats struct {
	Files   int
	Events  int64
	Changes int64
	Errors  int64
}

// Watcher watches individual files. It watches each file's directory
// rather than the file itself, so editors that save by renaming a new file
// into place are still seen.
type Watcher struct {
	mu sync.Mutex

	fsw    *fsnotify.Watcher
	delay  time.Duration
	logger *logging.Logger

	files map[string]bool
	dirs  map[string]int

	changes chan Change
	errors  chan error

	events      atomic.Int64
	changeCount atomic.Int64
	errorCount  atomic.Int64

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for event output.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher that reports a Change once delay has passed
// without further events.
func New(delay time.Duration, opts ...Option) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		delay:   delay,
		logger:  logging.NullLogger,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		changes: make(chan Change, 1),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("watch")

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Add starts watching the file at path. Adding a file twice is a no-op.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if info.IsDir() {
		return ErrNotFile
	}

	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Changes returns the notification channel. It is closed by Close.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stats returns watcher statistics.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	files := len(w.files)
	w.mu.Unlock()

	return Stats{
		Files:   files,
		Events:  w.events.Load(),
		Changes: w.changeCount.Load(),
		Errors:  w.errorCount.Load(),
	}
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()

	close(w.changes)
	close(w.errors)

	return w.fsw.Close()
}

// Loop calls fn for every change until ctx is done or the watcher is
// closed. Errors from fn and from the file system are logged, not
// returned, so one bad run does not stop the loop.
func (w *Watcher) Loop(ctx context.Context, fn func(Change) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-w.changes:
			if !ok {
				return ErrWatcherClosed
			}
			w.logger.Debug("changed: %v", change.Paths)
			if err := fn(change); err != nil {
				w.logger.Error("re-run failed: %v", err)
			}
		case err, ok := <-w.errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// processLoop collects events for watched files and emits a Change after
// the quiet period.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.delay)
	timer.Stop()

	for {
		select {
		case <-w.closeCh:
			timer.Stop()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.events.Add(1)
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(w.delay)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.errorCount.Add(1)
			select {
			case w.errors <- err:
			default:
				// Channel full, drop error
			}

		case now := <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			w.emit(Change{Paths: paths, Time: now})
		}
	}
}

// relevant reports whether ev changes the content of a watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[filepath.Clean(ev.Name)]
}

// emit delivers a change, merging it into one the consumer has not read
// yet.
func (w *Watcher) emit(c Change) {
	for {
		select {
		case w.changes <- c:
			w.changeCount.Add(1)
			return
		default:
		}
		select {
		case old := <-w.changes:
			w.changeCount.Add(-1)
			c.Paths = mergePaths(old.Paths, c.Paths)
		default:
		}
	}
}

func mergePaths(a, b []string) []string {
	merged := append(slices.Clone(a), b...)
	slices.Sort(merged)
	return slices.Compact(merged)
}
