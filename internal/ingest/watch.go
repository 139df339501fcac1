package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is imported.
const DefaultDebounce = 2 * time.Second

// DefaultExcludes skips hidden files such as macOS "._export.csv" forks.
var DefaultExcludes = []string{".*"}

// HandlerFunc imports one settled CSV file.
type HandlerFunc func(ctx context.Context, path string) error

// Watcher imports CSV exports written into a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   HandlerFunc
	excludes []string
	logger   *slog.Logger
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
	done    chan struct{}
	// inflight counts armed timers until their callback returns.
	inflight sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithExcludes adds file patterns the watcher never imports.
func WithExcludes(patterns ...string) WatchOption {
	return func(w *Watcher) {
		w.excludes = append(w.excludes, patterns...)
	}
}

// WithLogger sets the logger used for import results.
func WithLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher starts watching dir. Call Run to process events.
func NewWatcher(dir string, handle HandlerFunc, opts ...WatchOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		handle:   handle,
		excludes: slices.Clone(DefaultExcludes),
		logger:   slog.Default(),
		fsw:      fsw,
		pending:  make(map[string]*time.Timer),
		ready:    make(chan string, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes events until ctx is canceled, then releases the watcher.
// Handler errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	w.logger.InfoContext(ctx, "watching directory", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !isExport(event.Name) || shouldIgnore(event.Name, w.excludes) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule(event.Name)
			}

		case path := <-w.ready:
			if err := w.handle(ctx, path); err != nil {
				w.logger.ErrorContext(ctx, "import failed", "file", path, "error", err)
				continue
			}
			w.logger.InfoContext(ctx, "imported file", "file", path)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "watcher error", "error", err)
		}
	}
}

// schedule (re)starts the quiet period of a file.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		// A timer that already fired is about to deliver the path.
		if t.Stop() {
			t.Reset(w.debounce)
		}
		return
	}
	w.inflight.Add(1)
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		defer w.inflight.Done()
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
}

// stop cancels pending imports, releases settled ones that were never
// delivered and closes the watcher.
func (w *Watcher) stop() {
	close(w.done)
	w.mu.Lock()
	for path, t := range w.pending {
		if t.Stop() {
			w.inflight.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()
	_ = w.fsw.Close()
}

// isExport reports whether the file looks like a CSV export.
func isExport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// shouldIgnore reports whether the file matches any exclude pattern.
// Patterns with wildcards match the full path or the base name. Patterns
// starting with '.' match as suffixes, other patterns as substrings of the base name.
func shouldIgnore(path string, excludes []string) bool {
	base := filepath.Base(path)
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		if strings.ContainsAny(ex, "*?[") {
			if ok, err := filepath.Match(ex, path); err == nil && ok {
				return true
			}
			if ok, err := filepath.Match(ex, base); err == nil && ok {
				return true
			}
			continue
		}
		switch {
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(base, ex) {
				return true
			}
		case strings.Contains(base, ex):
			return true
		}
	}
	return false
}
