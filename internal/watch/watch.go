// Package watch re-runs the pipeline when the scanned directory changes.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// defaultSettle is how long the directory must stay quiet after a change
// before the pipeline re-runs. Copying a burst of photos fires many events;
// debouncing collapses them into one run.
const defaultSettle = 500 * time.Millisecond

// Matcher decides which file names count as relevant changes.
type Matcher interface {
	Match(name string) bool
}

// Watcher observes one directory and invokes a callback after changes settle.
type Watcher struct {
	dir     string
	matcher Matcher
	settle  time.Duration
	logger  *zap.Logger
}

// New creates a Watcher for dir. matcher filters events to relevant files;
// logger may be nil.
func New(dir string, matcher Matcher, logger *zap.Logger) (*Watcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("watch directory is required")
	}
	if matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		dir:     dir,
		matcher: matcher,
		settle:  defaultSettle,
		logger:  logger,
	}, nil
}

// Run watches until ctx is canceled, calling onChange after each settled
// burst of relevant events. onChange errors are logged, not fatal: a watch
// session outlives individual bad runs.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching directory", zap.String("dir", w.dir))

	// The timer fires once events stop arriving for the settle window.
	settle := time.NewTimer(w.settle)
	if !settle.Stop() {
		<-settle.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			if pending && !settle.Stop() {
				<-settle.C
			}
			settle.Reset(w.settle)
			pending = true

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-settle.C:
			pending = false
			if err := onChange(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error("run after change failed", zap.Error(err))
			}
		}
	}
}

// relevant reports whether an event should trigger a re-run.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Rename) &&
		!event.Op.Has(fsnotify.Remove) {
		return false
	}
	return w.matcher.Match(event.Name)
}
