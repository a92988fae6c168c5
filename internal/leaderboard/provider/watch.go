package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes from editors and build tools.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls OnChange after the bundle file at Path changes.
//
// The parent directory is watched rather than the file itself so that
// atomic replace-by-rename updates are still observed.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(ctx context.Context)
	Logger   *log.Logger
}

// Run watches until ctx is cancelled.
func (w Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return errors.New("watch callback is required")
	}
	target, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve watch path: %w", err)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logf("bundle watch error path=%s err=%v", target, err)
		case <-timer.C:
			w.OnChange(ctx)
		}
	}
}

func (w Watcher) logf(format string, args ...any) {
	if w.Logger != nil {
		w.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
