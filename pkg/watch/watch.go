// Package watch re-runs an action when a file changes.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Action runs once every time the watched file has settled after a change.
type Action func(ctx context.Context) error

type Watcher struct {
	path     string
	debounce time.Duration
	action   Action
}

// New watches path, which must exist. The action runs after the file has
// gone debounce without further events.
func New(path string, debounce time.Duration, action Action) (*Watcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Watcher{path, debounce, action}, nil
}

// Run blocks until ctx is done. An action error is logged and doesn't stop
// the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WithStack(err)
	}
	defer fsw.Close()

	// Editors and sync tools often replace the file, which drops a watch on
	// the file itself, so the directory is watched instead.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return errors.WithStack(err)
	}
	log.Info("watching file", logger.Data{"path": w.path, "debounce": w.debounce.String()})

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("file changed", logger.Data{"op": event.Op.String()})
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Err(err).Warn("watch error")
		case <-timer.C:
			if _, err := os.Stat(w.path); err != nil {
				log.Warn("watched file is gone", logger.Data{"path": w.path})
				continue
			}
			if err := w.action(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				log.Err(err).Error("action failed")
			}
		}
	}
}
