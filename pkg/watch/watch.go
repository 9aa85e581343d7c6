// Package watch re-runs an action whenever a single file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrStarted is returned by Run on a Watcher that has already run.
var ErrStarted = errors.New("watch: watcher already started")

// DefaultDebounce is how long a file must stay quiet before its change is
// reported. Editors often write a file several times per save.
const DefaultDebounce = 300 * time.Millisecond

// Func is called with the watched path after each settled change.
type Func func(ctx context.Context, path string)

// Watcher watches one file. The file's directory is watched rather than the
// file itself so that editors replacing the file by rename are noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange Func
	log      *zap.Logger
	ready    chan struct{}
	started  atomic.Bool
}

// New returns a watcher for path. A debounce of zero means DefaultDebounce
// and a nil logger disables logging.
func New(path string, debounce time.Duration, onChange Func, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(filepath.Dir(abs)); err != nil {
		return nil, err
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", filepath.Dir(abs))
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		log:      log.With(zap.String("path", abs)),
		ready:    make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Ready is closed once Run is receiving events.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until ctx is cancelled. onChange runs on the Run goroutine,
// so a slow action delays the next one rather than overlapping it. A
// Watcher runs once; later calls return ErrStarted.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	close(w.ready)
	w.log.Info("watching")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

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
			w.log.Debug("file event", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if _, err := os.Stat(w.path); err != nil {
				w.log.Debug("file gone after change", zap.Error(err))
				continue
			}
			w.onChange(ctx, w.path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}
