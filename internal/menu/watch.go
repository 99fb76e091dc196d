package menu

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/PabloGalante/callorder-agent/internal/observability"
)

// Watcher is a Source backed by a YAML file that is reloaded when it changes.
// A reload that fails to parse or validate keeps the previous catalog.
type Watcher struct {
	path     string
	debounce time.Duration
	current  atomic.Pointer[Catalog]
	watcher  *fsnotify.Watcher

	onReload func(*Catalog)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher loads path and prepares a watcher. Call Start to begin watching.
func NewWatcher(path string) (*Watcher, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: 250 * time.Millisecond,
		watcher:  fw,
	}
	w.current.Store(c)
	return w, nil
}

func (w *Watcher) Catalog() *Catalog {
	return w.current.Load()
}

// OnReload registers a callback run after every successful reload.
func (w *Watcher) OnReload(fn func(*Catalog)) {
	w.onReload = fn
}

// Start watches the file's directory, so editors that replace the file by
// rename are still noticed.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	log := observability.WithFields("component", "menu_watcher", "path", w.path)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.Reload(); err != nil {
				log.Warn("menu reload failed, keeping previous catalog", "error", err)
				continue
			}
			log.Info("menu reloaded")

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("menu watcher error", "error", err)
		}
	}
}

// Reload re-reads the file now.
func (w *Watcher) Reload() error {
	c, err := Load(w.path)
	if err != nil {
		return err
	}
	w.current.Store(c)
	if w.onReload != nil {
		w.onReload(c)
	}
	return nil
}
