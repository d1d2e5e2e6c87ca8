package catalog

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/logger"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher rebuilds the catalog whenever a settings file changes and
// publishes the result into a Snapshot. The parent directories are watched
// rather than the files, since editors replace files by atomic rename.
// Events are debounced so an editor's save sequence triggers one rebuild.
type Watcher struct {
	paths    []string
	snapshot *Snapshot
	onReload func(*Catalog)
	fsw      *fsnotify.Watcher
	done     chan struct{}
}

// WatchSettings loads the settings once, publishes the catalog, and starts
// watching for changes. onReload may be nil.
func WatchSettings(paths []string, snapshot *Snapshot, onReload func(*Catalog)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating settings watcher")
	}

	w := &Watcher{
		paths:    paths,
		snapshot: snapshot,
		onReload: onReload,
		fsw:      fsw,
		done:     make(chan struct{}),
	}

	dirs := map[string]bool{}
	for _, path := range paths {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			logger.Warnw("cannot watch settings directory", "dir", dir, "error", err)
		}
	}

	w.reload()
	go w.run()
	return w, nil
}

// Reload rebuilds and publishes the catalog immediately.
func (w *Watcher) Reload() {
	w.reload()
}

// Close stops watching. The last published catalog stays available.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-fire
				}
				timer.Reset(reloadDebounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warnw("settings watcher error", "error", err)
		case <-fire:
			timer = nil
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	for _, path := range w.paths {
		if filepath.Clean(event.Name) == filepath.Clean(path) {
			return true
		}
	}
	return false
}

func (w *Watcher) reload() {
	sources := LoadSources(w.paths)
	c := Build(sources)
	w.snapshot.Publish(c)
	logger.Infow("catalog rebuilt",
		"sources", len(sources),
		"servers", len(c.Servers),
		"endpoints", len(c.Endpoints),
		"prompts", len(c.Prompts))
	if w.onReload != nil {
		w.onReload(c)
	}
}
