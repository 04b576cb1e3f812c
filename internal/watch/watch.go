// Package watch reloads the config file whenever it is saved.
package watch

import (
	"errors"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Danondso/furnace/internal/config"
)

// Event carries a freshly loaded config or the error that prevented loading it.
type Event struct {
	Config *config.Config
	Err    error
}

// Watcher watches a config file for changes and sends events.
//
// The parent directory is watched rather than the file itself because
// config.Save replaces the file by rename, which drops a watch on the
// old inode.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	events  chan Event
	done    chan struct{}
	logger  *log.Logger
	mu      sync.Mutex
	running bool
}

// New creates a Watcher for the config file at path.
func New(path string, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:    abs,
		watcher: fsWatcher,
		events:  make(chan Event, 10),
		done:    make(chan struct{}),
		logger:  logger,
	}, nil
}

// Start begins watching. The directory holding the config must exist.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents()
	return nil
}

// Stop stops watching and closes the Events channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	w.watcher.Close()
}

// Events returns the channel for receiving config change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) processEvents() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if w.logger != nil {
				w.logger.Printf("watch: %s %s", event.Op, event.Name)
			}
			cfg, err := config.Load(w.path)
			w.send(Event{Config: cfg, Err: err})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(Event{Err: err})
		}
	}
}

func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
	case <-w.done:
	}
}
