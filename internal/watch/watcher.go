// Package watch signals when the directory being browsed changes on disk.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kk-code-lab/rbrowse/internal/logging"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the watcher waits for further events before
// signalling.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors a single directory (not its subdirectories).
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	log       logrus.FieldLogger
	delay     time.Duration

	events chan struct{}
	stop   chan struct{}
	done   chan struct{}

	mu       sync.Mutex
	path     string
	debounce *time.Timer
	closed   bool
}

// New starts watching path. A nil logger discards output.
func New(path string, logger logrus.FieldLogger) (*Watcher, error) {
	return newWithDelay(path, logger, DefaultDebounce)
}

func newWithDelay(path string, logger logrus.FieldLogger, delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}

	path = filepath.Clean(path)
	if err := fsw.Add(path); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		log:       logger,
		delay:     delay,
		events:    make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		path:      path,
	}
	go w.run()
	return w, nil
}

// Path returns the directory currently watched.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// SetPath moves the watch to path. On failure the watcher keeps no watch
// until the next successful SetPath.
func (w *Watcher) SetPath(path string) error {
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || path == w.path {
		return nil
	}

	if w.path != "" {
		_ = w.fsWatcher.Remove(w.path)
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.path = ""
	if err := w.fsWatcher.Add(path); err != nil {
		w.log.WithFields(logrus.Fields{"path": path, "error": err}).Warn("cannot watch directory")
		return err
	}
	w.path = path
	return nil
}

// Events delivers one coalesced signal per burst of changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher and closes the Events channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	close(w.stop)
	err := w.fsWatcher.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer func() {
		w.mu.Lock()
		w.closed = true
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.mu.Unlock()
		close(w.events)
		close(w.done)
	}()

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.WithField("error", err).Debug("watch error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.signal)
}

func (w *Watcher) signal() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- struct{}{}:
	default:
	}
}
