package tuning

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long the file must stay quiet before it is re-read.
const Debounce = 100 * time.Millisecond

// Watcher re-reads a tuning file whenever it changes on disk.
// Decoded values arrive on Updates; read and decode failures arrive on Errors.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	Updates chan Tuning
	Errors  chan error
	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// Watch starts watching the tuning file at path. The containing directory is
// watched so editors that replace the file by rename are still seen.
//
// Parameters:
//   - path: the tuning file
//
// Returns:
//   - *Watcher: the running watcher
//   - error: an error if the directory cannot be watched
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("tuning: watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("tuning: watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("tuning: watch %s: %w", path, err)
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		Updates: make(chan Tuning, 16),
		Errors:  make(chan error, 4),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. Updates and Errors are closed once the watch loop exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.doneCh
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Updates)
		close(w.Errors)
		close(w.doneCh)
	}()

	quiet := time.NewTimer(Debounce)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			quiet.Reset(Debounce)
		case <-quiet.C:
			t, err := Read(w.path)
			if err != nil {
				w.send(nil, err)
				continue
			}
			w.send(&t, nil)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(nil, err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) send(t *Tuning, err error) {
	if t != nil {
		select {
		case w.Updates <- *t:
		case <-w.closeCh:
		}
		return
	}
	select {
	case w.Errors <- err:
	case <-w.closeCh:
	}
}
