package task

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher reports external edits to the task table file. The table is a
// plain CSV the user may open in an editor; when it changes on disk, a
// notification is sent so views can re-read it. The watcher never mutates
// the table itself.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	changes  chan struct{}
	stopChan chan struct{}
}

// NewWatcher creates a watcher for the task table at path. The watch is
// placed on the containing directory so editors that replace the file
// (write-temp-then-rename) are still observed.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:     path,
		fsw:      fsw,
		changes:  make(chan struct{}, 1),
		stopChan: make(chan struct{}, 1),
	}

	go w.watchLoop()
	return w, nil
}

// Changes returns the channel that receives one notification per batch of
// external edits.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Stop ends the watch and closes the underlying watcher.
func (w *Watcher) Stop() {
	w.stopChan <- struct{}{}
	w.fsw.Close()
}

// watchLoop batches rapid events with a debounce timer so one save in an
// editor produces one notification.
func (w *Watcher) watchLoop() {
	debounce := time.NewTimer(500 * time.Millisecond)
	debounce.Stop()
	pending := false

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounce.Stop()
			debounce.Reset(500 * time.Millisecond)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("task file watcher error")

		case <-w.stopChan:
			return
		}
	}
}
