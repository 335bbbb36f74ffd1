package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/diagram-canvas/pkg/logging"
)

// ChangeType represents the type of file change detected
type ChangeType int

const (
	// ChangeTypeWrite covers writes, creates and atomic renames onto the file.
	ChangeTypeWrite ChangeType = iota
	// ChangeTypeRemove means the file is gone.
	ChangeTypeRemove
)

func (c ChangeType) String() string {
	switch c {
	case ChangeTypeWrite:
		return "write"
	case ChangeTypeRemove:
		return "remove"
	}
	return fmt.Sprintf("ChangeType(%d)", int(c))
}

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches a set of files. It watches their directories rather
// than the files themselves so editors that save by renaming are still seen.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool // cleaned absolute paths
	events  chan ChangeEvent
	done    chan struct{}
	once    sync.Once
}

// NewFileWatcher creates a watcher for the given files.
func NewFileWatcher(paths ...string) (*FileWatcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[filepath.Clean(abs)] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher: watcher,
		files:   files,
		events:  make(chan ChangeEvent, 100),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching for file changes. Events stop and the channel is
// closed when ctx is cancelled.
func (fw *FileWatcher) Start(ctx context.Context) error {
	dirs := make(map[string]bool)
	for f := range fw.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := fw.watcher.Add(dir); err != nil {
			fw.watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	logging.Info("watching files", "count", len(fw.files))

	go fw.processEvents(ctx)
	return nil
}

// Classify maps an fsnotify operation to a change type. Chmod-only events
// are ignored.
func Classify(op fsnotify.Op) (ChangeType, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return ChangeTypeRemove, true
	case op.Has(fsnotify.Write), op.Has(fsnotify.Create):
		return ChangeTypeWrite, true
	}
	return 0, false
}

// processEvents forwards events for watched files, batching bursts
func (fw *FileWatcher) processEvents(ctx context.Context) {
	const batchWindow = 100 * time.Millisecond

	pending := make(map[ChangeType][]string)
	flushTimer := time.NewTimer(batchWindow)
	flushTimer.Stop()

	flush := func() {
		// Writes after a remove mean the file came back, so send removes first.
		for _, ct := range []ChangeType{ChangeTypeRemove, ChangeTypeWrite} {
			if paths := pending[ct]; len(paths) > 0 {
				fw.events <- ChangeEvent{Type: ct, Paths: paths, Timestamp: time.Now()}
			}
		}
		pending = make(map[ChangeType][]string)
	}

	defer func() {
		fw.watcher.Close()
		close(fw.events)
		fw.once.Do(func() { close(fw.done) })
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.files[filepath.Clean(event.Name)] {
				continue
			}
			ct, relevant := Classify(event.Op)
			if !relevant {
				continue
			}
			logging.Trace("file event", "path", event.Name, "op", event.Op.String())
			pending[ct] = append(pending[ct], event.Name)
			flushTimer.Reset(batchWindow)

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop stops the file watcher
func (fw *FileWatcher) Stop() {
	fw.once.Do(func() { close(fw.done) })
}
