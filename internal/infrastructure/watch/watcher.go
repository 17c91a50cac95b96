package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reacts to changes of named workspace files. It watches
// each file's parent directory so editor save strategies that replace
// the file (write to temp, rename over) are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	onChange func(path string)
}

// NewFileWatcher creates a watcher that calls onChange once per burst of
// changes to a registered file.
func NewFileWatcher(debounce time.Duration, onChange func(path string)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &FileWatcher{
		watcher:  w,
		files:    make(map[string]struct{}),
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// WatchFile registers one file. The file does not have to exist yet; its
// directory does.
func (w *FileWatcher) WatchFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.files[abs] = struct{}{}
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return nil
}

// Run blocks until the context is cancelled, firing the callback for
// registered files as they change.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var lastPath string
	debouncer := NewDebouncer(w.debounce, func() {
		if w.onChange != nil {
			w.onChange(lastPath)
		}
	})
	defer debouncer.Stop()

	relevant := fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevant == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, tracked := w.files[abs]; !tracked {
				continue
			}
			lastPath = abs
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
