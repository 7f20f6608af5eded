package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/thisisjab/arrowjq/engine"
)

// FileSource reads programs from a file, one per line, and can watch the
// file for changes.
type FileSource struct {
	path     string
	logger   *slog.Logger
	debounce time.Duration
}

// NewFileSource creates a new FileSource instance.
func NewFileSource(logger *slog.Logger, path string) *FileSource {
	return &FileSource{
		path:     path,
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}
}

func (f *FileSource) Name() string {
	return f.path
}

func (f *FileSource) Read() ([]engine.Job, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	return Parse(f.path, file)
}

// Watch calls fn with the programs in the file, then again after every
// change to it, until ctx is done. Bursts of events are folded into a
// single reload.
func (f *FileSource) Watch(ctx context.Context, fn func([]engine.Job)) error {
	target, err := filepath.Abs(f.path)
	if err != nil {
		return fmt.Errorf("cannot resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors like vim save by writing a new file and renaming it over the
	// old one. A watch on the file itself follows the old inode and goes
	// quiet, so the parent directory is watched instead.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("cannot add directory to watcher: %w", err)
	}

	jobs, err := f.Read()
	if err != nil {
		return err
	}
	fn(jobs)

	// nil until a change is seen; receiving from a nil channel blocks forever.
	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				f.logger.Debug("fsnotify watcher channel is closed.")
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				f.logger.Debug("ignoring file event", "path", f.path, "event", event.String())
				continue
			}
			reload = time.After(f.debounce)

		case <-reload:
			reload = nil

			jobs, err := f.Read()
			if err != nil {
				f.logger.Warn("cannot reload file", "path", f.path, "error", err)
				continue
			}

			f.logger.Info("file changed", "path", f.path, "jobs", len(jobs))
			fn(jobs)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
