package internal

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Fragment is the client's addressable navigation state: a small file naming
// the selected channel. It survives restarts, and editing it from outside
// navigates the running client.
type Fragment struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

// NewFragment returns a fragment stored at path. An empty path disables it.
func NewFragment(path string, logger *slog.Logger) *Fragment {
	return &Fragment{path: path, logger: logger}
}

// Read returns the stored channel, or "" when there is none.
func (f *Fragment) Read() string {
	if f.path == "" {
		return ""
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Error("Failed to read fragment", "path", f.path, "err", err)
		}
		return ""
	}
	channel := strings.TrimSpace(string(data))

	f.mu.Lock()
	f.last = channel
	f.mu.Unlock()

	return channel
}

// Write stores channel unless it is already the stored value.
func (f *Fragment) Write(channel string) error {
	if f.path == "" {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if channel == f.last {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(f.path, []byte(channel+"\n"), 0644); err != nil {
		return err
	}
	f.last = channel
	return nil
}

// Watch calls notify with the new channel whenever the file is changed by
// someone other than this client. It returns once the watch is established;
// watching stops when ctx is done.
func (f *Fragment) Watch(ctx context.Context, notify func(channel string)) error {
	if f.path == "" {
		return nil
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Editors replace files on save, so watch the directory rather than the file.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer func() {
			_ = watcher.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(f.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if channel, changed := f.reload(); changed {
					notify(channel)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Error("Fragment watch error", "err", err)
			}
		}
	}()

	return nil
}

// reload reads the file and reports whether it differs from the last value
// this client read or wrote.
func (f *Fragment) reload() (string, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", false
	}
	channel := strings.TrimSpace(string(data))

	f.mu.Lock()
	defer f.mu.Unlock()

	if channel == "" || channel == f.last {
		return "", false
	}
	f.last = channel
	return channel, true
}
