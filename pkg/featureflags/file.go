package featureflags

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// FileProvider serves flags from a JSON file mapping flag names to
// booleans and hot-reloads on file changes. A failed reload keeps the
// last good state.
type FileProvider struct {
	path    string
	log     *logrus.Logger
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	flags map[string]bool

	done chan struct{}
}

// NewFileProvider loads the flag file and starts watching it for changes.
func NewFileProvider(path string, log *logrus.Logger) (*FileProvider, error) {
	if log == nil {
		log = logrus.New()
	}

	p := &FileProvider{
		path:  path,
		log:   log,
		flags: make(map[string]bool),
		done:  make(chan struct{}),
	}

	if err := p.reload(); err != nil {
		return nil, fmt.Errorf("failed to load flag file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create flag watcher: %w", err)
	}
	// Watch the directory so atomic rename-into-place updates are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch flag directory: %w", err)
	}
	p.watcher = watcher

	go p.watch()

	return p, nil
}

// IsEnabled reports the flag's current state; unknown flags are disabled.
func (p *FileProvider) IsEnabled(_ context.Context, flag string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.flags[flag], nil
}

// Close stops the file watcher.
func (p *FileProvider) Close() error {
	close(p.done)
	return p.watcher.Close()
}

func (p *FileProvider) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}

	var flags map[string]bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}

	p.mu.Lock()
	p.flags = flags
	p.mu.Unlock()

	return nil
}

func (p *FileProvider) watch() {
	for {
		select {
		case <-p.done:
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(p.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := p.reload(); err != nil {
				p.log.WithError(err).WithField("path", p.path).Warn("feature flag reload failed, keeping previous state")
				continue
			}
			p.log.WithField("path", p.path).Debug("feature flags reloaded")
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.log.WithError(err).Warn("feature flag watcher error")
		}
	}
}
