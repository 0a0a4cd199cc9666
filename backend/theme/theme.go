// Package theme serves the optional user stylesheet and reports changes to it.
package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/events"
	"github.com/b0bbywan/go-powermenu/logger"
)

// ThemeBackend watches the stylesheet's directory rather than the file, so
// editors that replace the file on save are seen too.
type ThemeBackend struct {
	path string
	ctx  context.Context

	mu      sync.Mutex
	watcher *fsnotify.Watcher

	eventsC chan events.Event
}

// UpdateData is the payload of theme.updated.
type UpdateData struct {
	Path    string    `json:"path"`
	Exists  bool      `json:"exists"`
	Version time.Time `json:"version"`
}

// New returns nil when no theme file is configured.
func New(ctx context.Context, cfg *config.ThemeConfig) (*ThemeBackend, error) {
	if cfg == nil || cfg.File == "" {
		return nil, nil
	}
	path, err := filepath.Abs(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("theme path %s: %w", cfg.File, err)
	}
	return &ThemeBackend{
		path:    path,
		ctx:     ctx,
		eventsC: make(chan events.Event, 4),
	}, nil
}

func (t *ThemeBackend) Path() string {
	return t.path
}

// Exists reports whether the stylesheet is present. Content is not validated.
func (t *ThemeBackend) Exists() bool {
	info, err := os.Stat(t.path)
	return err == nil && !info.IsDir()
}

// Read returns the stylesheet and its modification time.
func (t *ThemeBackend) Read() ([]byte, time.Time, error) {
	info, err := os.Stat(t.path)
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, info.ModTime(), nil
}

func (t *ThemeBackend) Events() <-chan events.Event {
	return t.eventsC
}

// Start watches the theme directory. A missing directory is not an error:
// there is simply nothing to watch.
func (t *ThemeBackend) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.watcher != nil {
		return nil
	}

	dir := filepath.Dir(t.path)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		logger.Info("[theme] %s does not exist, not watching", dir)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Info("[theme] failed to close watcher: %v", closeErr)
		}
		return err
	}

	t.watcher = watcher
	logger.Info("[theme] watching %s", t.path)
	go t.listen(watcher)
	return nil
}

func (t *ThemeBackend) listen(watcher *fsnotify.Watcher) {
	for {
		select {
		case <-t.ctx.Done():
			t.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			t.dispatch(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("[theme] fsnotify watcher error: %v", err)
		}
	}
}

func (t *ThemeBackend) dispatch(event fsnotify.Event) {
	if filepath.Clean(event.Name) != t.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	logger.Debug("[theme] %s changed (%s)", filepath.Base(event.Name), event.Op)
	t.notify(UpdateData{Path: t.path, Exists: t.Exists(), Version: time.Now()})
}

func (t *ThemeBackend) notify(data UpdateData) {
	select {
	case t.eventsC <- events.Event{Type: events.TypeThemeUpdated, Data: data}:
	default:
		logger.Warn("[theme] event channel full, dropping %s event", events.TypeThemeUpdated)
	}
}

// Close stops the watcher. Safe to call more than once.
func (t *ThemeBackend) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.watcher != nil {
		if err := t.watcher.Close(); err != nil {
			logger.Warn("[theme] failed to close watcher: %v", err)
		}
		t.watcher = nil
	}
}
