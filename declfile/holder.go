package declfile

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/reoring/cmdskema"
)

// Holder provides thread-safe access to a compiled command set with hot
// reload support.
type Holder struct {
	mu       sync.RWMutex
	set      *cmdskema.Set
	path     string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*cmdskema.Set)
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewHolder loads and compiles the declaration file at path.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	set, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load declarations: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	return &Holder{
		set:    set,
		path:   absPath,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// Get returns the current command set.
func (h *Holder) Get() *cmdskema.Set {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.set
}

// Path returns the absolute path of the watched file.
func (h *Holder) Path() string { return h.path }

// Reload recompiles the file. On failure the previous set is kept.
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading declarations")

	next, err := Load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("declaration reload failed, keeping previous set")
		return fmt.Errorf("reload declarations: %w", err)
	}

	h.mu.Lock()
	prev := h.set
	h.set = next
	listeners := slices.Clone(h.onChange)
	h.mu.Unlock()

	h.logChanges(prev, next)

	for _, fn := range listeners {
		fn(next)
	}

	h.logger.Info().Msg("declarations reloaded")
	return nil
}

// OnChange registers a callback invoked after every successful reload.
func (h *Holder) OnChange(fn func(*cmdskema.Set)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// WatchFile reloads the set whenever the file is written or recreated.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory so atomic saves (rename over the file) are seen.
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	h.mu.Lock()
	h.watcher = watcher
	h.mu.Unlock()

	go h.watchLoop(watcher)

	h.logger.Info().Str("path", h.path).Msg("watching declaration file for changes")
	return nil
}

// Stop ends file watching. It is safe to call more than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop(w *fsnotify.Watcher) {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("declaration file changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

func (h *Holder) logChanges(prev, next *cmdskema.Set) {
	before := make(map[string]struct{})
	for _, c := range prev.Commands() {
		before[c.Name()] = struct{}{}
	}
	for _, c := range next.Commands() {
		if _, ok := before[c.Name()]; !ok {
			h.logger.Info().Str("command", c.Name()).Msg("command added")
		}
		delete(before, c.Name())
	}
	for name := range before {
		h.logger.Info().Str("command", name).Msg("command removed")
	}
}
