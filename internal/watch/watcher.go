// Package watch rescans the registry when manifest or linked command
// files change on disk.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/bmad-ai/bmadhub/internal/event"
	"github.com/bmad-ai/bmadhub/internal/install"
	"github.com/bmad-ai/bmadhub/internal/registry"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

// DefaultDebounce is the quiet window collecting a burst of file events
// into one rescan.
const DefaultDebounce = 400 * time.Millisecond

// Watcher triggers registry rescans from filesystem notifications on
// the manifest directory and the externally authored link directories.
type Watcher struct {
	watcher  *fsnotify.Watcher
	registry *registry.Registry
	root     string
	override string
	debounce time.Duration
	ignore   []string
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher for the installation under root.
// Returns nil if there is no installation to watch.
func NewWatcher(reg *registry.Registry, root, override string, cfg *types.WatcherConfig) (*Watcher, error) {
	inst, err := install.Discover(root, override)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		log.Debug().Str("root", root).Msg("no bmad installation, manifest watcher disabled")
		return nil, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(inst.ConfigDir); err != nil {
		w.Close()
		return nil, err
	}

	// Link directories are optional; absent ones are simply not watched.
	for _, dir := range []string{
		filepath.Join(inst.ProjectRoot, ".github", "prompts"),
		filepath.Join(inst.ProjectRoot, ".github", "chatmodes"),
	} {
		if err := w.Add(dir); err != nil {
			log.Debug().Str("dir", dir).Msg("not watching absent link directory")
		}
	}

	debounce := DefaultDebounce
	var ignore []string
	if cfg != nil {
		if cfg.Debounce > 0 {
			debounce = time.Duration(cfg.Debounce) * time.Millisecond
		}
		ignore = cfg.Ignore
	}

	log.Info().
		Str("dir", inst.ConfigDir).
		Dur("debounce", debounce).
		Msg("manifest watcher initialized")

	return &Watcher{
		watcher:  w,
		registry: reg,
		root:     root,
		override: override,
		debounce: debounce,
		ignore:   ignore,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Safe to call once; later calls are no-ops.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	// One burst of events collapses into one rescan: every event
	// restarts the quiet window, the trigger fires when it elapses.
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending []string
	)

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignored(ev.Name) {
				continue
			}
			pending = append(pending, ev.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
		case <-timerCh:
			timer = nil
			timerCh = nil
			paths := dedupe(pending)
			pending = nil
			w.trigger(paths)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("manifest watcher error")
		}
	}
}

// trigger publishes the change batch and rescans.
func (w *Watcher) trigger(paths []string) {
	log.Info().Int("changes", len(paths)).Msg("manifest changes detected, rescanning")

	event.PublishSync(event.Event{
		Type: event.WatchTriggered,
		Data: event.WatchTriggeredData{Paths: paths},
	})

	if _, err := w.registry.Scan(w.root, w.override); err != nil {
		log.Error().Err(err).Msg("rescan failed")
	}
}

// ignored reports whether a changed path matches a configured ignore
// fragment.
func (w *Watcher) ignored(path string) bool {
	for _, fragment := range w.ignore {
		if fragment != "" && strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}

// Stop stops the watcher and waits for the run loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopCh:
		// Already stopped
	default:
		close(w.stopCh)
	}

	if started {
		<-w.doneCh
	}

	return w.watcher.Close()
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
