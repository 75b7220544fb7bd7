package registry

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bmad-ai/bmadhub/internal/event"
	"github.com/bmad-ai/bmadhub/internal/install"
	"github.com/bmad-ai/bmadhub/internal/logging"
	"github.com/bmad-ai/bmadhub/internal/manifest"
	"github.com/bmad-ai/bmadhub/internal/storage"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

// reservedDirs are bmad subdirectories that never count as modules.
var reservedDirs = map[string]bool{
	install.ConfigDirName: true,
	"_memory":             true,
	"docs":                true,
}

// snapshotPath is where the latest snapshot persists in storage.
var snapshotPath = []string{"snapshot", "latest"}

// Registry holds the current command snapshot. The snapshot pointer is
// the registry's only mutable field; readers load it atomically and
// never need a lock.
type Registry struct {
	current atomic.Pointer[Snapshot]

	// store, when set, receives the latest snapshot and a history entry
	// after every successful scan.
	store *storage.Storage
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// NewWithStorage creates a registry that persists snapshots after each
// scan and can restore the last one at startup.
func NewWithStorage(store *storage.Storage) *Registry {
	return &Registry{store: store}
}

// Current returns the last published snapshot, or nil before the first
// scan.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Scan reads the installation under root (or override, when given) and
// publishes a new snapshot. Returns (nil, nil) when no installation
// exists, the expected state for an unconfigured workspace. Only an
// empty root is an error; I/O-shaped failures are recorded on the
// snapshot as issues instead. Concurrent calls are not serialized;
// callers wanting coalescing debounce upstream.
func (r *Registry) Scan(root, override string) (*Snapshot, error) {
	if root == "" {
		return nil, errors.New("registry: scan root must not be empty")
	}

	// Synchronous so subscribers observe the start before any outcome
	// event of the same scan.
	event.PublishSync(event.Event{
		Type: event.ScanStarted,
		Data: event.ScanStartedData{Root: root, Override: override},
	})

	inst, err := install.Discover(root, override)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		logging.Debug().Str("root", root).Msg("No bmad installation found")
		event.Publish(event.Event{
			Type: event.ScanSkipped,
			Data: event.ScanSkippedData{Root: root, Reason: "no bmad installation found"},
		})
		return nil, nil
	}

	var (
		mu     sync.Mutex
		issues []types.Issue
		rows   = make(map[manifest.Kind][]manifest.Row, len(manifest.Kinds()))
	)

	// One goroutine per manifest kind. Each kind writes a distinct key;
	// the mutex only guards the shared map and issue list.
	var wg sync.WaitGroup
	for _, kind := range manifest.Kinds() {
		wg.Add(1)
		go func(kind manifest.Kind) {
			defer wg.Done()
			path := inst.ManifestPath(kind)
			kindRows, err := manifest.Read(path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				issues = append(issues, types.Issue{Stage: "manifest", Path: path, Error: err.Error()})
				return
			}
			rows[kind] = kindRows
		}(kind)
	}
	wg.Wait()

	modules, moduleIssue := detectModules(inst.BmadDir)
	if moduleIssue != nil {
		issues = append(issues, *moduleIssue)
	}

	commands := Merge(rows)

	// Linking happens before publication so the published snapshot is
	// immutable.
	links, linkIssues := runLinkPass(commands, inst.ProjectRoot)
	issues = append(issues, linkIssues...)

	snap := &Snapshot{
		ID:       ulid.Make().String(),
		Time:     time.Now().UTC(),
		Root:     inst.ProjectRoot,
		BmadDir:  inst.BmadDir,
		Commands: commands,
		Rows:     rows,
		Modules:  modules,
		Links:    links,
		Issues:   issues,
	}
	snap.index()

	r.current.Store(snap)
	r.persist(snap)

	logging.Info().
		Str("id", snap.ID).
		Int("commands", len(snap.Commands)).
		Int("modules", len(snap.Modules)).
		Int("links", len(snap.Links)).
		Int("issues", len(snap.Issues)).
		Msg("Scan complete")
	event.Publish(event.Event{
		Type: event.ScanCompleted,
		Data: event.ScanCompletedData{Snapshot: snap.Info()},
	})

	return snap, nil
}

// persist writes the snapshot and its history entry. Failures are
// logged, never returned: the in-memory snapshot is already live.
func (r *Registry) persist(snap *Snapshot) {
	if r.store == nil {
		return
	}
	ctx := context.Background()
	if err := r.store.Put(ctx, snapshotPath, snap); err != nil {
		logging.Warn().Err(err).Msg("Failed to persist snapshot")
		return
	}
	if err := r.store.SaveScan(ctx, snap.Info()); err != nil {
		logging.Warn().Err(err).Msg("Failed to record scan history")
	}
}

// Restore loads the last persisted snapshot, letting cached reads work
// before any fresh scan. Returns (nil, nil) when nothing was persisted.
func (r *Registry) Restore() (*Snapshot, error) {
	if r.store == nil {
		return nil, nil
	}
	var snap Snapshot
	if err := r.store.Get(context.Background(), snapshotPath, &snap); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	snap.index()
	r.current.Store(&snap)
	return &snap, nil
}

// History returns past scan summaries, newest first, up to limit. A
// registry without storage has no history.
func (r *Registry) History(ctx context.Context, limit int) ([]types.SnapshotInfo, error) {
	if r.store == nil {
		return nil, nil
	}
	return r.store.ScanHistory(ctx, limit)
}

// detectModules lists the installed module directories: subdirectories
// of the bmad dir minus reserved names and dot-hidden entries, sorted.
func detectModules(bmadDir string) ([]string, *types.Issue) {
	entries, err := os.ReadDir(bmadDir)
	if err != nil {
		return nil, &types.Issue{Stage: "modules", Path: bmadDir, Error: err.Error()}
	}
	var modules []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if reservedDirs[name] || strings.HasPrefix(name, ".") {
			continue
		}
		modules = append(modules, name)
	}
	sort.Strings(modules)
	return modules, nil
}
