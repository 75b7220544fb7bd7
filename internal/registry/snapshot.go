package registry

import (
	"time"

	"github.com/bmad-ai/bmadhub/internal/manifest"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

// Snapshot is one immutable result of a scan. Everything a reader needs
// lives here; the registry swaps whole snapshots and never mutates a
// published one.
type Snapshot struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Root    string    `json:"root"`
	BmadDir string    `json:"bmadDir"`

	// Commands in insertion order. The order is the merge order and is
	// what Search iterates.
	Commands []types.Command `json:"commands"`

	// Rows holds the raw manifest row sets per kind, including kinds that
	// never produce commands (workflow rows).
	Rows map[manifest.Kind][]manifest.Row `json:"rows,omitempty"`

	// Modules are the installed module directories, sorted.
	Modules []string `json:"modules,omitempty"`

	// Links are the externally authored files found by the link pass,
	// matched or not.
	Links []types.Link `json:"links,omitempty"`

	// Issues are the non-fatal failures recorded during the scan.
	Issues []types.Issue `json:"issues,omitempty"`

	// byName indexes Commands by external name. Rebuilt by index(), not
	// serialized.
	byName map[string]*types.Command
}

// index rebuilds the name lookup over Commands. Called once before a
// snapshot is published and again after loading one from storage.
func (s *Snapshot) index() {
	s.byName = make(map[string]*types.Command, len(s.Commands))
	for i := range s.Commands {
		s.byName[s.Commands[i].Name] = &s.Commands[i]
	}
}

// Lookup returns the command with the given external name.
func (s *Snapshot) Lookup(name string) (*types.Command, bool) {
	cmd, ok := s.byName[name]
	return cmd, ok
}

// Info returns the summary used for events, history entries and the HTTP
// surface.
func (s *Snapshot) Info() types.SnapshotInfo {
	return types.SnapshotInfo{
		ID:       s.ID,
		Time:     s.Time,
		Root:     s.Root,
		BmadDir:  s.BmadDir,
		Commands: len(s.Commands),
		Modules:  s.Modules,
		Links:    len(s.Links),
		Issues:   len(s.Issues),
	}
}
