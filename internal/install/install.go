// Package install discovers the bmad installation a project root belongs
// to and caches the result per root.
package install

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/bmad-ai/bmadhub/internal/manifest"
)

const (
	// DirName is the fixed name of the installation directory.
	DirName = "bmad"
	// ConfigDirName is the manifest subdirectory every real installation
	// carries; a bmad directory without it is not an installation.
	ConfigDirName = "_cfg"
)

// How an installation was located.
const (
	SourceOverride = "override"
	SourceRoot     = "root"
	SourceParent   = "parent"
)

// Installation describes one discovered bmad directory.
type Installation struct {
	// BmadDir is the installation directory holding the module tree.
	BmadDir string `json:"bmadDir"`
	// ConfigDir is <BmadDir>/_cfg, where the manifests live.
	ConfigDir string `json:"configDir"`
	// ProjectRoot is the parent of BmadDir. Externally authored IDE files
	// (.github/prompts, .github/chatmodes) resolve relative to it.
	ProjectRoot string `json:"projectRoot"`
	// Source is "override", "root" or "parent".
	Source string `json:"source"`
}

// ManifestPath returns the absolute path of one manifest file.
func (i *Installation) ManifestPath(kind manifest.Kind) string {
	return filepath.Join(i.ConfigDir, kind.File())
}

// cache stores discovered installations to avoid repeated stat walks.
var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Installation)
)

// Discover resolves the installation for a root directory. Candidates in
// order: the override directory when given, <root>/bmad, <parent>/bmad;
// the first one containing _cfg wins. No candidate qualifying returns
// (nil, nil), the expected state for an unconfigured workspace, not an
// error.
func Discover(root, override string) (*Installation, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	key := root + "\x00" + override

	cacheMu.RLock()
	inst, ok := cache[key]
	cacheMu.RUnlock()
	// A cached hit is revalidated cheaply so a removed installation does
	// not linger.
	if ok && hasConfigDir(inst.BmadDir) {
		return inst, nil
	}

	for _, candidate := range candidates(root, override) {
		if !hasConfigDir(candidate.dir) {
			continue
		}
		inst := &Installation{
			BmadDir:     candidate.dir,
			ConfigDir:   filepath.Join(candidate.dir, ConfigDirName),
			ProjectRoot: filepath.Dir(candidate.dir),
			Source:      candidate.source,
		}
		remember(key, inst)
		return inst, nil
	}

	return nil, nil
}

type candidate struct {
	dir    string
	source string
}

func candidates(root, override string) []candidate {
	var out []candidate
	if override != "" {
		if dir, err := filepath.Abs(override); err == nil {
			out = append(out, candidate{dir, SourceOverride})
		}
	}
	out = append(out, candidate{filepath.Join(root, DirName), SourceRoot})
	if parent := filepath.Dir(root); parent != root {
		out = append(out, candidate{filepath.Join(parent, DirName), SourceParent})
	}
	return out
}

func hasConfigDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ConfigDirName))
	return err == nil && info.IsDir()
}

func remember(key string, inst *Installation) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache[key] = inst
}

// ClearCache clears the discovery cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = make(map[string]*Installation)
}
