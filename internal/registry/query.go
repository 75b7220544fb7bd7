package registry

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/bmad-ai/bmadhub/pkg/types"
)

// DefaultSearchLimit caps search results when the caller passes no
// positive limit.
const DefaultSearchLimit = 10

const (
	// suggestCutoff is the largest edit distance still offered as a
	// suggestion.
	suggestCutoff = 5
	// defaultSuggestions bounds Suggest when the caller passes no
	// positive max.
	defaultSuggestions = 3
)

// Resolve looks up a command by external name. One leading slash is
// stripped, so "/bmad-bmm-create-prd" and "bmad-bmm-create-prd" address
// the same record. Read-only, no side effects.
func (r *Registry) Resolve(name string) (*types.Command, bool) {
	snap := r.current.Load()
	if snap == nil {
		return nil, false
	}
	return snap.Lookup(strings.TrimPrefix(name, "/"))
}

// Search returns commands whose external name or description contains
// the query, case-insensitively, in insertion order, truncated at limit
// (<=0 selects DefaultSearchLimit). Not relevance-ranked: catalogs are
// tens to low hundreds of entries, so substring over insertion order
// stays predictable.
func (r *Registry) Search(query string, limit int) []types.Command {
	snap := r.current.Load()
	if snap == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	q := strings.ToLower(query)
	var out []types.Command
	for _, cmd := range snap.Commands {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(cmd.Name), q) ||
			strings.Contains(strings.ToLower(cmd.Description), q) {
			out = append(out, cmd)
		}
	}
	return out
}

// List returns commands in insertion order, optionally filtered by
// category and module. Empty filter values match everything.
func (r *Registry) List(category, module string) []types.Command {
	snap := r.current.Load()
	if snap == nil {
		return nil
	}

	var out []types.Command
	for _, cmd := range snap.Commands {
		if category != "" && string(cmd.Category) != category {
			continue
		}
		if module != "" && cmd.Module != module {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// Suggest returns up to max external names nearest to name by edit
// distance, for "command not found" responses. Never required for
// correctness; distances beyond the cutoff are noise and dropped. Ties
// keep insertion order.
func (r *Registry) Suggest(name string, max int) []string {
	snap := r.current.Load()
	if snap == nil {
		return nil
	}
	if max <= 0 {
		max = defaultSuggestions
	}

	name = strings.TrimPrefix(name, "/")

	type scored struct {
		name string
		dist int
	}
	var candidates []scored
	for _, cmd := range snap.Commands {
		dist := levenshtein.ComputeDistance(name, cmd.Name)
		if dist <= suggestCutoff {
			candidates = append(candidates, scored{cmd.Name, dist})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
