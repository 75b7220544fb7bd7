// Package naming converts between the two command identifier forms: the
// dash-delimited external name a user types (bmad-bmm-create-prd) and the
// colon-delimited internal syntax (bmad:bmm:create-prd).
//
// Externalizing is unambiguous. The reverse direction is a heuristic:
// a module name and a command name that both contain internal dashes are
// not separable from the dash-joined form alone, so the first dash after
// the module token is taken as the boundary. This is a known, documented
// limitation, not an error condition. Catalog rows that carry the internal
// syntax in their own column bypass the heuristic entirely.
package naming

import (
	"path/filepath"
	"strings"

	"github.com/bmad-ai/bmadhub/pkg/types"
)

// Prefix is the fixed root token of every conforming command name.
const Prefix = "bmad"

// agentMarker tags synthesized agent activation commands.
const agentMarker = "agent"

// ToExternal converts internal colon syntax to the external dash form.
// Unambiguous in this direction.
func ToExternal(internal string) string {
	return strings.ReplaceAll(internal, ":", "-")
}

// ToInternal recovers internal colon syntax from an external name. A
// leading slash is stripped first. Non-conforming names (first token not
// "bmad") pass through unchanged.
func ToInternal(external string) string {
	name := strings.TrimPrefix(external, "/")
	parts := strings.Split(name, "-")
	if parts[0] != Prefix {
		return name
	}

	switch {
	case len(parts) >= 4 && parts[1] == agentMarker:
		// bmad-agent-<module>-<name...>
		return Prefix + ":" + agentMarker + ":" + parts[2] + ":" + strings.Join(parts[3:], "-")
	case len(parts) == 3 && parts[1] == agentMarker:
		// bmad-agent-<name>: a core agent without a module
		return Prefix + ":" + agentMarker + ":" + parts[2]
	case len(parts) == 2:
		// bmad-<name>: a bare core command
		return Prefix + ":" + parts[1]
	case len(parts) == 1:
		return name
	default:
		// bmad-<module>-<name...>; the module boundary is the heuristic.
		return Prefix + ":" + parts[1] + ":" + strings.Join(parts[2:], "-")
	}
}

// AgentSyntax builds the internal syntax for a synthesized agent
// activation command. An empty or "core" module yields the core form
// without a module segment.
func AgentSyntax(module, name string) string {
	if module == "" || module == "core" {
		return Prefix + ":" + agentMarker + ":" + name
	}
	return Prefix + ":" + agentMarker + ":" + module + ":" + name
}

// AgentNameFromChatmode recovers the synthesized agent command name from
// a chatmode file stem of the form bmad-<module>-agents-<name>, giving
// bmad-agent-<module>-<name>. Reports false when the stem does not follow
// that form.
func AgentNameFromChatmode(stem string) (string, bool) {
	rest, ok := strings.CutPrefix(stem, Prefix+"-")
	if !ok {
		return "", false
	}
	module, name, ok := strings.Cut(rest, "-agents-")
	if !ok || module == "" || name == "" {
		return "", false
	}
	return Prefix + "-" + agentMarker + "-" + module + "-" + name, true
}

// ClassifyPattern assigns the execution pattern for a command source file
// from its extension alone. Total: unknown and missing extensions fall
// through to prose.
func ClassifyPattern(sourcePath string) types.ExecutionPattern {
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".yaml", ".yml":
		return types.PatternWorkflowEngine
	case ".xml":
		return types.PatternStructured
	default:
		return types.PatternProse
	}
}
