package registry

import (
	"strings"

	"github.com/bmad-ai/bmadhub/internal/manifest"
	"github.com/bmad-ai/bmadhub/internal/naming"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

// mergeOrder is the kind precedence: catalog rows are authoritative, then
// synthesized agent activations, then standalone tasks and tools.
// Workflow rows never become commands; they stay row-set only.
var mergeOrder = []manifest.Kind{
	manifest.KindCatalog,
	manifest.KindAgent,
	manifest.KindTask,
	manifest.KindTool,
}

// Merge builds the command list from raw manifest rows. Pure: no I/O, no
// logging, deterministic for a given input. First successful insertion
// for an external name wins; later duplicates are dropped without error.
func Merge(rows map[manifest.Kind][]manifest.Row) []types.Command {
	var commands []types.Command
	seen := make(map[string]bool)

	insert := func(cmd types.Command, ok bool) {
		if !ok || seen[cmd.Name] {
			return
		}
		seen[cmd.Name] = true
		commands = append(commands, cmd)
	}

	for _, kind := range mergeOrder {
		for _, row := range rows[kind] {
			switch kind {
			case manifest.KindCatalog:
				insert(catalogCommand(row))
			case manifest.KindAgent:
				insert(agentCommand(row))
			case manifest.KindTask:
				insert(entryCommand(row, types.CategoryTask))
			case manifest.KindTool:
				insert(entryCommand(row, types.CategoryTool))
			}
		}
	}

	return commands
}

// catalogCommand builds a command from a catalog row. Rows without a
// command identifier are agent-only capabilities and are skipped; rows
// whose identifier does not carry the bmad- prefix are not addressable
// and are rejected.
func catalogCommand(row manifest.Row) (types.Command, bool) {
	name := row["command"]
	if name == "" {
		return types.Command{}, false
	}
	if !strings.HasPrefix(name, naming.Prefix+"-") {
		return types.Command{}, false
	}

	// The cli-syntax column is authoritative when present; the heuristic
	// only reconstructs names that lack it.
	syntax := row["cli-syntax"]
	if syntax == "" {
		syntax = naming.ToInternal(name)
	}

	module := row["module"]
	category := types.CategoryWorkflow
	if module == "" || module == "core" {
		module = "core"
		category = types.CategoryCore
	}

	source := row["workflow-file"]

	return types.Command{
		Name:        name,
		Syntax:      syntax,
		Description: row["description"],
		Category:    category,
		Module:      module,
		Source:      source,
		AgentName:   row["agent-name"],
		AgentTitle:  row["agent-title"],
		Pattern:     naming.ClassifyPattern(source),
	}, true
}

// agentCommand synthesizes one activation command per agent row:
// bmad-agent-<module>-<name>, or bmad-agent-<name> for core agents.
func agentCommand(row manifest.Row) (types.Command, bool) {
	name := row["name"]
	if name == "" {
		return types.Command{}, false
	}

	module := row["module"]
	syntax := naming.AgentSyntax(module, name)
	if module == "" {
		module = "core"
	}

	description := row["title"]
	if description == "" {
		description = row["role"]
	}

	return types.Command{
		Name:        naming.ToExternal(syntax),
		Syntax:      syntax,
		Description: description,
		Category:    types.CategoryAgent,
		Module:      module,
		Source:      row["path"],
		AgentName:   name,
		AgentTitle:  row["title"],
		Pattern:     types.PatternAgentActivation,
	}, true
}

// entryCommand builds a command from a task or tool row. The name column
// already holds the full external name. Only standalone rows register;
// the rest are workflow-internal capabilities.
func entryCommand(row manifest.Row, category types.Category) (types.Command, bool) {
	name := row["name"]
	if name == "" || !strings.HasPrefix(name, naming.Prefix+"-") {
		return types.Command{}, false
	}
	if !strings.EqualFold(row["standalone"], "true") {
		return types.Command{}, false
	}

	module := row["module"]
	if module == "" {
		module = "core"
	}

	source := row["path"]

	return types.Command{
		Name:        name,
		Syntax:      naming.ToInternal(name),
		Description: row["description"],
		Category:    category,
		Module:      module,
		Source:      source,
		Pattern:     naming.ClassifyPattern(source),
	}, true
}
