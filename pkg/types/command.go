// Package types provides the core data types for the bmadhub server.
package types

// Category classifies a command by the manifest kind that defined it.
// A closed tag set, not a hierarchy.
type Category string

const (
	CategoryWorkflow Category = "workflow"
	CategoryAgent    Category = "agent"
	CategoryTask     Category = "task"
	CategoryTool     Category = "tool"
	CategoryCore     Category = "core"
)

// ExecutionPattern tells a client how a command's source file must be
// interpreted to run it.
type ExecutionPattern string

const (
	// PatternWorkflowEngine marks YAML workflows: load the generic engine
	// definition first, then the workflow file as its configuration payload.
	PatternWorkflowEngine ExecutionPattern = "workflow-engine"

	// PatternStructured marks XML sources executed directly as structured
	// instructions.
	PatternStructured ExecutionPattern = "structured"

	// PatternProse marks markdown and everything else: the file is the
	// instruction text.
	PatternProse ExecutionPattern = "prose"

	// PatternAgentActivation marks synthesized agent commands: the source
	// is an agent definition to adopt, not a task to perform.
	PatternAgentActivation ExecutionPattern = "agent-activation"
)

// Command is one addressable registry entry.
type Command struct {
	// Name is the dash-delimited external identifier a user types
	// (e.g. "bmad-bmm-create-prd"). Unique key in the command map.
	Name string `json:"name"`

	// Syntax is the colon-delimited internal identifier
	// (e.g. "bmad:bmm:create-prd"). Derived from Name when the manifest
	// does not carry it explicitly; that derivation is lossy for
	// hyphenated module names.
	Syntax string `json:"syntax"`

	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`

	// Module is the owning module name, or "core" when there is none.
	Module string `json:"module"`

	// Source is the path of the file to load when executing the command.
	// Empty for agent-only catalog entries.
	Source string `json:"source,omitempty"`

	// Agent linkage; empty when the command is not agent-related.
	AgentName  string `json:"agentName,omitempty"`
	AgentTitle string `json:"agentTitle,omitempty"`

	Pattern ExecutionPattern `json:"pattern"`

	// LinkedPath points at an externally authored IDE file (prompt or
	// chatmode) discovered during the link pass. Advisory only.
	LinkedPath string `json:"linkedPath,omitempty"`
}
