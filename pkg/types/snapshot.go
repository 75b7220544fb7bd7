package types

import "time"

// SnapshotInfo summarizes one registry snapshot for transport and for the
// scan history. The full snapshot (commands, row sets) lives in the
// registry; this is the lightweight view.
type SnapshotInfo struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Root     string    `json:"root,omitempty"`
	BmadDir  string    `json:"bmadDir,omitempty"`
	Commands int       `json:"commands"`
	Modules  []string  `json:"modules,omitempty"`
	Links    int       `json:"links"`
	Issues   int       `json:"issues"`
}

// Link records one externally authored IDE file found during the link pass.
type Link struct {
	// Path is relative to the project root.
	Path string `json:"path"`

	// Kind is "prompt" or "chatmode".
	Kind string `json:"kind"`

	// Command is the external name the file was linked to; empty when the
	// file matched no registered command (discovered but unlinked).
	Command string `json:"command,omitempty"`
}

// Issue records a non-fatal failure observed during a scan. Absent files
// never produce issues; failed reads and enumerations do.
type Issue struct {
	// Stage is "manifest", "modules" or "links".
	Stage string `json:"stage"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error"`
}
