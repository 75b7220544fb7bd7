package event

import "github.com/bmad-ai/bmadhub/pkg/types"

const (
	// ScanStarted fires when a registry scan begins.
	ScanStarted EventType = "scan.started"
	// ScanCompleted fires after a new snapshot has been published.
	ScanCompleted EventType = "scan.completed"
	// ScanSkipped fires when a scan found no installation to read.
	ScanSkipped EventType = "scan.skipped"
	// WatchTriggered fires when the manifest watcher requests a rescan.
	WatchTriggered EventType = "watch.triggered"
)

// ScanStartedData is the data for scan.started events.
type ScanStartedData struct {
	Root     string `json:"root"`
	Override string `json:"override,omitempty"`
}

// ScanCompletedData is the data for scan.completed events.
type ScanCompletedData struct {
	Snapshot types.SnapshotInfo `json:"snapshot"`
}

// ScanSkippedData is the data for scan.skipped events.
type ScanSkippedData struct {
	Root   string `json:"root"`
	Reason string `json:"reason"`
}

// WatchTriggeredData is the data for watch.triggered events. Paths is the
// debounced batch of files whose changes caused the trigger.
type WatchTriggeredData struct {
	Paths []string `json:"paths"`
}
