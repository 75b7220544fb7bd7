// Package server provides the HTTP server implementation for the bmadhub API.
//
// The server exposes the command registry over a small RESTful surface:
// snapshot inspection, scan triggering, command lookup and search, raw
// manifest access, and a real-time event stream.
//
// # Core Components
//
//   - HTTP Server: Chi-based router with middleware for CORS, logging, and recovery
//   - Registry: the scanned command snapshot backing every read endpoint
//   - Event Streaming: Server-Sent Events (SSE) for scan and watch notifications
//
// # API Endpoints
//
//   - /registry: snapshot info, scan trigger, modules, links, issues, history
//   - /command: command listing, lookup by external name, source metadata
//   - /search: case-insensitive substring search over names and descriptions
//   - /manifest/{kind}: raw rows of one manifest as scanned
//   - /event: real-time event streaming via SSE
//
// # Lookup Semantics
//
// Command lookup accepts the dash-delimited external name, with one
// leading slash tolerated ("/bmad-bmm-create-prd"). A miss returns 404
// with near-match suggestions in the error details, ranked by edit
// distance.
//
// # Event Stream
//
// The /event endpoint streams every bus event (scan.started,
// scan.completed, scan.skipped, watch.triggered) as SSE messages, with
// a heartbeat comment every 30 seconds. The connection greets clients
// with a server.connected event carrying the current snapshot summary.
//
// # Usage Example
//
//	config := server.DefaultConfig()
//	config.Port = 7777
//	config.Root = "/path/to/project"
//
//	srv := server.New(config, reg)
//
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// Handlers never mutate the snapshot they read: a scan publishes a new
// snapshot and later requests observe it, so responses are internally
// consistent without locking.
package server
