// Package registry builds and serves the command catalog of a bmad
// installation.
//
// A bmad installation describes its installed capabilities (workflows,
// agents, tasks, tools) in CSV manifests under bmad/_cfg. This package
// turns those manifests into one addressable command map and answers
// lookups against it.
//
// # Architecture Overview
//
// The package is built around three pieces:
//
//   - Registry: the orchestrator; holds the current snapshot in an
//     atomic pointer and runs scans
//   - Snapshot: one immutable scan result (commands, raw rows, modules,
//     links, issues)
//   - Merge: the pure function that turns manifest rows into commands
//
// # Scan Sequence
//
// One Scan call produces one consistent snapshot:
//
//  1. Resolve the installation (override dir, <root>/bmad, or
//     <parent>/bmad; a candidate counts only when it contains _cfg).
//     No installation found is a clean nil result, not an error.
//  2. Read the five manifest kinds concurrently, one goroutine per
//     kind. An absent file contributes zero rows; a failing file
//     contributes zero rows plus a recorded issue.
//  3. Detect installed modules from the bmad directory listing.
//  4. Merge rows into commands (see below).
//  5. Run the link pass over .github/prompts and .github/chatmodes.
//  6. Assemble the snapshot, swap the registry pointer, persist when a
//     store is attached, publish scan.completed.
//
// No I/O-shaped failure aborts a scan; failures surface as issues on
// the snapshot. Only an empty root argument returns an error.
//
// # Merge Semantics
//
// Kinds merge in a fixed precedence order: catalog, agents, tasks,
// tools. Workflow rows never create commands; they are kept as raw row
// sets only. The first successful insertion for an external name wins
// and later duplicates are dropped silently, which is how catalog rows
// take precedence over task or tool rows describing the same
// capability. Every registered name carries the bmad- prefix; rows
// violating that are rejected during merge.
//
// Agent rows synthesize one activation command each, named
// bmad-agent-<module>-<name> (or bmad-agent-<name> for core agents),
// with the agent-activation execution pattern.
//
// # Concurrency Model
//
// Readers (Resolve, Search, List, Suggest) load the snapshot pointer
// atomically and work on immutable data; they never block and never
// see a partially built snapshot. Concurrent scans race benignly: the
// published snapshot is whichever scan stored last, which need not be
// the scan that started last. Debouncing bursts of scans is the
// watcher's job, not the registry's.
//
// # Usage
//
//	reg := registry.New()
//	snap, err := reg.Scan("/path/to/project", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if snap == nil {
//	    fmt.Println("no bmad installation")
//	    return
//	}
//
//	if cmd, ok := reg.Resolve("bmad-bmm-create-prd"); ok {
//	    fmt.Println(cmd.Syntax, cmd.Pattern)
//	}
//
//	for _, cmd := range reg.Search("prd", 10) {
//	    fmt.Println(cmd.Name, "-", cmd.Description)
//	}
package registry
