// Command bmadhub-mcp runs the catalog MCP server over stdio.
// Logs go to stderr; stdout carries the protocol.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bmad-ai/bmadhub/internal/registry"
	"github.com/bmad-ai/bmadhub/pkg/mcpserver/catalog"
)

var (
	root     = flag.String("root", "", "Project root to scan (defaults to working directory)")
	override = flag.String("override", "", "Directory scanned before the project root")
)

func main() {
	flag.Parse()

	scanRoot := *root
	if scanRoot == "" {
		var err error
		scanRoot, err = os.Getwd()
		if err != nil {
			log.Fatalf("Failed to get working directory: %v", err)
		}
	}

	reg := registry.New()
	snap, err := reg.Scan(scanRoot, *override)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	if snap == nil {
		log.Printf("No BMAD installation under %s; serving an empty catalog", scanRoot)
	} else {
		log.Printf("Serving %d commands from %s", len(snap.Commands), snap.BmadDir)
	}

	s := catalog.NewServer(reg)
	if err := server.ServeStdio(s); err != nil {
		log.Fatal(err)
	}
}
