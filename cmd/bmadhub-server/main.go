// Package main provides the standalone entry point for the bmadhub server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bmad-ai/bmadhub/internal/config"
	"github.com/bmad-ai/bmadhub/internal/registry"
	"github.com/bmad-ai/bmadhub/internal/server"
	"github.com/bmad-ai/bmadhub/internal/storage"
)

var (
	port     = flag.Int("port", 7777, "Server port")
	root     = flag.String("root", "", "Project root to scan")
	override = flag.String("override", "", "Explicit bmad directory")
	version  = flag.Bool("version", false, "Print version and exit")
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("bmadhub-server %s (%s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Determine scan root
	scanRoot := *root
	if scanRoot == "" {
		var err error
		scanRoot, err = os.Getwd()
		if err != nil {
			log.Fatalf("Failed to get working directory: %v", err)
		}
	}

	log.Printf("Starting bmadhub server v%s", Version)
	log.Printf("Scan root: %s", scanRoot)

	// Initialize paths
	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		log.Fatalf("Failed to create data directories: %v", err)
	}

	// Load configuration
	appConfig, err := config.Load(scanRoot)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *root == "" && appConfig.Root != "" {
		scanRoot = appConfig.Root
	}
	manifestDir := *override
	if manifestDir == "" {
		manifestDir = appConfig.ManifestDir
	}

	// Initialize storage and the registry
	store := storage.New(paths.StoragePath())
	reg := registry.NewWithStorage(store)

	if _, err := reg.Restore(); err != nil {
		log.Printf("Warning: could not restore previous snapshot: %v", err)
	}

	// Initial scan
	snap, err := reg.Scan(scanRoot, manifestDir)
	if err != nil {
		log.Fatalf("Initial scan failed: %v", err)
	}
	if snap == nil {
		log.Printf("No BMAD installation under %s; serving cached data only", scanRoot)
	} else {
		log.Printf("Registered %d commands from %s", len(snap.Commands), snap.BmadDir)
	}

	// Configure server
	serverConfig := server.DefaultConfig()
	serverConfig.Port = *port
	serverConfig.Root = scanRoot
	serverConfig.Override = manifestDir
	if appConfig.Server != nil && appConfig.Server.Hostname != "" {
		serverConfig.Hostname = appConfig.Server.Hostname
	}

	// Create server
	srv := server.New(serverConfig, reg)

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://%s:%d", serverConfig.Hostname, *port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
