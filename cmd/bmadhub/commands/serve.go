package commands

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bmad-ai/bmadhub/internal/config"
	"github.com/bmad-ai/bmadhub/internal/registry"
	"github.com/bmad-ai/bmadhub/internal/server"
	"github.com/bmad-ai/bmadhub/internal/storage"
	"github.com/bmad-ai/bmadhub/internal/watch"
)

var (
	servePort     int
	serveHostname string
	serveRoot     string
	serveOverride string
	serveNoWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the registry HTTP server",
	Long: `Start bmadhub as a server that exposes the command registry over an
HTTP API with a server-sent event stream.

The installation is scanned at startup and rescanned whenever its
manifests change, unless watching is disabled.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 7777, "Port to listen on")
	serveCmd.Flags().StringVar(&serveHostname, "hostname", "127.0.0.1", "Hostname to listen on")
	serveCmd.Flags().StringVarP(&serveRoot, "root", "r", "", "Project root to scan")
	serveCmd.Flags().StringVar(&serveOverride, "override", "", "Directory scanned before the project root")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not watch manifests for changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	root, override, appConfig, err := resolveScanTarget(serveRoot, serveOverride)
	if err != nil {
		return err
	}

	log.Printf("Starting bmadhub server v%s", Version)
	log.Printf("Scan root: %s", root)

	// Initialize paths
	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		return err
	}

	// Initialize storage-backed registry
	store := storage.New(paths.StoragePath())
	reg := registry.NewWithStorage(store)

	// Restore the last snapshot so cached reads work before the scan
	if _, err := reg.Restore(); err != nil {
		log.Printf("Warning: Failed to restore snapshot: %v", err)
	}

	// Initial scan
	snap, err := reg.Scan(root, override)
	if err != nil {
		return err
	}
	if snap == nil {
		log.Printf("No BMAD installation under %s; serving cached data only", root)
	} else {
		log.Printf("Published snapshot %s with %d commands", snap.ID, len(snap.Commands))
	}

	// Start the manifest watcher unless disabled
	watchDisabled := serveNoWatch || (appConfig.Watcher != nil && appConfig.Watcher.Disabled)
	var watcher *watch.Watcher
	if !watchDisabled {
		watcher, err = watch.NewWatcher(reg, root, override, appConfig.Watcher)
		if err != nil {
			log.Printf("Warning: Failed to create watcher: %v", err)
		} else if watcher != nil {
			watcher.Start()
			log.Printf("Watching manifests for changes")
		}
	}

	// Configure server: flags beat config beat defaults
	serverConfig := server.DefaultConfig()
	if appConfig.Server != nil {
		if appConfig.Server.Hostname != "" {
			serverConfig.Hostname = appConfig.Server.Hostname
		}
		if appConfig.Server.Port != 0 {
			serverConfig.Port = appConfig.Server.Port
		}
	}
	if cmd.Flags().Changed("hostname") {
		serverConfig.Hostname = serveHostname
	}
	if cmd.Flags().Changed("port") {
		serverConfig.Port = servePort
	}
	serverConfig.Root = root
	serverConfig.Override = override

	// Create server
	srv := server.New(serverConfig, reg)

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://%s:%d", serverConfig.Hostname, serverConfig.Port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if watcher != nil {
		watcher.Stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}
