package testutil

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/bmad-ai/bmadhub/internal/registry"
	"github.com/bmad-ai/bmadhub/internal/server"
	"github.com/bmad-ai/bmadhub/internal/storage"
	"github.com/bmad-ai/bmadhub/internal/watch"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

// TestServer wraps a server instance for testing
type TestServer struct {
	Server   *server.Server
	BaseURL  string
	Registry *registry.Registry
	Storage  *storage.Storage
	Watcher  *watch.Watcher
	TempDir  string
	Root     string
	port     int
}

// TestServerOption configures TestServer
type TestServerOption func(*testServerConfig)

type testServerConfig struct {
	root       string
	override   string
	envFile    string
	watch      bool
	debounceMs int
}

// WithRoot points the server at a prepared project root
func WithRoot(root string) TestServerOption {
	return func(c *testServerConfig) {
		c.root = root
	}
}

// WithOverride sets an explicit manifest directory
func WithOverride(dir string) TestServerOption {
	return func(c *testServerConfig) {
		c.override = dir
	}
}

// WithEnvFile sets the .env file to load
func WithEnvFile(path string) TestServerOption {
	return func(c *testServerConfig) {
		c.envFile = path
	}
}

// WithWatch enables the file watcher with the given debounce in ms
func WithWatch(debounceMs int) TestServerOption {
	return func(c *testServerConfig) {
		c.watch = true
		c.debounceMs = debounceMs
	}
}

// StartTestServer creates and starts a test server
func StartTestServer(opts ...TestServerOption) (*TestServer, error) {
	cfg := &testServerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Load environment variables
	if cfg.envFile != "" {
		_ = godotenv.Load(cfg.envFile)
	} else {
		// Try default locations
		_ = godotenv.Load("../../.env")
		_ = godotenv.Load("../.env")
		_ = godotenv.Load(".env")
	}

	// Create temp directory for test data
	tempDir, err := os.MkdirTemp("", "bmadhub-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	root := cfg.root
	if root == "" {
		root = tempDir
	}

	// Find available port
	port, err := findAvailablePort()
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to find available port: %w", err)
	}

	// Storage-backed registry
	storagePath := filepath.Join(tempDir, "storage")
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	store := storage.New(storagePath)
	reg := registry.NewWithStorage(store)

	// Initial scan. A root with no installation is fine; the server then
	// serves an empty registry.
	if _, err := reg.Scan(root, cfg.override); err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("initial scan failed: %w", err)
	}

	// Optional file watcher
	var watcher *watch.Watcher
	if cfg.watch {
		watcher, err = watch.NewWatcher(reg, root, cfg.override, &types.WatcherConfig{
			Debounce: cfg.debounceMs,
		})
		if err != nil {
			os.RemoveAll(tempDir)
			return nil, fmt.Errorf("failed to create watcher: %w", err)
		}
		if watcher != nil {
			watcher.Start()
		}
	}

	// Configure server
	serverConfig := server.DefaultConfig()
	serverConfig.Port = port
	serverConfig.Root = root
	serverConfig.Override = cfg.override

	// Create server
	srv := server.New(serverConfig, reg)

	// Start server in background
	go func() {
		_ = srv.Start()
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://localhost:%d", port)
	if err := waitForServer(baseURL, 10*time.Second); err != nil {
		if watcher != nil {
			_ = watcher.Stop()
		}
		srv.Shutdown(context.Background())
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("server failed to start: %w", err)
	}

	return &TestServer{
		Server:   srv,
		BaseURL:  baseURL,
		Registry: reg,
		Storage:  store,
		Watcher:  watcher,
		TempDir:  tempDir,
		Root:     root,
		port:     port,
	}, nil
}

// Stop shuts down the test server and cleans up
func (ts *TestServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if ts.Watcher != nil {
		_ = ts.Watcher.Stop()
	}

	if ts.Server != nil {
		if err := ts.Server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if ts.TempDir != "" {
		os.RemoveAll(ts.TempDir)
	}

	return nil
}

// Client returns a new test client for this server
func (ts *TestServer) Client() *TestClient {
	return NewTestClient(ts.BaseURL)
}

// SSEClient returns a new SSE client for this server
func (ts *TestServer) SSEClient() *SSEClient {
	return NewSSEClient(ts.BaseURL)
}

// findAvailablePort finds an available TCP port
func findAvailablePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

// waitForServer waits for the server to be ready
func waitForServer(baseURL string, timeout time.Duration) error {
	client := NewTestClient(baseURL)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(context.Background(), "/command")
		if err == nil && resp.IsSuccess() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server not ready after %v", timeout)
}
