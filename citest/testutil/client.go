package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// TestClient provides HTTP client utilities for testing
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTestClient creates a new test HTTP client
func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// RequestOption configures HTTP requests
type RequestOption func(*http.Request)

// WithHeader adds a header to the request
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// WithQuery adds query parameters
func WithQuery(params map[string]string) RequestOption {
	return func(r *http.Request) {
		q := r.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		r.URL.RawQuery = q.Encode()
	}
}

// Response wraps HTTP response with helpers
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON unmarshals response body into v
func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// String returns response body as string
func (r *Response) String() string {
	return string(r.Body)
}

// IsSuccess returns true if status code is 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs HTTP GET request
func (c *TestClient) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs HTTP POST request with JSON body
func (c *TestClient) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts...)
}

// do performs the actual HTTP request
func (c *TestClient) do(ctx context.Context, method, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	fullURL := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// ---- Registry Helpers ----

// RegistryInfo mirrors the snapshot summary the server returns
type RegistryInfo struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Root     string    `json:"root"`
	BmadDir  string    `json:"bmadDir"`
	Commands int       `json:"commands"`
	Modules  []string  `json:"modules"`
	Links    int       `json:"links"`
	Issues   int       `json:"issues"`
}

// ScanResult mirrors the scan trigger response
type ScanResult struct {
	Scanned  bool          `json:"scanned"`
	Snapshot *RegistryInfo `json:"snapshot"`
}

// Link mirrors one externally authored command file record
type Link struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Command string `json:"command"`
}

// Issue mirrors one non-fatal scan failure
type Issue struct {
	Stage string `json:"stage"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

// APIError mirrors the server's error envelope
type APIError struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

// GetRegistry retrieves the current snapshot summary
func (c *TestClient) GetRegistry(ctx context.Context) (*RegistryInfo, error) {
	resp, err := c.Get(ctx, "/registry")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to get registry: %d - %s", resp.StatusCode, resp.String())
	}

	var info RegistryInfo
	if err := resp.JSON(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// TriggerScan requests a rescan of the configured root
func (c *TestClient) TriggerScan(ctx context.Context) (*ScanResult, error) {
	return c.TriggerScanAt(ctx, "", "")
}

// TriggerScanAt requests a scan of an explicit root
func (c *TestClient) TriggerScanAt(ctx context.Context, root, override string) (*ScanResult, error) {
	body := map[string]string{}
	if root != "" {
		body["root"] = root
	}
	if override != "" {
		body["override"] = override
	}

	resp, err := c.Post(ctx, "/registry/scan", body)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to trigger scan: %d - %s", resp.StatusCode, resp.String())
	}

	var result ScanResult
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetModules lists the installed modules
func (c *TestClient) GetModules(ctx context.Context) ([]string, error) {
	resp, err := c.Get(ctx, "/registry/modules")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to get modules: %d - %s", resp.StatusCode, resp.String())
	}

	var result struct {
		Modules []string `json:"modules"`
	}
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return result.Modules, nil
}

// GetLinks lists the discovered prompt and chatmode files
func (c *TestClient) GetLinks(ctx context.Context) ([]Link, error) {
	resp, err := c.Get(ctx, "/registry/links")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to get links: %d - %s", resp.StatusCode, resp.String())
	}

	var result struct {
		Links []Link `json:"links"`
	}
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return result.Links, nil
}

// GetIssues lists the issues of the current snapshot
func (c *TestClient) GetIssues(ctx context.Context) ([]Issue, error) {
	resp, err := c.Get(ctx, "/registry/issues")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to get issues: %d - %s", resp.StatusCode, resp.String())
	}

	var result struct {
		Issues []Issue `json:"issues"`
	}
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return result.Issues, nil
}

// GetHistory lists past scan summaries, newest first
func (c *TestClient) GetHistory(ctx context.Context, limit int) ([]RegistryInfo, error) {
	opts := []RequestOption{}
	if limit > 0 {
		opts = append(opts, WithQuery(map[string]string{"limit": strconv.Itoa(limit)}))
	}

	resp, err := c.Get(ctx, "/registry/history", opts...)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to get history: %d - %s", resp.StatusCode, resp.String())
	}

	var result struct {
		History []RegistryInfo `json:"history"`
	}
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return result.History, nil
}

// ---- Command Helpers ----

// Command mirrors one registry command record
type Command struct {
	Name        string `json:"name"`
	Syntax      string `json:"syntax"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Module      string `json:"module"`
	Source      string `json:"source"`
	AgentName   string `json:"agentName"`
	AgentTitle  string `json:"agentTitle"`
	Pattern     string `json:"pattern"`
	LinkedPath  string `json:"linkedPath"`
}

// SourceMeta mirrors the shallow source inspection response
type SourceMeta struct {
	Path        string            `json:"path"`
	Format      string            `json:"format"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Author      string            `json:"author"`
	Element     string            `json:"element"`
	Attributes  map[string]string `json:"attributes"`
	Heading     string            `json:"heading"`
	Excerpt     string            `json:"excerpt"`
}

// SearchResult mirrors the search response
type SearchResult struct {
	Query   string    `json:"query"`
	Count   int       `json:"count"`
	Results []Command `json:"results"`
}

// ListCommands lists all registered commands
func (c *TestClient) ListCommands(ctx context.Context, opts ...RequestOption) ([]Command, error) {
	resp, err := c.Get(ctx, "/command", opts...)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to list commands: %d - %s", resp.StatusCode, resp.String())
	}

	var commands []Command
	if err := resp.JSON(&commands); err != nil {
		return nil, err
	}
	return commands, nil
}

// GetCommand resolves a command by external name
func (c *TestClient) GetCommand(ctx context.Context, name string) (*Command, error) {
	resp, err := c.Get(ctx, "/command/"+name)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to get command: %d - %s", resp.StatusCode, resp.String())
	}

	var command Command
	if err := resp.JSON(&command); err != nil {
		return nil, err
	}
	return &command, nil
}

// GetCommandSource inspects a command's source file
func (c *TestClient) GetCommandSource(ctx context.Context, name string) (*SourceMeta, error) {
	resp, err := c.Get(ctx, "/command/"+name+"/source")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to get command source: %d - %s", resp.StatusCode, resp.String())
	}

	var meta SourceMeta
	if err := resp.JSON(&meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// SearchCommands searches command names and descriptions
func (c *TestClient) SearchCommands(ctx context.Context, query string, limit int) (*SearchResult, error) {
	params := map[string]string{"q": query}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	resp, err := c.Get(ctx, "/search", WithQuery(params))
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to search: %d - %s", resp.StatusCode, resp.String())
	}

	var result SearchResult
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetManifestRows retrieves the raw rows of one manifest kind
func (c *TestClient) GetManifestRows(ctx context.Context, kind string) ([]map[string]string, error) {
	resp, err := c.Get(ctx, "/manifest/"+kind)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to get manifest: %d - %s", resp.StatusCode, resp.String())
	}

	var result struct {
		Kind string              `json:"kind"`
		Rows []map[string]string `json:"rows"`
	}
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return result.Rows, nil
}

// ---- Assertion Helpers ----

// ContainsString checks if a string slice contains a value
func ContainsString(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
