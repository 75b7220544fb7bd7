package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bmad-ai/bmadhub/internal/manifest"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

// ScanRequest optionally overrides the configured scan location.
type ScanRequest struct {
	Root     string `json:"root,omitempty"`
	Override string `json:"override,omitempty"`
}

// ScanResponse reports the outcome of a scan request. Scanned is false
// when no installation was found.
type ScanResponse struct {
	Scanned  bool                `json:"scanned"`
	Snapshot *types.SnapshotInfo `json:"snapshot,omitempty"`
}

// getRegistry handles GET /registry
func (s *Server) getRegistry(w http.ResponseWriter, r *http.Request) {
	snap := s.registry.Current()
	if snap == nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "No snapshot published yet")
		return
	}
	writeJSON(w, http.StatusOK, snap.Info())
}

// triggerScan handles POST /registry/scan
func (s *Server) triggerScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Empty body is ok
		req = ScanRequest{}
	}

	root := req.Root
	if root == "" {
		root = s.config.Root
	}
	override := req.Override
	if override == "" {
		override = s.config.Override
	}

	if root == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Scan root is not configured")
		return
	}

	snap, err := s.registry.Scan(root, override)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	if snap == nil {
		writeJSON(w, http.StatusOK, ScanResponse{Scanned: false})
		return
	}

	info := snap.Info()
	writeJSON(w, http.StatusOK, ScanResponse{Scanned: true, Snapshot: &info})
}

// getModules handles GET /registry/modules
func (s *Server) getModules(w http.ResponseWriter, r *http.Request) {
	modules := []string{}
	if snap := s.registry.Current(); snap != nil {
		modules = append(modules, snap.Modules...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"modules": modules})
}

// getLinks handles GET /registry/links
func (s *Server) getLinks(w http.ResponseWriter, r *http.Request) {
	links := []types.Link{}
	if snap := s.registry.Current(); snap != nil {
		links = append(links, snap.Links...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}

// getIssues handles GET /registry/issues
func (s *Server) getIssues(w http.ResponseWriter, r *http.Request) {
	issues := []types.Issue{}
	if snap := s.registry.Current(); snap != nil {
		issues = append(issues, snap.Issues...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"issues": issues})
}

// getHistory handles GET /registry/history
func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := s.registry.History(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	if history == nil {
		history = []types.SnapshotInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

// getManifest handles GET /manifest/{kind}
func (s *Server) getManifest(w http.ResponseWriter, r *http.Request) {
	kind := manifest.Kind(chi.URLParam(r, "kind"))

	known := false
	for _, k := range manifest.Kinds() {
		if k == kind {
			known = true
			break
		}
	}
	if !known {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Unknown manifest kind")
		return
	}

	rows := []manifest.Row{}
	if snap := s.registry.Current(); snap != nil {
		rows = append(rows, snap.Rows[kind]...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"kind": kind, "rows": rows})
}
