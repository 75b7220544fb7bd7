package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bmad-ai/bmadhub/internal/inspect"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

// listCommands handles GET /command
func (s *Server) listCommands(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	module := r.URL.Query().Get("module")

	commands := s.registry.List(category, module)
	if commands == nil {
		commands = []types.Command{}
	}
	writeJSON(w, http.StatusOK, commands)
}

// getCommand handles GET /command/{name}
func (s *Server) getCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Command name is required")
		return
	}

	if cmd, ok := s.registry.Resolve(name); ok {
		writeJSON(w, http.StatusOK, cmd)
		return
	}

	// A miss carries near-matches so clients can correct typos.
	suggestions := s.registry.Suggest(name, 0)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeErrorWithDetails(w, http.StatusNotFound, ErrCodeNotFound, "Command not found",
		map[string]any{"suggestions": suggestions})
}

// getCommandSource handles GET /command/{name}/source
func (s *Server) getCommandSource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cmd, ok := s.registry.Resolve(name)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "Command not found")
		return
	}
	if cmd.Source == "" {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "Command has no source file")
		return
	}

	snap := s.registry.Current()
	path, ok := inspect.Locate(cmd.Source, snap.BmadDir, snap.Root)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "Source file not found")
		return
	}

	meta, err := inspect.Source(path)
	if err != nil {
		if errors.Is(err, inspect.ErrNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "Source file not found")
			return
		}
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// searchCommands handles GET /search
func (s *Server) searchCommands(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "q required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results := s.registry.Search(query, limit)
	if results == nil {
		results = []types.Command{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}
