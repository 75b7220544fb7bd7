package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	// Registry routes
	r.Route("/registry", func(r chi.Router) {
		r.Get("/", s.getRegistry)
		r.Post("/scan", s.triggerScan)
		r.Get("/modules", s.getModules)
		r.Get("/links", s.getLinks)
		r.Get("/issues", s.getIssues)
		r.Get("/history", s.getHistory)
	})

	// Command routes
	r.Route("/command", func(r chi.Router) {
		r.Get("/", s.listCommands)
		r.Get("/{name}", s.getCommand)
		r.Get("/{name}/source", s.getCommandSource)
	})

	// Search
	r.Get("/search", s.searchCommands)

	// Raw manifest rows
	r.Get("/manifest/{kind}", s.getManifest)

	// Event streaming (SSE)
	r.Get("/event", s.allEvents)
}
