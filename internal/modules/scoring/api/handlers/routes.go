package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all scoring routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/scoring", func(r chi.Router) {
		r.Post("/score", h.HandleScoreStock)          // Score one record without peers
		r.Post("/evaluate", h.HandleEvaluateSnapshot) // Score a full snapshot
		r.Get("/tables", h.HandleGetTables)           // Keyword tables and franchises
		r.Get("/threshold", h.HandleGetThreshold)
	})
}
