package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all scoring routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/scoring", func(r chi.Router) {
		r.Post("/score", h.HandleScore) // Score one record, optional what-if weights

		r.Route("/weights", func(r chi.Router) {
			r.Get("/current", h.HandleGetCurrentWeights)
		})

		r.Get("/thresholds", h.HandleGetThresholds) // Tier / vehicle / colour bands
	})
}
