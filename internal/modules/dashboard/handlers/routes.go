package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all dataset and cohort routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/cohorts", h.HandleGetRoster) // Configured cohort roster

	r.Route("/datasets", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleUpload)

		// {id} is a dataset id or "latest" for the scheduled feed
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleDelete)
			r.Get("/company", h.HandleGetCompany)
			r.Get("/consultants", h.HandleGetConsultants)
			r.Get("/leaderboard", h.HandleGetLeaderboard)
			r.Get("/teams", h.HandleGetTeams)
			r.Get("/distribution", h.HandleGetDistribution)
			r.Get("/cohorts", h.HandleGetSplit)
		})
	})
}
