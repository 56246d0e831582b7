package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(15 * time.Second))

		r.Get("/presets", s.handleListPresets)

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", s.handleListDecks)
			r.Post("/", s.handleCreateDeck)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDeck)
				r.Delete("/", s.handleDeleteDeck)
				r.Get("/policy", s.handleGetPolicy)
				r.Put("/policy", s.handleUpdatePolicy)
				r.Put("/policy/preset/{name}", s.handleApplyPreset)
				r.Post("/notes", s.handleAddNote)
				r.Get("/queue", s.handleQueue)
				r.Get("/next", s.handleNextCard)
				r.Get("/stats", s.handleDeckStats)
			})
		})

		r.Route("/cards/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetCard)
			r.Get("/preview", s.handlePreview)
			r.Get("/reviews", s.handleCardHistory)
			r.Post("/review", s.handleReview)
			r.Post("/suspend", s.handleSuspend)
			r.Post("/unsuspend", s.handleUnsuspend)
		})
	})
	return r
}
