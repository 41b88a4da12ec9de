package main

import (
	"github.com/go-chi/chi/v5"

	"github.com/popeskul/aircall-gateway/internal/handler"
)

func setupRouter(h *handler.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/execute", h.Execute)
		r.Route("/triggers/{nodeID}", func(r chi.Router) {
			r.Put("/", h.ActivateTrigger)
			r.Delete("/", h.DeactivateTrigger)
		})
	})

	r.Post("/webhooks/aircall/{nodeID}", h.InboundWebhook)

	return r
}
