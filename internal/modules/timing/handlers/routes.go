package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all market timing routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market-timing", func(r chi.Router) {
		r.Get("/status", h.HandleGetStatus)
		r.Get("/sessions", h.HandleGetSessions)
		r.Get("/events", h.HandleGetEvents)
		r.Get("/alerts", h.HandleGetAlerts)
		r.Get("/holidays", h.HandleGetHolidays)
		r.Get("/snapshot", h.HandleGetSnapshot)
		r.Get("/stream", h.HandleStream)
	})
}
