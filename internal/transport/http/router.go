package http

import (
	"gacha-collector-bot/internal/transport/http/handler"
	"gacha-collector-bot/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(h *handler.Handler, adminHandler *handler.AdminHandler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure for production
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API key authentication (skip for health checks)
	r.Use(middleware.APIKeyAuth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check endpoints (no auth required)
		r.Get("/health", h.Health)
		r.Get("/ready", h.Ready)

		// Admin endpoints
		if adminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", adminHandler.GetStats)
				r.Get("/users/{discord_id}", adminHandler.GetUser)
				r.Post("/spawn", adminHandler.ForceSpawn)
			})
		}
	})

	return r
}
