package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vidrelay/vidrelay/internal/api/handler"
	mw "github.com/vidrelay/vidrelay/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	downloadHandler *handler.DownloadHandler,
	healthHandler *handler.HealthHandler,
	historyHandler *handler.HistoryHandler,
	uiHandler *handler.UIHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(mw.CORS)

	// Health endpoint
	r.Get("/health", healthHandler.Live)

	// Front-end
	r.Get("/", uiHandler.Index)
	r.Get("/app.js", uiHandler.Script)

	// The relay route carries no timeout middleware: an extraction runs
	// for as long as the tool needs.
	r.Post("/download", downloadHandler.Download)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/stats", healthHandler.Stats)
		r.Get("/history", historyHandler.List)
	})

	return r
}
