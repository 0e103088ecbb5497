package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/inkwell/inkwell/internal/middleware"
)

// NewRouter configures the chi router with all routes and middleware.
// It lives here rather than in main so handler tests exercise the real
// route table.
func NewRouter(
	h *Handler,
	healthHandler *HealthHandler,
	userHandler *UserHandler,
	postHandler *PostHandler,
	logger *slog.Logger,
	corsCfg middleware.CORSConfig,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
		r.Delete("/{id}", userHandler.Delete)
		r.Patch("/{id}/email", userHandler.ChangeEmail)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Post("/", postHandler.Create)
		r.Get("/", postHandler.List)
		r.Get("/{id}", postHandler.Get)
		r.Put("/{id}", postHandler.UpdateContent)
		r.Delete("/{id}", postHandler.Delete)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
