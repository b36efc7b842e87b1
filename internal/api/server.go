package api

import (
	"net/http"
	"time"

	"github.com/futig/docs-assistant/internal/api/docs"
	"github.com/futig/docs-assistant/internal/api/middleware"
	sessionapi "github.com/futig/docs-assistant/internal/api/session"
	"github.com/futig/docs-assistant/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router. requestTimeout must
// cover a full query including caller-level retries.
func SetupRouter(sessionHandler *sessionapi.Handler, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)               // Recover from panics
	r.Use(chimiddleware.RequestID)               // Add request ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(middleware.CORS)                       // Handle CORS
	r.Use(chimiddleware.Timeout(requestTimeout)) // Bound a full query

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	sessionapi.RegisterRoutes(r, sessionHandler)

	return r
}
