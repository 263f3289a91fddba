package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the HTTP surface: public landing and submission routes,
// token-guarded admin routes and the operational endpoints.
func NewRouter(handler *Handler, health *HealthChecker, metricsHandler http.Handler, adminToken string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/", handler.Index)
	router.Get("/c/{slug}", handler.LandingPage)
	router.Post("/lead/{slug}", handler.SubmitLeadForm)
	router.Post("/api/lead", handler.SubmitLeadAPI)

	router.Group(func(admin chi.Router) {
		admin.Use(requireAdminToken(adminToken))
		admin.Post("/admin/add-client", handler.AddClient)
		admin.Get("/admin/leads/export", handler.ExportLeads)
	})

	router.Method(http.MethodGet, "/healthz", health)
	router.Handle("/metrics", metricsHandler)

	return router
}

// Start runs an HTTP server with the given handler on the specified port and
// blocks until the context is canceled or the server fails. Shutdown is
// graceful and bounded by the read timeout.
func Start(ctx context.Context, log *slog.Logger, handler http.Handler, port int) {
	log.InfoContext(ctx, "Starting HTTP server", "port", port)

	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	var err error
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(readTimeout)*time.Second)
		defer cancel()
		log.InfoContext(ctx, "HTTP server shutting down.")
		if err = server.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(ctx, "HTTP server failed to shutdown", "error", err)
			return
		}
	case err = <-serverErr:
		log.ErrorContext(ctx, "HTTP server failed", "error", err)
	}
}
