package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"gitea.jw6.us/james/daygrid/internal/auth"
	"gitea.jw6.us/james/daygrid/internal/config"
	"gitea.jw6.us/james/daygrid/internal/grid"
	"gitea.jw6.us/james/daygrid/internal/http/csrf"
	"gitea.jw6.us/james/daygrid/internal/http/ratelimit"
	"gitea.jw6.us/james/daygrid/internal/metrics"
	"gitea.jw6.us/james/daygrid/internal/planner"
	"gitea.jw6.us/james/daygrid/internal/tasks"
)

// NewRouter wires all HTTP routes for the day view API.
func NewRouter(cfg *config.Config, authService *auth.Service, p *planner.Planner, taskClient *tasks.Client) http.Handler {
	r := chi.NewRouter()

	// Mutations: 5 requests per second, burst of 10 per client IP.
	dropLimiter := ratelimit.New(rate.Limit(5), 10, 5*time.Minute)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := probeTokenEndpoint(ctx, cfg.Provider.TokenURL); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	window := grid.Window{StartHour: cfg.Grid.StartHour, EndHour: cfg.Grid.EndHour}
	gridHandler := NewGridHandler(p, window, taskClient)

	r.Route("/api", func(r chi.Router) {
		r.Use(authService.RequireSession)
		r.Use(csrf.Middleware(cfg))

		r.Get("/grid", gridHandler.Grid)
		r.Get("/grid/export.ics", gridHandler.ExportICS)
		r.Get("/tasks", gridHandler.Tasks)

		r.Group(func(r chi.Router) {
			r.Use(dropLimiter.Middleware())
			r.Post("/grid/next", gridHandler.Next)
			r.Post("/grid/previous", gridHandler.Previous)
			r.Post("/grid/drop", gridHandler.Drop)
		})
	})

	return r
}

// probeTokenEndpoint checks that the token collaborator is reachable. Any
// HTTP response counts; readiness is about connectivity, not authorization.
func probeTokenEndpoint(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
