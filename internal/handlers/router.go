package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/railsahayak/complaint-server/internal/metrics"
	"github.com/railsahayak/complaint-server/internal/middleware"
	"github.com/railsahayak/complaint-server/internal/ratelimit"
	"go.uber.org/zap"
)

// RouterConfig collects everything the router wires together.
// Limiter and StaticDir are optional.
type RouterConfig struct {
	Complaints     *ComplaintHandler
	Assistant      *AssistantHandler
	Health         *HealthHandler
	Limiter        ratelimit.Limiter
	AllowedOrigins []string
	MaxBodyBytes   int64
	StaticDir      string
	Logger         *zap.Logger
}

// NewRouter builds the HTTP routing tree
func NewRouter(cfg RouterConfig) http.Handler {
	sugar := cfg.Logger.Sugar()
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(middleware.RateLimit(cfg.Limiter, sugar))
		}
		r.Use(middleware.MaxBody(cfg.MaxBodyBytes))

		r.Get("/health", cfg.Health.Check)
		r.Get("/health/ready", cfg.Health.Ready)

		r.Route("/complaints", func(r chi.Router) {
			r.Post("/", cfg.Complaints.Submit)
			r.Get("/options", cfg.Complaints.Options)
		})

		r.Route("/assistant", func(r chi.Router) {
			r.Get("/quick-actions", cfg.Assistant.QuickActions)
			r.Post("/sessions", cfg.Assistant.CreateSession)
			r.Route("/sessions/{sessionID}", func(r chi.Router) {
				r.Get("/messages", cfg.Assistant.Messages)
				r.Post("/messages", cfg.Assistant.Send)
				r.Put("/language", cfg.Assistant.SetLanguage)
				r.Delete("/", cfg.Assistant.Close)
			})
		})
	})

	// Serve the front-end bundle
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
