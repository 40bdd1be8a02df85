// Package router wires the HTTP surface of the lead service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tricityrealty/leadhub/internal/buyers"
	httpmiddleware "github.com/tricityrealty/leadhub/internal/http/middleware"
	"github.com/tricityrealty/leadhub/internal/importer"
	"github.com/tricityrealty/leadhub/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	BuyersHandler      *buyers.Handler
	ImportHandler      *importer.Handler
	MetricsHandler     http.Handler
	AuthSecret         string
	CORSAllowedOrigins []string
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Owner-scoped API.
	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.OwnerAuth(cfg.AuthSecret))
		api.Route("/buyers", func(b chi.Router) {
			b.Get("/", cfg.BuyersHandler.List)
			b.Post("/", cfg.BuyersHandler.Create)
			b.Get("/stats", cfg.BuyersHandler.Stats)
			b.Get("/export", cfg.BuyersHandler.Export)
			if cfg.ImportHandler != nil {
				b.Post("/import", cfg.ImportHandler.ImportCSV)
				b.Get("/import/template", cfg.ImportHandler.Template)
				b.Get("/imports", cfg.ImportHandler.ListRuns)
			}
			b.Route("/{buyerID}", func(one chi.Router) {
				one.Get("/", cfg.BuyersHandler.Get)
				one.Put("/", cfg.BuyersHandler.Update)
				one.Delete("/", cfg.BuyersHandler.Delete)
			})
		})
	})

	return r
}
