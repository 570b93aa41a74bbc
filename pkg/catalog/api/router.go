package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/thegoodstr/storefront/pkg/catalog"
)

// RouterOptions configures the HTTP router
type RouterOptions struct {
	Logger         *httplog.Logger
	RequestTimeout time.Duration
}

// NewRouter assembles the full HTTP surface: middleware, health check
// and the catalog routes. Cross-origin access is allowed from any
// origin; the storefront is a public site served from a different
// domain.
func NewRouter(service catalog.Service, opts RouterOptions) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth)
	r.Mount("/", NewHandler(service).Routes())

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
