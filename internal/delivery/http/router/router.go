package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/og-image-service/internal/delivery/http/handler"
	"github.com/user/og-image-service/internal/delivery/http/middleware"
	"github.com/user/og-image-service/internal/delivery/http/static"
)

// Options holds the site surface settings.
type Options struct {
	PlaceholderPath string
	StaticDir       string // serves remaining GET paths when set
}

func New(h *handler.Handler, logger *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Get("/og-image", h.HandleOGImage)
		r.Get("/og-image/failures", h.HandleListFailures)
	})

	r.Get(opts.PlaceholderPath, static.PlaceholderHandler(opts.StaticDir, opts.PlaceholderPath))

	if opts.StaticDir != "" {
		r.Get("/*", http.FileServer(http.Dir(opts.StaticDir)).ServeHTTP)
	}

	return r
}
