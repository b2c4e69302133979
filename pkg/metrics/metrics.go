package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	LookupsTotal          *prometheus.CounterVec
	UpstreamFetchDuration *prometheus.HistogramVec
	SVGSanitizedTotal     prometheus.Counter

	initOnce sync.Once
)

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		LookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "og_image_lookups_total",
				Help: "Total number of og-image lookups by outcome.",
			},
			[]string{"outcome", "stage"}, // outcome: delivered, fallback
		)

		UpstreamFetchDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "og_image_upstream_fetch_duration_seconds",
				Help:    "Duration of outbound page and image fetches.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
			},
			[]string{"stage"},
		)

		SVGSanitizedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "og_image_svg_sanitized_total",
				Help: "Total number of SVG images passed through the sanitizer.",
			},
		)
	})
}
