// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestDuration is the API latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zisseki_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// EventsSaved counts stored time blocks per operation.
	EventsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zisseki_events_saved_total",
			Help: "Total number of time blocks written",
		},
		[]string{"operation"}, // create, update, delete, classify, save_week
	)

	// CodesGenerated counts derived activity codes per domain.
	CodesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zisseki_codes_generated_total",
			Help: "Total number of activity codes derived from tab selections",
		},
		[]string{"domain"},
	)

	// SummaryCacheLookups counts monthly summary cache hits and misses.
	SummaryCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zisseki_summary_cache_lookups_total",
			Help: "Monthly summary cache lookups",
		},
		[]string{"result"},
	)

	// CatalogRecords is the number of records in the last generated catalog.
	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zisseki_catalog_records",
			Help: "Records rendered into the last technical documents catalog",
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordEventsSaved adds n written blocks for an operation.
func RecordEventsSaved(operation string, n int) {
	if n <= 0 {
		return
	}
	EventsSaved.WithLabelValues(operation).Add(float64(n))
}

// RecordCodeGenerated counts one derived code.
func RecordCodeGenerated(domain string) {
	CodesGenerated.WithLabelValues(domain).Inc()
}

// RecordCacheLookup counts one summary cache lookup.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SummaryCacheLookups.WithLabelValues(result).Inc()
}

// SetCatalogRecords sets the catalog size gauge.
func SetCatalogRecords(n int) {
	CatalogRecords.Set(float64(n))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency labelled by the matched chi route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}
