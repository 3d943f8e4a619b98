package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tsst-site/internal/metrics"
)

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are paths that should not be recorded
	SkipPaths []string
	// AssetPrefix collapses every published file into one label
	AssetPrefix string
}

// DefaultMetricsConfig returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths:   []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"},
		AssetPrefix: "/mobilities",
	}
}

// Metrics returns a middleware that records Prometheus metrics
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics for certain paths
			for _, path := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Track in-flight requests
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			rec := newStatusRecorder(w)

			// Record start time
			start := time.Now()

			// Process request
			next.ServeHTTP(rec, r)

			// Record metrics
			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path, config.AssetPrefix)
			status := strconv.Itoa(rec.status)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

// normalizePath maps request paths onto route templates so that slugs and
// file names do not become label values.
func normalizePath(path, assetPrefix string) string {
	if assetPrefix != "" && strings.HasPrefix(path, assetPrefix+"/") {
		return assetPrefix + "/{asset}"
	}

	if strings.HasPrefix(path, "/api/mobilities/") {
		return "/api/mobilities/{slug}"
	}

	switch path {
	case "/", "/version", "/metrics", "/health", "/healthz", "/livez", "/readyz",
		"/api/mobilities", "/api/manifest":
		return path
	}
	return "{other}"
}
