package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tsst_site_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tsst_site_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Sync metrics
var (
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_sync_runs_total",
			Help: "Total number of media sync runs by result",
		},
		[]string{"result"}, // "success", "error", "no_source"
	)

	SyncLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tsst_site_sync_last_run_timestamp",
			Help: "Timestamp of the last completed sync run",
		},
	)

	SyncLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tsst_site_sync_last_run_duration_seconds",
			Help: "Duration of the last sync run in seconds",
		},
	)

	SyncFilesCopied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_sync_files_copied_total",
			Help: "Total number of media files copied into the public tree",
		},
		[]string{"kind"},
	)

	SyncBytesCopied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tsst_site_sync_bytes_copied_total",
			Help: "Total number of bytes copied into the public tree",
		},
	)

	SyncUnclassifiedFiles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tsst_site_sync_unclassified_files_total",
			Help: "Total number of source files skipped because of an unknown extension",
		},
	)

	SyncMobilitiesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tsst_site_sync_mobilities_skipped_total",
			Help: "Total number of mobilities skipped because their source root was missing",
		},
	)

	SyncMobilityFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tsst_site_sync_mobility_files",
			Help: "Number of published files per mobility and kind after the last sync",
		},
		[]string{"slug", "kind"},
	)

	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_thumbnail_generations_total",
			Help: "Total number of thumbnail generations by status",
		},
		[]string{"status"}, // "success", "error"
	)

	ThumbnailGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tsst_site_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

// Manifest metrics
var (
	ManifestReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_manifest_reloads_total",
			Help: "Total number of manifest reloads by result",
		},
		[]string{"result"}, // "success", "missing", "invalid"
	)

	ManifestMobilities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tsst_site_manifest_mobilities",
			Help: "Number of mobilities in the currently loaded manifest",
		},
	)

	PageCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_page_cache_requests_total",
			Help: "Page view cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tsst_site_filesystem_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retry attempts after a stale file handle",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsst_site_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors encountered",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tsst_site_filesystem_retry_duration_seconds",
			Help:    "Total duration of retried filesystem operations in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "volume"},
	)
)

// WriteTextfile writes every registered metric to path in the Prometheus text
// format, for the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
