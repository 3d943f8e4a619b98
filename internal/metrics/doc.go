// Package metrics provides Prometheus instrumentation for the media sync
// command and the preview server.
//
// All metrics are prefixed with "tsst_site_" and registered on the default
// registry through promauto.
//
// # Metric Categories
//
// ## Sync Metrics
//
//   - SyncRunsTotal: runs by result (success, error, no_source)
//   - SyncLastRunTimestamp / SyncLastRunDuration
//   - SyncFilesCopied: files copied by kind
//   - SyncBytesCopied, SyncUnclassifiedFiles, SyncMobilitiesSkipped
//   - SyncMobilityFiles: published files per slug and kind
//   - ThumbnailGenerationsTotal / ThumbnailGenerationDuration
//
// ## Manifest Metrics
//
//   - ManifestReloadsTotal: resolver reloads by result
//   - ManifestMobilities: slugs in the loaded manifest
//   - PageCacheRequests: page view cache hits and misses
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer returned by NewFilesystemObserver:
// operation durations and errors per volume, plus ESTALE retry counters.
//
// # Exporting
//
// The preview server serves the default registry with promhttp. The sync
// command is a batch job, so it writes the registry to a textfile instead:
//
//	if err := metrics.WriteTextfile("/var/lib/node_exporter/tsst_sync.prom"); err != nil {
//	    logging.Warn("failed to write metrics: %v", err)
//	}
package metrics
