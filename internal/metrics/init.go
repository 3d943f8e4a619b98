package metrics

import "tsst-site/internal/mediatypes"

// Volumes are the filesystem labels used by the resolver in the filesystem package.
var Volumes = []string{"source", "public", "unknown"}

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, result := range []string{"success", "error", "no_source"} {
		SyncRunsTotal.WithLabelValues(result)
	}

	for _, k := range mediatypes.Kinds() {
		SyncFilesCopied.WithLabelValues(string(k))
	}

	for _, status := range []string{"success", "error"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}

	for _, result := range []string{"success", "missing", "invalid"} {
		ManifestReloadsTotal.WithLabelValues(result)
	}

	for _, result := range []string{"hit", "miss"} {
		PageCacheRequests.WithLabelValues(result)
	}

	// --- Filesystem operation metrics (per volume × operation) ---
	fsOps := []string{"stat", "open", "copy", "readdir", "write"}
	for _, vol := range Volumes {
		for _, op := range fsOps {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
		}
	}

	// --- Filesystem retry metrics (per retry-operation × volume) ---
	for _, op := range []string{"stat", "open"} {
		for _, vol := range Volumes {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
