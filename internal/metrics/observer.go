package metrics

import (
	"time"

	"tsst-site/internal/filesystem"
)

type filesystemObserver struct{}

// NewFilesystemObserver returns a filesystem.Observer that records into the
// Filesystem* metrics.
func NewFilesystemObserver() filesystem.Observer {
	return filesystemObserver{}
}

func (filesystemObserver) ObserveOperation(op filesystem.Operation) {
	FilesystemOperationDuration.WithLabelValues(op.Volume, op.Name).Observe(op.Elapsed.Seconds())
	if op.Err != nil {
		FilesystemOperationErrors.WithLabelValues(op.Volume, op.Name).Inc()
	}
}

func (filesystemObserver) ObserveRetry(event filesystem.RetryEvent, name, volume string, elapsed time.Duration) {
	switch event {
	case filesystem.RetryStale:
		FilesystemStaleErrors.WithLabelValues(name, volume).Inc()
	case filesystem.RetryAttempt:
		FilesystemRetryAttempts.WithLabelValues(name, volume).Inc()
	case filesystem.RetrySucceeded:
		FilesystemRetrySuccess.WithLabelValues(name, volume).Inc()
		FilesystemRetryDuration.WithLabelValues(name, volume).Observe(elapsed.Seconds())
	case filesystem.RetryExhausted:
		FilesystemRetryFailures.WithLabelValues(name, volume).Inc()
		FilesystemRetryDuration.WithLabelValues(name, volume).Observe(elapsed.Seconds())
	}
}
