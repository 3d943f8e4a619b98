package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"tsst-site/internal/logging"
)

// RetryConfig bounds the retries of a stat or open that fails with a stale
// NFS file handle.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// VolumeResolver labels the operation; nil means the default resolver.
	VolumeResolver *VolumeResolver
}

// DefaultRetryConfig returns the retry budget used by the sync and the server.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

func (c *RetryConfig) resolveVolume(path string) string {
	if c.VolumeResolver != nil {
		return c.VolumeResolver.Resolve(path)
	}
	return defaultVolumes.Resolve(path)
}

// isNFSStaleError reports whether err wraps ESTALE.
func isNFSStaleError(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ESTALE
}

// withRetry calls fn, and calls it again with exponential backoff for as
// long as it fails with ESTALE and the budget allows. Any other error is
// returned at once.
func withRetry[T any](name, path string, config RetryConfig, fn func() (T, error)) (T, error) {
	volume := config.resolveVolume(path)
	start := time.Now()
	backoff := config.InitialBackoff

	v, err := fn()
	for retry := 1; isNFSStaleError(err); retry++ {
		observer.ObserveRetry(RetryStale, name, volume, time.Since(start))
		if retry > config.MaxRetries {
			logging.Warn("NFS %s failed after %d retries for %s: %v", name, config.MaxRetries, path, err)
			observer.ObserveRetry(RetryExhausted, name, volume, time.Since(start))
			break
		}

		observer.ObserveRetry(RetryAttempt, name, volume, time.Since(start))
		logging.Debug("NFS %s stale file handle for %s, retrying in %v (attempt %d/%d)",
			name, path, backoff, retry, config.MaxRetries)
		time.Sleep(backoff)
		backoff = min(backoff*2, config.MaxBackoff)

		if v, err = fn(); err == nil {
			logging.Info("NFS %s succeeded on retry %d for %s", name, retry, path)
			observer.ObserveRetry(RetrySucceeded, name, volume, time.Since(start))
		}
	}

	observer.ObserveOperation(Operation{Volume: volume, Name: name, Elapsed: time.Since(start), Err: err})
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// StatWithRetry is os.Stat with stale file handle retries.
func StatWithRetry(path string, config RetryConfig) (os.FileInfo, error) {
	return withRetry("stat", path, config, func() (os.FileInfo, error) {
		return os.Stat(path)
	})
}

// OpenWithRetry is os.Open with stale file handle retries.
func OpenWithRetry(path string, config RetryConfig) (*os.File, error) {
	return withRetry("open", path, config, func() (*os.File, error) {
		return os.Open(path)
	})
}
