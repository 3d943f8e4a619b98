package filesystem

import "time"

// RetryEvent is one step of the stale file handle retry loop.
type RetryEvent string

const (
	// RetryStale is reported for every attempt that failed with ESTALE.
	RetryStale RetryEvent = "stale"
	// RetryAttempt is reported before each retry.
	RetryAttempt RetryEvent = "attempt"
	// RetrySucceeded is reported when a retry recovered the operation.
	RetrySucceeded RetryEvent = "succeeded"
	// RetryExhausted is reported when every retry hit ESTALE.
	RetryExhausted RetryEvent = "exhausted"
)

// Operation is one completed filesystem call.
type Operation struct {
	// Volume is the label from the volume resolver, such as "source".
	Volume string
	// Name is one of "stat", "open", "copy", "readdir" or "write".
	Name    string
	Elapsed time.Duration
	Err     error
}

// Observer receives filesystem events. The metrics package provides the
// Prometheus implementation; filesystem never imports it.
type Observer interface {
	ObserveOperation(op Operation)
	// ObserveRetry reports a retry step of operation name on volume. elapsed
	// is measured from the first attempt.
	ObserveRetry(event RetryEvent, name, volume string, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveOperation(Operation)                             {}
func (noopObserver) ObserveRetry(RetryEvent, string, string, time.Duration) {}

var observer Observer = noopObserver{}

// SetObserver installs o for every later operation. A nil o disables
// reporting. Call it once at startup.
func SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	observer = o
}

// timed reports a single non-retried operation.
func timed(name, path string, start time.Time, err error) {
	observer.ObserveOperation(Operation{
		Volume:  defaultVolumes.Resolve(path),
		Name:    name,
		Elapsed: time.Since(start),
		Err:     err,
	})
}
