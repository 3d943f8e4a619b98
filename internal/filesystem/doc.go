/*
Package filesystem provides the file operations behind the media sync: a
recursive walker, file copy, atomic writes and directory swaps, all wrapped
with retry logic for NFS stale file handle errors.

# Walking

Walk lists every regular file below a root as a slash-separated relative path:

	files, err := filesystem.Walk("/src/mobilities/kickoff")
	// ["photos/a.jpg", "slides.pptx", ...]

Walk fails when the root is missing; check Exists first when absence is an
expected state.

# Retry Behavior

StatWithRetry and OpenWithRetry retry only on ESTALE (errno 116) with
exponential backoff:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

All other errors fail immediately.

# Publishing

CopyFile removes a partially written destination on failure. WriteFileAtomic
writes through a temporary file and rename. ReplaceDir swaps a staged
directory into place and restores the previous one if the swap fails.

# Metrics

Operations report to the Observer installed with SetObserver, labeled by the
volume name from the VolumeResolver installed with SetDefaultVolumeResolver.
Both are optional.
*/
package filesystem
