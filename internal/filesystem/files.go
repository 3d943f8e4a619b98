package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Exists reports whether path exists and is a directory. Any stat failure,
// including permission errors, is treated as absence.
func Exists(path string) bool {
	info, err := StatWithRetry(path, DefaultRetryConfig())
	return err == nil && info.IsDir()
}

// Walk returns every regular file below root, recursively, as a slash-separated
// path relative to root. Symlinks, sockets and other non-regular entries are
// ignored. The order is whatever the walk produced; callers sort.
//
// Walk fails if root does not exist, so callers check Exists first.
func Walk(root string) ([]string, error) {
	start := time.Now()
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	timed("readdir", root, start, err)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// CopyFile copies src to dst, truncating dst if it exists, and returns the
// number of bytes written. A partially written dst is removed on failure.
func CopyFile(src, dst string, config RetryConfig) (n int64, err error) {
	in, err := OpenWithRetry(src, config)
	if err != nil {
		return 0, fmt.Errorf("open source %s: %w", src, err)
	}
	defer in.Close()

	start := time.Now()
	defer func() { timed("copy", dst, start, err) }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	n, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	return n, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	start := time.Now()
	defer func() { timed("write", path, start, err) }()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}

	return nil
}

// ReplaceDir moves the directory src to dst. An existing dst is first moved
// to trash and removed once src is in place; if the final rename fails the
// previous dst is restored. src, dst and trash must be on the same filesystem.
func ReplaceDir(src, dst, trash string) error {
	hadOld := false
	if _, err := os.Lstat(dst); err == nil {
		if err := os.Rename(dst, trash); err != nil {
			return fmt.Errorf("move aside %s: %w", dst, err)
		}
		hadOld = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", dst, err)
	}

	if err := os.Rename(src, dst); err != nil {
		if hadOld {
			if restoreErr := os.Rename(trash, dst); restoreErr != nil {
				return fmt.Errorf("move %s to %s: %w (restore failed: %v)", src, dst, err, restoreErr)
			}
		}
		return fmt.Errorf("move %s to %s: %w", src, dst, err)
	}

	if hadOld {
		if err := os.RemoveAll(trash); err != nil {
			return fmt.Errorf("remove previous %s: %w", dst, err)
		}
	}

	return nil
}
