package manifest

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"tsst-site/internal/logging"
	"tsst-site/internal/mediatypes"
	"tsst-site/internal/metrics"
)

// DefaultAssetPrefix is the public URL prefix of the mobilities tree.
const DefaultAssetPrefix = "/mobilities"

// Resolver serves manifest lookups to page rendering. It never fails: a
// missing or malformed manifest reads as empty. The file is re-read whenever
// its size or modification time changes.
type Resolver struct {
	path string

	mu         sync.Mutex
	checked    bool
	modTime    time.Time
	size       int64
	present    bool
	loaded     bool
	current    *Manifest
	generation uint64
}

// NewResolver creates a resolver for the manifest at path. Nothing is read
// until the first lookup.
func NewResolver(path string) *Resolver {
	return &Resolver{path: path, current: New()}
}

// Path returns the manifest path.
func (r *Resolver) Path() string {
	return r.path
}

// Assets returns the published files for slug, or an empty entry if the slug
// or the manifest is absent.
func (r *Resolver) Assets(slug string) Entry {
	m := r.Manifest()
	if e, ok := m.Get(slug); ok {
		return e
	}
	return Entry{}.normalized()
}

// Manifest returns the current manifest snapshot. Callers must not modify it.
func (r *Resolver) Manifest() *Manifest {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshLocked()
	return r.current
}

// Generation increments each time the resolver observes a different manifest
// file, including the file disappearing. Caches keyed on manifest content
// compare generations to decide when to purge.
func (r *Resolver) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshLocked()
	return r.generation
}

// Loaded reports whether the manifest file exists and parsed cleanly.
func (r *Resolver) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshLocked()
	return r.loaded
}

func (r *Resolver) refreshLocked() {
	info, err := os.Stat(r.path)
	if err != nil {
		if r.checked && !r.present {
			return
		}
		if !errors.Is(err, fs.ErrNotExist) {
			logging.Warn("Manifest %s unreadable, serving no assets: %v", r.path, err)
		} else {
			logging.Debug("Manifest %s not found, serving no assets", r.path)
		}
		r.checked, r.present, r.loaded = true, false, false
		r.current = New()
		r.generation++
		metrics.ManifestReloadsTotal.WithLabelValues("missing").Inc()
		metrics.ManifestMobilities.Set(0)
		return
	}

	if r.checked && r.present && info.ModTime().Equal(r.modTime) && info.Size() == r.size {
		return
	}

	r.checked, r.present = true, true
	r.modTime, r.size = info.ModTime(), info.Size()
	r.generation++

	m, err := Load(r.path)
	if err != nil {
		logging.Warn("Manifest %s is invalid, serving no assets: %v", r.path, err)
		r.current, r.loaded = New(), false
		metrics.ManifestReloadsTotal.WithLabelValues("invalid").Inc()
		metrics.ManifestMobilities.Set(0)
		return
	}

	logging.Info("Loaded manifest %s (%d mobilities)", r.path, m.Len())
	r.current, r.loaded = m, true
	metrics.ManifestReloadsTotal.WithLabelValues("success").Inc()
	metrics.ManifestMobilities.Set(float64(m.Len()))
}

// AssetBase returns the public path under which the kind directories of slug
// live. An empty prefix means DefaultAssetPrefix. It performs no I/O.
func AssetBase(prefix, slug string) string {
	if prefix == "" {
		prefix = DefaultAssetPrefix
	}
	return strings.TrimRight(prefix, "/") + "/" + slug
}

// AssetPath joins a base from AssetBase with the kind directory and file name.
func AssetPath(base string, k mediatypes.Kind, file string) string {
	return base + "/" + k.Dir() + "/" + file
}
