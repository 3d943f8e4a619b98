package handlers

import (
	"net/http"

	"tsst-site/internal/logging"
	"tsst-site/internal/manifest"
	"tsst-site/internal/metrics"
	"tsst-site/internal/mobility"
	"tsst-site/internal/page"

	"github.com/gorilla/mux"
)

// ListMobilities returns the roadmap entries in registry order with the
// number of published files per kind.
func (h *Handlers) ListMobilities(w http.ResponseWriter, _ *http.Request) {
	all := h.registry.All()
	summaries := make([]page.Summary, 0, len(all))
	for _, m := range all {
		summaries = append(summaries, page.Summarize(m, h.resolver.Assets(m.Slug)))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, summaries)
}

// GetMobility returns the page view of one mobility.
func (h *Handlers) GetMobility(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	m, ok := h.registry.BySlug(slug)
	if !ok {
		writeJSONError(w, "mobility not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, h.view(m))
}

// GetManifest returns the manifest the server currently sees.
func (h *Handlers) GetManifest(w http.ResponseWriter, _ *http.Request) {
	data, err := manifest.Marshal(h.resolver.Manifest())
	if err != nil {
		logging.Error("failed to encode manifest: %v", err)
		writeJSONError(w, "failed to encode manifest", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(data); err != nil {
		logging.Debug("failed to write manifest response: %v", err)
	}
}

// view returns the cached page view of m, rebuilding it when the manifest
// has changed since it was cached.
func (h *Handlers) view(m mobility.Mobility) page.View {
	gen := h.resolver.Generation()

	h.viewsMu.Lock()
	if gen != h.viewsGen {
		h.views.Purge()
		h.viewsGen = gen
	}
	h.viewsMu.Unlock()

	if v, ok := h.views.Get(m.Slug); ok {
		metrics.PageCacheRequests.WithLabelValues("hit").Inc()
		return v
	}
	metrics.PageCacheRequests.WithLabelValues("miss").Inc()

	v := page.Build(m, h.resolver.Assets(m.Slug), manifest.AssetBase(h.assetPrefix, m.Slug))

	// Only cache if the manifest did not move underneath the build
	h.viewsMu.Lock()
	if h.resolver.Generation() == h.viewsGen {
		h.views.Add(m.Slug, v)
	}
	h.viewsMu.Unlock()

	return v
}
