package handlers

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"tsst-site/internal/filesystem"
	"tsst-site/internal/logging"
	"tsst-site/internal/mediatypes"
)

// ServeAsset serves a published file below the asset prefix. Directory
// listings and hidden entries, such as in-progress staging directories, are
// never served.
func (h *Handlers) ServeAsset(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, h.assetPrefix)
	clean := path.Clean("/" + rel)

	for _, segment := range strings.Split(strings.TrimPrefix(clean, "/"), "/") {
		if segment == "" || strings.HasPrefix(segment, ".") {
			http.NotFound(w, r)
			return
		}
	}

	fullPath := filepath.Join(h.outputDir, filepath.FromSlash(clean))

	info, err := filesystem.StatWithRetry(fullPath, h.retry)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	f, err := filesystem.OpenWithRetry(fullPath, h.retry)
	if err != nil {
		logging.Warn("failed to open asset %s: %v", fullPath, err)
		http.Error(w, "failed to open file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	ext := path.Ext(clean)
	if mediatypes.IsMediaFile(ext) {
		w.Header().Set("Content-Type", mediatypes.GetMimeType(ext))
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
