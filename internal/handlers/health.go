package handlers

import (
	"net/http"
	"runtime"
	"time"

	"tsst-site/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Content info
	Mobilities         int    `json:"mobilities"`
	ManifestPath       string `json:"manifestPath"`
	ManifestLoaded     bool   `json:"manifestLoaded"`
	ManifestMobilities int    `json:"manifestMobilities"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. A missing or invalid
// manifest degrades the status but pages still render.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	loaded := h.resolver.Loaded()

	response := HealthResponse{
		Status:             statusHealthy,
		Ready:              loaded,
		Version:            startup.Version,
		Uptime:             time.Since(h.startTime).Round(time.Second).String(),
		Mobilities:         h.registry.Len(),
		ManifestPath:       h.resolver.Path(),
		ManifestLoaded:     loaded,
		ManifestMobilities: h.resolver.Manifest().Len(),
		GoVersion:          runtime.Version(),
		NumCPU:             runtime.NumCPU(),
		NumGoroutine:       runtime.NumGoroutine(),
	}
	if !loaded {
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 once a valid manifest has been loaded
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.resolver.Loaded() {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}
