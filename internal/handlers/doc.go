// Package handlers provides the HTTP handlers of the preview server.
//
// It includes handlers for:
//   - Health, liveness, readiness and version probes
//   - The mobility roadmap listing and per-mobility page views
//   - The currently loaded manifest
//   - Published media files under the asset prefix
package handlers
