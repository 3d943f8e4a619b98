// Package main provides the preview server for the TSST site.
//
// The server renders nothing itself. It exposes the mobility roadmap, the
// per-mobility page views and the published media as JSON and static files,
// so the content produced by sync-media can be checked before the site is
// built and deployed.
//
// # Application Lifecycle
//
//  1. Configuration Loading: Reads the environment and a .env file
//  2. Content Registry: Loads MOBILITIES_FILE, or the built-in mobility table
//  3. Manifest Resolver: Watches MANIFEST_PATH and re-reads it when it changes
//  4. HTTP Server Setup: Configures routes and middleware, then starts serving
//  5. Graceful Shutdown: Handles SIGINT/SIGTERM and drains both servers
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - /health, /healthz, /livez, /readyz and /version
//     - /api/mobilities: roadmap entries with published file counts
//     - /api/mobilities/{slug}: the page view of one mobility
//     - /api/manifest: the manifest as the server currently sees it
//     - {ASSET_PREFIX}/...: published media files
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Health check endpoint (/health)
//
// A missing manifest is not fatal. Pages fall back to their legacy media and
// /readyz reports 503 until sync-media has written one.
//
// # Environment Variables
//
//   - PORT: Main HTTP server port (default: 8080)
//   - PUBLIC_DIR: Public root holding the mobilities tree (default: ./public)
//   - MANIFEST_PATH: Manifest location (default: {PUBLIC_DIR}/mobilities/manifest.json)
//   - MOBILITIES_FILE: YAML mobility table overriding the built-in one
//   - ASSET_PREFIX: URL prefix of published media (default: /mobilities)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - LOG_STATIC_FILES: Log requests for media files (default: false)
//   - LOG_HEALTH_CHECKS: Log probe requests (default: true)
//   - PAGE_CACHE_SIZE: Number of page views kept in memory (default: 64)
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//
// # Related Packages
//
//   - [tsst-site/internal/handlers]: HTTP request handlers
//   - [tsst-site/internal/manifest]: Manifest format and resolver
//   - [tsst-site/internal/mobility]: Mobility content registry
//   - [tsst-site/internal/page]: Page view builder
//   - [tsst-site/internal/middleware]: HTTP middleware (logging, metrics, compression)
//   - [tsst-site/internal/startup]: Configuration and initialization
package main
