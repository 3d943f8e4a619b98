// Package startup handles configuration loading and the startup and
// shutdown logging shared by the sync-media command and the preview server.
//
// # Configuration
//
// Configuration comes from environment variables. A .env file in the working
// directory is loaded first; variables already set in the environment win.
//
// The sync-media command ([LoadSyncConfig]) reads:
//
//   - SOURCE_DIR: Mobility source folders (default: ./src/mobilities)
//   - PUBLIC_DIR: Public web root; media goes to PUBLIC_DIR/mobilities (default: ./public)
//   - MANIFEST_PATH: Manifest location (default: PUBLIC_DIR/mobilities/manifest.json)
//   - MAPPINGS_FILE: YAML file of source folder to slug mappings (default: built-in)
//   - THUMBNAILS_ENABLED: Write JPEG previews under {slug}/thumbs (default: false)
//   - THUMBNAIL_SIZE: Thumbnail bounding box in pixels (default: 480)
//   - METRICS_TEXTFILE: Write run metrics in node exporter textfile format (default: off)
//
// The preview server ([LoadServerConfig]) reads:
//
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - PUBLIC_DIR, MANIFEST_PATH: As above
//   - MOBILITIES_FILE: YAML mobility table (default: built-in)
//   - ASSET_PREFIX: Public URL prefix of published media (default: /mobilities)
//   - PAGE_CACHE_SIZE: Number of page views kept in memory (default: 64)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// Both honor LOG_LEVEL (debug, info, warn, error) and DEBUG.
//
// # Build Information
//
// Version, Commit and BuildTime are set at build time:
//
//	go build -ldflags "-X tsst-site/internal/startup.Version=1.0.0"
package startup
