// Package main provides the sync-media command.
//
// sync-media publishes the media of every mobility from the source tree into
// the public tree and writes the manifest the site reads at runtime. It takes
// no arguments; configuration comes from the environment or a .env file in
// the working directory.
//
// # Run Sequence
//
//  1. Load configuration and print the banner
//  2. Load the mapping table from MAPPINGS_FILE, or use the built-in table
//  3. For each mapping, classify and copy its files into a staging tree
//  4. Swap the staged slug directories into place and write the manifest
//  5. Optionally write run metrics to METRICS_TEXTFILE
//
// A missing source directory is not an error: the command reports that no
// files were found and exits 0 without touching the public tree.
//
// # Environment Variables
//
//   - SOURCE_DIR: Mobility source folders (default: ./src/mobilities)
//   - PUBLIC_DIR: Public root; media goes to {PUBLIC_DIR}/mobilities (default: ./public)
//   - MANIFEST_PATH: Manifest location (default: {PUBLIC_DIR}/mobilities/manifest.json)
//   - MAPPINGS_FILE: YAML mapping table overriding the built-in one
//   - THUMBNAILS_ENABLED: Render JPEG previews of images (default: false)
//   - THUMBNAIL_SIZE: Longest thumbnail edge in pixels (default: 480)
//   - METRICS_TEXTFILE: Node exporter textfile to write after the run
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//
// # Exit Codes
//
//   - 0: Sync finished, including when nothing was found
//   - 1: Configuration error or a failed copy; the previous output is kept
package main
