package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tsst-site/internal/filesystem"
	"tsst-site/internal/logging"
	"tsst-site/internal/media"
	"tsst-site/internal/mediasync"
	"tsst-site/internal/metrics"
	"tsst-site/internal/startup"
)

func main() {
	os.Exit(run())
}

func run() int {
	config, err := startup.LoadSyncConfig()
	if err != nil {
		logging.Error("Configuration error: %v", err)
		return 1
	}

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"source": config.SourceDir,
		"public": config.PublicDir,
	}))
	metrics.InitializeMetrics()

	syncConfig := mediasync.Config{
		SourceDir:    config.SourceDir,
		OutputDir:    config.OutputDir,
		ManifestPath: config.ManifestPath,
	}

	if config.MappingsFile != "" {
		mappings, err := mediasync.LoadMappingsFile(config.MappingsFile)
		if err != nil {
			logging.Error("Failed to load mappings: %v", err)
			return 1
		}
		syncConfig.Mappings = mappings
		logging.Info("Loaded %d mappings from %s", len(mappings), config.MappingsFile)
	}

	if config.ThumbnailsEnabled {
		syncConfig.Thumbnailer = media.NewThumbnailer(config.ThumbnailSize)
	}

	syncer, err := mediasync.New(syncConfig)
	if err != nil {
		logging.Error("Invalid sync configuration: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := syncer.Run(ctx)
	writeTextfile(config.MetricsTextfile)
	if err != nil {
		logging.Error("Sync failed: %v", err)
		return 1
	}

	if result.Total() == 0 {
		logging.Info("")
		logging.Info("No files were found in %s.", config.SourceDir)
		logging.Info("Add images, videos, PDFs or presentations to the mobility folders and run sync-media again.")
	}
	return 0
}

// writeTextfile dumps the run metrics for the node exporter. Failures are
// logged and never change the exit code.
func writeTextfile(path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		logging.Warn("Failed to write metrics textfile %s: %v", path, err)
		return
	}
	logging.Debug("Wrote metrics textfile %s", path)
}
