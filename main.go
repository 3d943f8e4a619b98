package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tsst-site/internal/filesystem"
	"tsst-site/internal/handlers"
	"tsst-site/internal/logging"
	"tsst-site/internal/manifest"
	"tsst-site/internal/metrics"
	"tsst-site/internal/middleware"
	"tsst-site/internal/mobility"
	"tsst-site/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadServerConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"public": config.PublicDir,
	}))
	metrics.InitializeMetrics()

	// Load mobility content
	registry, source, err := loadRegistry(config.MobilitiesFile)
	if err != nil {
		startup.LogFatal("Failed to load mobilities: %v", err)
	}
	startup.LogRegistryInit(source, registry.Len())

	resolver := manifest.NewResolver(config.ManifestPath)

	// Initialize handlers
	h, err := handlers.New(registry, resolver, config)
	if err != nil {
		startup.LogFatal("Failed to initialize handlers: %v", err)
	}

	// Setup router
	router := setupRouter(h, config.AssetPrefix)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply metrics middleware
	metricsConfig := middleware.DefaultMetricsConfig()
	metricsConfig.AssetPrefix = config.AssetPrefix
	var handler http.Handler = middleware.Metrics(metricsConfig)(router)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	// Apply compression middleware
	compress, err := middleware.Compression(middleware.DefaultCompressionConfig())
	if err != nil {
		startup.LogFatal("Failed to configure compression: %v", err)
	}
	handler = compress(handler)

	// Create server
	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(h, config.MetricsPort)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv)

	// Start server
	startup.LogServerStarted(startup.Endpoints{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
}

// loadRegistry reads the mobility table from path, or returns the built-in
// table when path is empty.
func loadRegistry(path string) (*mobility.Registry, string, error) {
	if path == "" {
		return mobility.DefaultRegistry(), "built-in", nil
	}
	registry, err := mobility.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return registry, path, nil
}

func setupRouter(h *handlers.Handlers, assetPrefix string) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Content API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/mobilities", h.ListMobilities).Methods("GET")
	api.HandleFunc("/mobilities/{slug}", h.GetMobility).Methods("GET")
	api.HandleFunc("/manifest", h.GetManifest).Methods("GET")

	// Published media
	r.PathPrefix(assetPrefix+"/").HandlerFunc(h.ServeAsset).Methods("GET", "HEAD")

	return r
}

func newMetricsServer(h *handlers.Handlers, port string) *http.Server {
	r := mux.NewRouter()
	r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	r.HandleFunc("/health", h.LivenessCheck).Methods("GET", "HEAD")

	return &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func handleShutdown(srv, metricsSrv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
