package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"tsst-site/internal/logging"
	"tsst-site/internal/manifest"

	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// mobilitiesSubdir is the directory under PUBLIC_DIR that holds published media.
const mobilitiesSubdir = "mobilities"

// SyncConfig holds the configuration of the sync-media command
type SyncConfig struct {
	SourceDir         string
	PublicDir         string
	OutputDir         string
	ManifestPath      string
	MappingsFile      string
	ThumbnailsEnabled bool
	ThumbnailSize     int
	MetricsTextfile   string
}

// LoadSyncConfig loads the sync configuration from the environment, after
// reading a .env file from the working directory if one exists.
func LoadSyncConfig() (*SyncConfig, error) {
	_ = godotenv.Load()

	printBanner("media sync")
	logSystemInfo()

	logSection("CONFIGURATION")

	sourceDir := getEnv("SOURCE_DIR", "./src/mobilities")
	publicDir := getEnv("PUBLIC_DIR", "./public")
	manifestPath := getEnv("MANIFEST_PATH", "")
	mappingsFile := getEnv("MAPPINGS_FILE", "")
	thumbnailsEnabled := getEnvBool("THUMBNAILS_ENABLED", false)
	thumbnailSize := getEnvInt("THUMBNAIL_SIZE", 480)
	metricsTextfile := getEnv("METRICS_TEXTFILE", "")

	var err error
	if sourceDir, err = filepath.Abs(sourceDir); err != nil {
		return nil, fmt.Errorf("failed to resolve source directory path: %w", err)
	}
	if publicDir, err = filepath.Abs(publicDir); err != nil {
		return nil, fmt.Errorf("failed to resolve public directory path: %w", err)
	}
	outputDir := filepath.Join(publicDir, mobilitiesSubdir)
	if manifestPath == "" {
		manifestPath = filepath.Join(outputDir, manifest.FileName)
	}

	if thumbnailSize <= 0 {
		logging.Warn("  Invalid THUMBNAIL_SIZE %d, using default: 480", thumbnailSize)
		thumbnailSize = 480
	}

	logging.Info("  SOURCE_DIR:          %s", sourceDir)
	logging.Info("  PUBLIC_DIR:          %s", publicDir)
	logging.Info("  Output directory:    %s", outputDir)
	logging.Info("  MANIFEST_PATH:       %s", manifestPath)
	logging.Info("  MAPPINGS_FILE:       %s", valueOr(mappingsFile, "(built-in)"))
	logging.Info("  THUMBNAILS_ENABLED:  %v", thumbnailsEnabled)
	if thumbnailsEnabled {
		logging.Info("  THUMBNAIL_SIZE:      %d", thumbnailSize)
	}
	logging.Info("  METRICS_TEXTFILE:    %s", valueOr(metricsTextfile, "(disabled)"))
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())
	logging.Info("")

	return &SyncConfig{
		SourceDir:         sourceDir,
		PublicDir:         publicDir,
		OutputDir:         outputDir,
		ManifestPath:      manifestPath,
		MappingsFile:      mappingsFile,
		ThumbnailsEnabled: thumbnailsEnabled,
		ThumbnailSize:     thumbnailSize,
		MetricsTextfile:   metricsTextfile,
	}, nil
}

// ServerConfig holds the configuration of the preview server
type ServerConfig struct {
	Port            string
	MetricsPort     string
	PublicDir       string
	OutputDir       string
	ManifestPath    string
	MobilitiesFile  string
	AssetPrefix     string
	MetricsEnabled  bool
	LogStaticFiles  bool
	LogHealthChecks bool
	PageCacheSize   int
}

// LoadServerConfig loads the preview server configuration from the
// environment, after reading a .env file if one exists.
func LoadServerConfig() (*ServerConfig, error) {
	_ = godotenv.Load()

	printBanner("preview server")
	logSystemInfo()

	logSection("CONFIGURATION")

	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	publicDir := getEnv("PUBLIC_DIR", "./public")
	manifestPath := getEnv("MANIFEST_PATH", "")
	mobilitiesFile := getEnv("MOBILITIES_FILE", "")
	assetPrefix := getEnv("ASSET_PREFIX", manifest.DefaultAssetPrefix)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	pageCacheSize := getEnvInt("PAGE_CACHE_SIZE", 64)

	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_PORT:        %s", metricsPort)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  PUBLIC_DIR:          %s", publicDir)
	logging.Info("  MOBILITIES_FILE:     %s", valueOr(mobilitiesFile, "(built-in)"))
	logging.Info("  ASSET_PREFIX:        %s", assetPrefix)
	logging.Info("  PAGE_CACHE_SIZE:     %d", pageCacheSize)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	if !strings.HasPrefix(assetPrefix, "/") {
		return nil, fmt.Errorf("ASSET_PREFIX must start with '/', got %q", assetPrefix)
	}
	assetPrefix = strings.TrimRight(assetPrefix, "/")
	if assetPrefix == "" {
		return nil, fmt.Errorf("ASSET_PREFIX must not be the site root")
	}
	if pageCacheSize <= 0 {
		logging.Warn("  Invalid PAGE_CACHE_SIZE %d, using default: 64", pageCacheSize)
		pageCacheSize = 64
	}

	logging.Info("")
	logSection("DIRECTORY SETUP")

	publicDir, err := filepath.Abs(publicDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve public directory path: %w", err)
	}
	outputDir := filepath.Join(publicDir, mobilitiesSubdir)
	if manifestPath == "" {
		manifestPath = filepath.Join(outputDir, manifest.FileName)
	}
	logging.Info("  Public directory (absolute): %s", publicDir)
	logging.Info("  Manifest:                    %s", manifestPath)

	// Missing output is not fatal; pages fall back to legacy media
	if err := ensureDirectory(outputDir, "mobilities"); err != nil {
		logging.Warn("  Output directory issue: %v", err)
	}

	return &ServerConfig{
		Port:            port,
		MetricsPort:     metricsPort,
		PublicDir:       publicDir,
		OutputDir:       outputDir,
		ManifestPath:    manifestPath,
		MobilitiesFile:  mobilitiesFile,
		AssetPrefix:     assetPrefix,
		MetricsEnabled:  metricsEnabled,
		LogStaticFiles:  logStaticFiles,
		LogHealthChecks: logHealthChecks,
		PageCacheSize:   pageCacheSize,
	}, nil
}

// LogRegistryInit logs where mobility content came from
func LogRegistryInit(source string, count int) {
	logging.Info("")
	logSection("CONTENT REGISTRY")
	logging.Info("  Source:      %s", source)
	logging.Info("  Mobilities:  %d", count)
}

// Endpoints holds what LogServerStarted reports
type Endpoints struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(e Endpoints) {
	logging.Info("")
	logSection("SERVER STARTED")
	logging.Info("  Startup time:    %v", e.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", e.Port)
	if e.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", e.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", e.Port)
	if e.MetricsEnabled {
		logging.Info("    Metrics:       http://localhost:%s/metrics", e.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logSection(fmt.Sprintf("SHUTDOWN INITIATED (received %s)", signal))
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func logSection(title string) {
	logging.Info("------------------------------------------------------------")
	logging.Info("%s", title)
	logging.Info("------------------------------------------------------------")
}

func printBanner(component string) {
	banner := `
------------------------------------------------------------
  _____ ____ ____ _____
 |_   _/ ___/ ___|_   _|
   | | \___ \___ \ | |
   | |  ___) |__) || |
   |_| |____/____/ |_|

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Component:  %s", component)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logSection("SYSTEM INFORMATION")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
