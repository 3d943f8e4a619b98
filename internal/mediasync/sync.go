package mediasync

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tsst-site/internal/filesystem"
	"tsst-site/internal/logging"
	"tsst-site/internal/manifest"
	"tsst-site/internal/mediatypes"
	"tsst-site/internal/metrics"
)

const (
	stagingPattern = ".staging-*"
	thumbsDir      = "thumbs"
)

// Thumbnailer renders a preview of the image at src into dst.
type Thumbnailer interface {
	Generate(src, dst string) error
}

// Config describes one sync job.
type Config struct {
	// SourceDir holds the mobility source folders.
	SourceDir string
	// OutputDir receives one directory per slug.
	OutputDir string
	// ManifestPath defaults to {OutputDir}/manifest.json.
	ManifestPath string
	// Mappings defaults to DefaultMappings.
	Mappings []Mapping
	// Thumbnailer is optional; nil disables thumbnails.
	Thumbnailer Thumbnailer
	// Retry defaults to filesystem.DefaultRetryConfig.
	Retry *filesystem.RetryConfig
}

// Synchronizer runs sync jobs. It is not safe to run two jobs on the same
// output dir at once.
type Synchronizer struct {
	sourceDir    string
	outputDir    string
	manifestPath string
	mappings     []Mapping
	thumbnailer  Thumbnailer
	retry        filesystem.RetryConfig
}

// New validates cfg and returns a Synchronizer.
func New(cfg Config) (*Synchronizer, error) {
	if cfg.SourceDir == "" || cfg.OutputDir == "" {
		return nil, fmt.Errorf("mediasync: source and output directories are required")
	}

	mappings := cfg.Mappings
	if mappings == nil {
		mappings = DefaultMappings()
	}
	if err := ValidateMappings(mappings); err != nil {
		return nil, err
	}

	s := &Synchronizer{
		sourceDir:    cfg.SourceDir,
		outputDir:    cfg.OutputDir,
		manifestPath: cfg.ManifestPath,
		mappings:     append([]Mapping(nil), mappings...),
		thumbnailer:  cfg.Thumbnailer,
		retry:        filesystem.DefaultRetryConfig(),
	}
	if s.manifestPath == "" {
		s.manifestPath = filepath.Join(cfg.OutputDir, manifest.FileName)
	}
	if cfg.Retry != nil {
		s.retry = *cfg.Retry
	}
	return s, nil
}

// ManifestPath returns where the manifest is written.
func (s *Synchronizer) ManifestPath() string {
	return s.manifestPath
}

// Report describes what happened to one mapping.
type Report struct {
	Slug       string
	SourceRoot string
	// Skipped is set when the source root did not exist.
	Skipped bool
	// Counts holds the number of files published per kind.
	Counts map[mediatypes.Kind]int
	Bytes  int64
	// Unclassified lists source paths with no recognized extension, sorted.
	Unclassified      []string
	ThumbnailFailures int
}

// Total returns the number of files published for the mapping.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Result is the outcome of a run.
type Result struct {
	// SourceMissing is set when the source dir did not exist and nothing
	// was done.
	SourceMissing bool
	Manifest      *manifest.Manifest
	ManifestPath  string
	Reports       []Report
	Duration      time.Duration
}

// Total returns the number of files published across all mappings.
func (r *Result) Total() int {
	n := 0
	for _, rep := range r.Reports {
		n += rep.Total()
	}
	return n
}

// Unclassified returns the number of source files skipped for their type.
func (r *Result) Unclassified() int {
	n := 0
	for _, rep := range r.Reports {
		n += len(rep.Unclassified)
	}
	return n
}

// Run performs one sync. On error nothing published is changed.
func (s *Synchronizer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{Manifest: manifest.New(), ManifestPath: s.manifestPath}

	if !filesystem.Exists(s.sourceDir) {
		logging.Info("%s not found, nothing to sync. Existing %s and manifest are unchanged.", s.sourceDir, s.outputDir)
		metrics.SyncRunsTotal.WithLabelValues("no_source").Inc()
		result.SourceMissing = true
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := s.run(ctx, result); err != nil {
		metrics.SyncRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result.Duration = time.Since(start)
	metrics.SyncRunsTotal.WithLabelValues("success").Inc()
	metrics.SyncLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.SyncLastRunDuration.Set(result.Duration.Seconds())

	logging.Info("Sync complete: %d files for %d mobilities in %v", result.Total(), len(result.Reports), result.Duration)
	return result, nil
}

func (s *Synchronizer) run(ctx context.Context, result *Result) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	staging, err := os.MkdirTemp(s.outputDir, stagingPattern)
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			logging.Warn("Failed to remove staging directory %s: %v", staging, err)
		}
	}()

	for _, m := range s.mappings {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sync cancelled: %w", err)
		}

		logging.Info("Processing %s...", m.Slug)
		report, entry, err := s.syncMobility(ctx, m, staging)
		if err != nil {
			return err
		}
		if n := len(report.Unclassified); n > 0 {
			logging.Info("  Skipped (unknown type): %d files", n)
			for _, rel := range report.Unclassified {
				logging.Debug("  unclassified: %s", rel)
			}
		}

		result.Manifest.Set(m.Slug, entry)
		result.Reports = append(result.Reports, report)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sync cancelled: %w", err)
	}

	if err := s.commit(staging, result.Reports); err != nil {
		return err
	}

	if err := manifest.Write(s.manifestPath, result.Manifest); err != nil {
		return err
	}
	logging.Info("Wrote %s", s.manifestPath)

	for _, rep := range result.Reports {
		for _, k := range mediatypes.Kinds() {
			metrics.SyncMobilityFiles.WithLabelValues(rep.Slug, string(k)).Set(float64(rep.Counts[k]))
		}
	}
	return nil
}

// commit swaps every staged slug directory into the output dir.
func (s *Synchronizer) commit(staging string, reports []Report) error {
	for _, rep := range reports {
		if rep.Skipped {
			continue
		}
		src := filepath.Join(staging, rep.Slug)
		dst := filepath.Join(s.outputDir, rep.Slug)
		trash := filepath.Join(staging, ".previous-"+rep.Slug)
		if err := filesystem.ReplaceDir(src, dst, trash); err != nil {
			return fmt.Errorf("publish %s: %w", rep.Slug, err)
		}
	}
	return nil
}

func (s *Synchronizer) syncMobility(ctx context.Context, m Mapping, staging string) (Report, manifest.Entry, error) {
	root := filepath.Join(s.sourceDir, filepath.FromSlash(m.Path))
	report := Report{
		Slug:       m.Slug,
		SourceRoot: root,
		Counts:     make(map[mediatypes.Kind]int),
	}

	if !filesystem.Exists(root) {
		logging.Warn("Skip (not found): %s", root)
		report.Skipped = true
		metrics.SyncMobilitiesSkipped.Inc()
		return report, manifest.Entry{}, nil
	}

	files, err := filesystem.Walk(root)
	if err != nil {
		return report, manifest.Entry{}, fmt.Errorf("sync %s: %w", m.Slug, err)
	}

	buckets := make(map[mediatypes.Kind][]string)
	for _, rel := range files {
		kind, ok := mediatypes.Classify(extension(rel))
		if !ok {
			report.Unclassified = append(report.Unclassified, rel)
			continue
		}
		buckets[kind] = append(buckets[kind], rel)
	}
	sort.Strings(report.Unclassified)
	metrics.SyncUnclassifiedFiles.Add(float64(len(report.Unclassified)))

	out := filepath.Join(staging, m.Slug)
	var entry manifest.Entry
	for _, k := range mediatypes.Kinds() {
		sources := buckets[k]
		sort.Strings(sources)

		dir := filepath.Join(out, k.Dir())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return report, entry, fmt.Errorf("sync %s: create %s: %w", m.Slug, dir, err)
		}

		names := make([]string, 0, len(sources))
		for i, rel := range sources {
			if err := ctx.Err(); err != nil {
				return report, entry, fmt.Errorf("sync cancelled: %w", err)
			}
			name := fmt.Sprintf("%s%d%s", k.Token(), i+1, extension(rel))
			n, err := filesystem.CopyFile(filepath.Join(root, filepath.FromSlash(rel)), filepath.Join(dir, name), s.retry)
			if err != nil {
				return report, entry, fmt.Errorf("sync %s: %w", m.Slug, err)
			}
			names = append(names, name)
			report.Bytes += n
			metrics.SyncFilesCopied.WithLabelValues(string(k)).Inc()
			metrics.SyncBytesCopied.Add(float64(n))
		}
		entry.SetFiles(k, names)
		report.Counts[k] = len(names)
	}

	if s.thumbnailer != nil && len(entry.Images) > 0 {
		report.ThumbnailFailures = s.generateThumbnails(out, entry.Images)
	}

	return report, entry, nil
}

// generateThumbnails writes thumbs/imageN.jpg for every published image and
// returns the number of failures.
func (s *Synchronizer) generateThumbnails(out string, images []string) int {
	dir := filepath.Join(out, thumbsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.Warn("Cannot create thumbnail directory %s: %v", dir, err)
		return len(images)
	}

	failures := 0
	for _, name := range images {
		src := filepath.Join(out, mediatypes.KindImage.Dir(), name)
		dst := filepath.Join(dir, strings.TrimSuffix(name, path.Ext(name))+".jpg")
		if err := s.thumbnailer.Generate(src, dst); err != nil {
			logging.Warn("Thumbnail for %s failed: %v", name, err)
			failures++
		}
	}
	return failures
}

// extension returns the extension of a slash-separated path, including the
// dot. A leading dot in the base name does not start an extension, so
// ".DS_Store" and ".jpg" have none.
func extension(rel string) string {
	base := path.Base(rel)
	ext := path.Ext(base)
	if ext == base {
		return ""
	}
	return ext
}
