package mediasync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"tsst-site/internal/filesystem"
	"tsst-site/internal/manifest"
	"tsst-site/internal/mediatypes"
)

// writeTree creates files under root from a map of slash paths to contents.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

type fixture struct {
	source string
	output string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	return fixture{
		source: filepath.Join(dir, "src", "mobilities"),
		output: filepath.Join(dir, "public", "mobilities"),
	}
}

func (f fixture) sync(t *testing.T, mappings []Mapping, thumbs Thumbnailer) *Result {
	t.Helper()
	s, err := New(Config{SourceDir: f.source, OutputDir: f.output, Mappings: mappings, Thumbnailer: thumbs})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return res
}

func TestRun_ClassifiesAndRenames(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{
		"m1/a.png":       "png",
		"m1/b.PDF":       "pdf",
		"m1/c.txt":       "text",
		"m1/deep/z.mp4":  "mp4",
		"m1/.DS_Store":   "junk",
		"m1/slides.PPTX": "pptx",
	})

	res := f.sync(t, []Mapping{{Path: "m1", Slug: "demo"}}, nil)

	want := manifest.Entry{
		Images: []string{"image1.png"},
		Videos: []string{"video1.mp4"},
		PDFs:   []string{"pdf1.PDF"},
		PPTs:   []string{"ppt1.PPTX"},
	}
	got, ok := res.Manifest.Get("demo")
	if !ok {
		t.Fatal("manifest has no entry for demo")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("entry = %+v, want %+v", got, want)
	}

	if c := readFile(t, filepath.Join(f.output, "demo", "images", "image1.png")); c != "png" {
		t.Errorf("image1.png = %q", c)
	}
	if c := readFile(t, filepath.Join(f.output, "demo", "videos", "video1.mp4")); c != "mp4" {
		t.Errorf("video1.mp4 = %q", c)
	}

	rep := res.Reports[0]
	if !reflect.DeepEqual(rep.Unclassified, []string{".DS_Store", "c.txt"}) {
		t.Errorf("Unclassified = %v", rep.Unclassified)
	}
	if res.Total() != 4 || rep.Total() != 4 {
		t.Errorf("Total() = %d, report Total() = %d, want 4", res.Total(), rep.Total())
	}
	if rep.Bytes != int64(len("png")+len("pdf")+len("mp4")+len("pptx")) {
		t.Errorf("Bytes = %d", rep.Bytes)
	}

	loaded, err := manifest.Load(filepath.Join(f.output, manifest.FileName))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if e, _ := loaded.Get("demo"); !reflect.DeepEqual(e, want) {
		t.Errorf("written entry = %+v, want %+v", e, want)
	}
}

func TestRun_ManifestFormat(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{
		"m/a.png": "1",
		"m/b.PDF": "2",
		"m/c.txt": "3",
		"m/z.mp4": "4",
	})

	f.sync(t, []Mapping{{Path: "m", Slug: "x"}}, nil)

	want := `{
  "x": {
    "images": [
      "image1.png"
    ],
    "videos": [
      "video1.mp4"
    ],
    "pdfs": [
      "pdf1.PDF"
    ],
    "ppts": []
  }
}
`
	if got := readFile(t, filepath.Join(f.output, manifest.FileName)); got != want {
		t.Errorf("manifest =\n%s\nwant\n%s", got, want)
	}
}

func TestRun_CreatesEveryKindDirectory(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{"m/a.jpg": "x"})

	f.sync(t, []Mapping{{Path: "m", Slug: "x"}}, nil)

	for _, k := range mediatypes.Kinds() {
		if !filesystem.Exists(filepath.Join(f.output, "x", k.Dir())) {
			t.Errorf("%s directory missing", k.Dir())
		}
	}
}

func TestRun_OrderIsByteWise(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{
		"m/b.jpg":     "b",
		"m/a/z.jpg":   "a/z",
		"m/A.jpg":     "A",
		"m/a-1.jpg":   "a-1",
		"m/img10.JPG": "img10",
		"m/img2.jpg":  "img2",
	})

	f.sync(t, []Mapping{{Path: "m", Slug: "x"}}, nil)

	// "A.jpg" < "a-1.jpg" < "a/z.jpg" < "b.jpg" < "img10.JPG" < "img2.jpg"
	want := []string{"A", "a-1", "a/z", "b", "img10", "img2"}
	exts := []string{".jpg", ".jpg", ".jpg", ".jpg", ".JPG", ".jpg"}
	for i, content := range want {
		name := "image" + string(rune('1'+i)) + exts[i]
		if got := readFile(t, filepath.Join(f.output, "x", "images", name)); got != content {
			t.Errorf("%s = %q, want %q", name, got, content)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{
		"m1/a.jpg":   "a",
		"m1/b.jpg":   "b",
		"m2/doc.pdf": "pdf",
	})
	mappings := []Mapping{{Path: "m1", Slug: "one"}, {Path: "m2", Slug: "two"}}
	manifestPath := filepath.Join(f.output, manifest.FileName)

	f.sync(t, mappings, nil)
	first := readFile(t, manifestPath)

	f.sync(t, mappings, nil)
	second := readFile(t, manifestPath)

	if first != second {
		t.Errorf("manifest changed between identical runs:\n%s\nvs\n%s", first, second)
	}
	if strings.Index(first, `"one"`) > strings.Index(first, `"two"`) {
		t.Error("slugs not in mapping order")
	}
}

func TestRun_RemovesStaleFiles(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{
		"m/a.jpg": "a",
		"m/b.jpg": "b",
	})
	mappings := []Mapping{{Path: "m", Slug: "x"}}

	f.sync(t, mappings, nil)
	if err := os.Remove(filepath.Join(f.source, "m", "a.jpg")); err != nil {
		t.Fatal(err)
	}
	res := f.sync(t, mappings, nil)

	if e, _ := res.Manifest.Get("x"); !reflect.DeepEqual(e.Images, []string{"image1.jpg"}) {
		t.Errorf("images = %v", e.Images)
	}
	if got := readFile(t, filepath.Join(f.output, "x", "images", "image1.jpg")); got != "b" {
		t.Errorf("image1.jpg = %q, want b", got)
	}
	if _, err := os.Stat(filepath.Join(f.output, "x", "images", "image2.jpg")); !os.IsNotExist(err) {
		t.Errorf("image2.jpg should be gone, stat err = %v", err)
	}
}

func TestRun_MissingMobilityRoot(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{"present/a.jpg": "a"})
	writeTree(t, f.output, map[string]string{"gone/images/image1.jpg": "old"})

	res := f.sync(t, []Mapping{{Path: "absent", Slug: "gone"}, {Path: "present", Slug: "here"}}, nil)

	gone, ok := res.Manifest.Get("gone")
	if !ok {
		t.Fatal("missing root should still get a manifest entry")
	}
	if !gone.Empty() || gone.Images == nil {
		t.Errorf("gone entry = %#v, want four empty lists", gone)
	}
	if !res.Reports[0].Skipped {
		t.Error("report for missing root not marked skipped")
	}
	if got := readFile(t, filepath.Join(f.output, "gone", "images", "image1.jpg")); got != "old" {
		t.Errorf("existing output for skipped slug changed: %q", got)
	}
	if here, _ := res.Manifest.Get("here"); len(here.Images) != 1 {
		t.Errorf("here entry = %+v", here)
	}
	if got := res.Manifest.Slugs(); !reflect.DeepEqual(got, []string{"gone", "here"}) {
		t.Errorf("Slugs() = %v", got)
	}
}

func TestRun_SourceDirMissing(t *testing.T) {
	f := newFixture(t)
	manifestPath := filepath.Join(f.output, manifest.FileName)
	writeTree(t, f.output, map[string]string{
		manifest.FileName:       "{\"old\": {}}\n",
		"old/images/image1.jpg": "keep",
	})

	res := f.sync(t, nil, nil)

	if !res.SourceMissing {
		t.Error("SourceMissing = false")
	}
	if got := readFile(t, manifestPath); got != "{\"old\": {}}\n" {
		t.Errorf("manifest changed: %q", got)
	}
	if got := readFile(t, filepath.Join(f.output, "old", "images", "image1.jpg")); got != "keep" {
		t.Errorf("published file changed: %q", got)
	}
}

func TestRun_NothingFound(t *testing.T) {
	f := newFixture(t)
	if err := os.MkdirAll(f.source, 0o755); err != nil {
		t.Fatal(err)
	}

	res := f.sync(t, nil, nil)

	if res.Total() != 0 {
		t.Errorf("Total() = %d, want 0", res.Total())
	}
	if got := res.Manifest.Slugs(); len(got) != len(DefaultMappings()) {
		t.Errorf("Slugs() = %v, want one per default mapping", got)
	}
	if _, err := os.Stat(filepath.Join(f.output, manifest.FileName)); err != nil {
		t.Errorf("manifest not written: %v", err)
	}
}

func TestRun_CopyFailureKeepsPreviousOutput(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	f := newFixture(t)
	writeTree(t, f.source, map[string]string{
		"m/a.jpg": "new-a",
		"m/b.jpg": "new-b",
	})
	writeTree(t, f.output, map[string]string{
		manifest.FileName:     "{\"x\": {\"images\": [\"image1.jpg\"]}}\n",
		"x/images/image1.jpg": "old",
	})
	unreadable := filepath.Join(f.source, "m", "b.jpg")
	if err := os.Chmod(unreadable, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(unreadable, 0o644) })

	s, err := New(Config{SourceDir: f.source, OutputDir: f.output, Mappings: []Mapping{{Path: "m", Slug: "x"}}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want copy failure")
	}

	if got := readFile(t, filepath.Join(f.output, "x", "images", "image1.jpg")); got != "old" {
		t.Errorf("published file changed: %q", got)
	}
	if got := readFile(t, filepath.Join(f.output, manifest.FileName)); !strings.Contains(got, "image1.jpg") || strings.Contains(got, "image2") {
		t.Errorf("manifest changed: %q", got)
	}
	assertNoStaging(t, f.output)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{"m/a.jpg": "a"})

	s, err := New(Config{SourceDir: f.source, OutputDir: f.output, Mappings: []Mapping{{Path: "m", Slug: "x"}}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(filepath.Join(f.output, manifest.FileName)); !os.IsNotExist(err) {
		t.Errorf("manifest written by cancelled run: %v", err)
	}
	if filesystem.Exists(filepath.Join(f.output, "x")) {
		t.Error("slug directory published by cancelled run")
	}
	assertNoStaging(t, f.output)
}

// cancellingThumbnailer cancels the run the first time it is called.
type cancellingThumbnailer struct {
	cancel context.CancelFunc
}

func (c cancellingThumbnailer) Generate(_, dst string) error {
	c.cancel()
	return os.WriteFile(dst, []byte("thumb"), 0o644)
}

func TestRun_CancelledMidway(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{
		"m1/a.jpg": "a",
		"m2/b.jpg": "b",
	})
	writeTree(t, f.output, map[string]string{"one/images/image1.jpg": "old"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := New(Config{
		SourceDir:   f.source,
		OutputDir:   f.output,
		Mappings:    []Mapping{{Path: "m1", Slug: "one"}, {Path: "m2", Slug: "two"}},
		Thumbnailer: cancellingThumbnailer{cancel: cancel},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	if got := readFile(t, filepath.Join(f.output, "one", "images", "image1.jpg")); got != "old" {
		t.Errorf("first mobility published despite cancellation: %q", got)
	}
	if filesystem.Exists(filepath.Join(f.output, "two")) {
		t.Error("second mobility published despite cancellation")
	}
	assertNoStaging(t, f.output)
}

type recordingThumbnailer struct {
	fail  map[string]bool
	calls []string
}

func (r *recordingThumbnailer) Generate(src, dst string) error {
	r.calls = append(r.calls, filepath.Base(src)+"->"+filepath.Base(dst))
	if r.fail[filepath.Base(src)] {
		return errors.New("decode failed")
	}
	return os.WriteFile(dst, []byte("thumb"), 0o644)
}

func TestRun_Thumbnails(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.source, map[string]string{
		"m/a.png":  "a",
		"m/b.webp": "b",
		"m/c.pdf":  "c",
	})
	thumbs := &recordingThumbnailer{fail: map[string]bool{"image2.webp": true}}

	res := f.sync(t, []Mapping{{Path: "m", Slug: "x"}}, thumbs)

	want := []string{"image1.png->image1.jpg", "image2.webp->image2.jpg"}
	if !reflect.DeepEqual(thumbs.calls, want) {
		t.Errorf("calls = %v, want %v", thumbs.calls, want)
	}
	if res.Reports[0].ThumbnailFailures != 1 {
		t.Errorf("ThumbnailFailures = %d, want 1", res.Reports[0].ThumbnailFailures)
	}
	if got := readFile(t, filepath.Join(f.output, "x", "thumbs", "image1.jpg")); got != "thumb" {
		t.Errorf("thumbnail = %q", got)
	}

	// Thumbnails never enter the manifest
	if e, _ := res.Manifest.Get("x"); len(e.Images) != 2 {
		t.Errorf("images = %v", e.Images)
	}
}

func TestNew_Validation(t *testing.T) {
	dirs := Config{SourceDir: "src", OutputDir: "out"}

	tests := []struct {
		name     string
		mappings []Mapping
	}{
		{name: "empty slug", mappings: []Mapping{{Path: "a", Slug: ""}}},
		{name: "duplicate slug", mappings: []Mapping{{Path: "a", Slug: "x"}, {Path: "b", Slug: "x"}}},
		{name: "nested slug", mappings: []Mapping{{Path: "a", Slug: "x/y"}}},
		{name: "backslash slug", mappings: []Mapping{{Path: "a", Slug: `x\y`}}},
		{name: "hidden slug", mappings: []Mapping{{Path: "a", Slug: ".staging"}}},
		{name: "dot dot slug", mappings: []Mapping{{Path: "a", Slug: ".."}}},
		{name: "escaping path", mappings: []Mapping{{Path: "../elsewhere", Slug: "x"}}},
		{name: "absolute path", mappings: []Mapping{{Path: "/etc", Slug: "x"}}},
		{name: "empty path", mappings: []Mapping{{Path: "", Slug: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := dirs
			cfg.Mappings = tt.mappings
			if _, err := New(cfg); !errors.Is(err, ErrInvalidMapping) {
				t.Errorf("New() error = %v, want ErrInvalidMapping", err)
			}
		})
	}

	if _, err := New(Config{OutputDir: "out"}); err == nil {
		t.Error("New() without source dir should fail")
	}
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(Config{SourceDir: "src", OutputDir: filepath.Join("public", "mobilities")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if want := filepath.Join("public", "mobilities", manifest.FileName); s.ManifestPath() != want {
		t.Errorf("ManifestPath() = %q, want %q", s.ManifestPath(), want)
	}
	if len(s.mappings) != 3 {
		t.Errorf("mappings = %d, want 3 defaults", len(s.mappings))
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"a.jpg":          ".jpg",
		"dir/b.JPEG":     ".JPEG",
		"archive.tar.gz": ".gz",
		".DS_Store":      "",
		"dir/.jpg":       "",
		"README":         "",
		"dir.d/file":     "",
	}
	for in, want := range tests {
		if got := extension(in); got != want {
			t.Errorf("extension(%q) = %q, want %q", in, got, want)
		}
	}
}

func assertNoStaging(t *testing.T, output string) {
	t.Helper()
	entries, err := os.ReadDir(output)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".staging-") {
			t.Errorf("staging directory %s left behind", e.Name())
		}
	}
}
