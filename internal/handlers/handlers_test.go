package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tsst-site/internal/manifest"
	"tsst-site/internal/metrics"
	"tsst-site/internal/mobility"
	"tsst-site/internal/page"
	"tsst-site/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type testEnv struct {
	h            *Handlers
	outputDir    string
	manifestPath string
	router       *mux.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	outputDir := t.TempDir()
	manifestPath := filepath.Join(outputDir, manifest.FileName)

	config := &startup.ServerConfig{
		OutputDir:     outputDir,
		ManifestPath:  manifestPath,
		AssetPrefix:   manifest.DefaultAssetPrefix,
		PageCacheSize: 8,
	}

	h, err := New(mobility.DefaultRegistry(), manifest.NewResolver(manifestPath), config)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	r.HandleFunc("/api/mobilities", h.ListMobilities).Methods("GET")
	r.HandleFunc("/api/mobilities/{slug}", h.GetMobility).Methods("GET")
	r.HandleFunc("/api/manifest", h.GetManifest).Methods("GET")
	r.PathPrefix(manifest.DefaultAssetPrefix+"/").HandlerFunc(h.ServeAsset).Methods("GET", "HEAD")

	return &testEnv{h: h, outputDir: outputDir, manifestPath: manifestPath, router: r}
}

func (e *testEnv) writeManifest(t *testing.T, m *manifest.Manifest, mtime time.Time) {
	t.Helper()
	if err := manifest.Write(e.manifestPath, m); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.Chtimes(e.manifestPath, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func macedoniaManifest(images int) *manifest.Manifest {
	var entry manifest.Entry
	for i := 1; i <= images; i++ {
		entry.Images = append(entry.Images, fmt.Sprintf("image%d.jpg", i))
	}
	entry.PDFs = []string{"pdf1.pdf"}
	m := manifest.New()
	m.Set("kickoff-macedonia", entry)
	return m
}

func TestNew_InvalidCacheSize(t *testing.T) {
	config := &startup.ServerConfig{PageCacheSize: 0}
	if _, err := New(mobility.DefaultRegistry(), manifest.NewResolver("unused"), config); err == nil {
		t.Error("New() with zero cache size should fail")
	}
}

func TestHealthCheck(t *testing.T) {
	e := newTestEnv(t)

	w := e.get(t, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != statusDegraded || resp.Ready || resp.ManifestLoaded {
		t.Errorf("without manifest got status=%q ready=%v loaded=%v", resp.Status, resp.Ready, resp.ManifestLoaded)
	}
	if resp.Mobilities != len(mobility.Defaults()) {
		t.Errorf("Mobilities = %d, want %d", resp.Mobilities, len(mobility.Defaults()))
	}

	e.writeManifest(t, macedoniaManifest(2), time.Now())

	w = e.get(t, "/health")
	resp = HealthResponse{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != statusHealthy || !resp.Ready {
		t.Errorf("with manifest got status=%q ready=%v", resp.Status, resp.Ready)
	}
	if resp.ManifestMobilities != 1 {
		t.Errorf("ManifestMobilities = %d, want 1", resp.ManifestMobilities)
	}
	if resp.ManifestPath != e.manifestPath {
		t.Errorf("ManifestPath = %q, want %q", resp.ManifestPath, e.manifestPath)
	}
}

func TestLivenessCheck(t *testing.T) {
	e := newTestEnv(t)

	w := e.get(t, "/livez")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "alive") {
		t.Errorf("body = %q, want alive", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodHead, "/livez", nil)
	hw := httptest.NewRecorder()
	e.router.ServeHTTP(hw, req)
	if hw.Code != http.StatusOK || hw.Body.Len() != 0 {
		t.Errorf("HEAD status = %d body = %q", hw.Code, hw.Body.String())
	}
}

func TestReadinessCheck(t *testing.T) {
	e := newTestEnv(t)

	if w := e.get(t, "/readyz"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("without manifest status = %d, want 503", w.Code)
	}

	e.writeManifest(t, manifest.New(), time.Now())
	if w := e.get(t, "/readyz"); w.Code != http.StatusOK {
		t.Errorf("with empty manifest status = %d, want 200", w.Code)
	}

	if err := os.WriteFile(e.manifestPath, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(e.manifestPath, later, later); err != nil {
		t.Fatal(err)
	}
	if w := e.get(t, "/readyz"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("with invalid manifest status = %d, want 503", w.Code)
	}
}

func TestGetVersion(t *testing.T) {
	e := newTestEnv(t)

	w := e.get(t, "/version")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var info startup.BuildInfo
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Version != startup.Version {
		t.Errorf("Version = %q, want %q", info.Version, startup.Version)
	}
}

func TestListMobilities(t *testing.T) {
	e := newTestEnv(t)
	e.writeManifest(t, macedoniaManifest(3), time.Now())

	w := e.get(t, "/api/mobilities")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var summaries []page.Summary
	if err := json.NewDecoder(w.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode: %v", err)
	}

	defaults := mobility.Defaults()
	if len(summaries) != len(defaults) {
		t.Fatalf("got %d summaries, want %d", len(summaries), len(defaults))
	}
	for i, s := range summaries {
		if s.Slug != defaults[i].Slug {
			t.Errorf("summaries[%d].Slug = %q, want %q", i, s.Slug, defaults[i].Slug)
		}
		want := page.Counts{}
		if s.Slug == "kickoff-macedonia" {
			want = page.Counts{Images: 3, PDFs: 1}
		}
		if s.Assets != want {
			t.Errorf("%s assets = %+v, want %+v", s.Slug, s.Assets, want)
		}
	}
}

func TestGetMobility(t *testing.T) {
	e := newTestEnv(t)
	e.writeManifest(t, macedoniaManifest(3), time.Now())

	w := e.get(t, "/api/mobilities/kickoff-macedonia")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var v page.View
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Slug != "kickoff-macedonia" {
		t.Errorf("Slug = %q", v.Slug)
	}
	if v.Mode != page.ModeSections {
		t.Errorf("Mode = %q, want %q", v.Mode, page.ModeSections)
	}
	if v.AssetBase != "/mobilities/kickoff-macedonia" {
		t.Errorf("AssetBase = %q", v.AssetBase)
	}

	// A mobility without published files falls back to its legacy media or nothing
	w = e.get(t, "/api/mobilities/virtual-mobility")
	v = page.View{}
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Mode == page.ModeSections || v.Mode == page.ModeGallery {
		t.Errorf("virtual-mobility Mode = %q, want legacy or empty", v.Mode)
	}
}

func TestGetMobility_NotFound(t *testing.T) {
	e := newTestEnv(t)

	w := e.get(t, "/api/mobilities/does-not-exist")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "mobility not found") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestGetMobility_Cache(t *testing.T) {
	e := newTestEnv(t)
	start := time.Now().Add(-time.Hour)
	e.writeManifest(t, macedoniaManifest(1), start)

	hits := metrics.PageCacheRequests.WithLabelValues("hit")
	misses := metrics.PageCacheRequests.WithLabelValues("miss")
	hitsBefore, missesBefore := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	e.get(t, "/api/mobilities/kickoff-macedonia")
	e.get(t, "/api/mobilities/kickoff-macedonia")

	if got := testutil.ToFloat64(misses) - missesBefore; got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(hits) - hitsBefore; got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}

	// A new manifest invalidates the cached view
	e.writeManifest(t, macedoniaManifest(3), start.Add(time.Minute))

	w := e.get(t, "/api/mobilities/kickoff-macedonia")
	if got := testutil.ToFloat64(misses) - missesBefore; got != 2 {
		t.Errorf("misses after manifest change = %v, want 2", got)
	}

	var v page.View
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	total := v.Remaining.Len()
	for _, b := range v.Blocks {
		total += b.Media.Len()
	}
	if total != 4 {
		t.Errorf("view after manifest change resolves %d assets, want 4", total)
	}
}

func TestGetManifest(t *testing.T) {
	e := newTestEnv(t)

	w := e.get(t, "/api/manifest")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "{}\n" {
		t.Errorf("missing manifest body = %q, want {}", w.Body.String())
	}

	m := macedoniaManifest(2)
	e.writeManifest(t, m, time.Now())
	want, err := manifest.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	w = e.get(t, "/api/manifest")
	if w.Body.String() != string(want) {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}
}

func TestServeAsset(t *testing.T) {
	e := newTestEnv(t)

	imagesDir := filepath.Join(e.outputDir, "kickoff-macedonia", "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imagesDir, "image1.jpg"), []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	staging := filepath.Join(e.outputDir, ".staging-123", "kickoff-macedonia")
	if err := os.MkdirAll(staging, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(staging, "image1.jpg"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantType   string
	}{
		{"published image", "/mobilities/kickoff-macedonia/images/image1.jpg", http.StatusOK, "image/jpeg"},
		{"missing file", "/mobilities/kickoff-macedonia/images/image2.jpg", http.StatusNotFound, ""},
		{"directory", "/mobilities/kickoff-macedonia/images", http.StatusNotFound, ""},
		{"prefix root", "/mobilities/", http.StatusNotFound, ""},
		{"staging dir", "/mobilities/.staging-123/kickoff-macedonia/image1.jpg", http.StatusNotFound, ""},
		{"dotfile", "/mobilities/kickoff-macedonia/.DS_Store", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.get(t, tt.target)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantType != "" {
				if got := w.Header().Get("Content-Type"); got != tt.wantType {
					t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
				}
				if w.Body.String() != "jpeg bytes" {
					t.Errorf("body = %q", w.Body.String())
				}
			}
		})
	}
}

func TestServeAsset_Traversal(t *testing.T) {
	e := newTestEnv(t)

	secret := filepath.Join(filepath.Dir(e.outputDir), "secret.txt")
	if err := os.WriteFile(secret, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(secret) })

	req := httptest.NewRequest(http.MethodGet, "/mobilities/x", nil)
	req.URL.Path = "/mobilities/../secret.txt"
	w := httptest.NewRecorder()
	e.h.ServeAsset(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Error("traversal served a file outside the output root")
	}
}

func TestMetricsHandler(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	e.h.MetricsHandler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("metrics output missing go runtime collectors")
	}
}
