package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"tsst-site/internal/filesystem"
	"tsst-site/internal/mediatypes"
)

// FileName is the manifest's name inside the output root.
const FileName = "manifest.json"

// Entry lists the published file names of one mobility, per kind, in index
// order. Names are bare file names such as "image3.jpg".
type Entry struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
	PDFs   []string `json:"pdfs"`
	PPTs   []string `json:"ppts"`
}

// Files returns the list for kind k. Unknown kinds return nil.
func (e Entry) Files(k mediatypes.Kind) []string {
	switch k {
	case mediatypes.KindImage:
		return e.Images
	case mediatypes.KindVideo:
		return e.Videos
	case mediatypes.KindPDF:
		return e.PDFs
	case mediatypes.KindPresentation:
		return e.PPTs
	}
	return nil
}

// SetFiles replaces the list for kind k.
func (e *Entry) SetFiles(k mediatypes.Kind, files []string) {
	switch k {
	case mediatypes.KindImage:
		e.Images = files
	case mediatypes.KindVideo:
		e.Videos = files
	case mediatypes.KindPDF:
		e.PDFs = files
	case mediatypes.KindPresentation:
		e.PPTs = files
	}
}

// At returns the file at zero-based index i of kind k. ok is false when i
// is out of range, which callers treat as a missing asset.
func (e Entry) At(k mediatypes.Kind, i int) (name string, ok bool) {
	files := e.Files(k)
	if i < 0 || i >= len(files) {
		return "", false
	}
	return files[i], true
}

// Len returns the total number of files across all kinds.
func (e Entry) Len() int {
	return len(e.Images) + len(e.Videos) + len(e.PDFs) + len(e.PPTs)
}

// Empty reports whether the entry has no files of any kind.
func (e Entry) Empty() bool {
	return e.Len() == 0
}

// normalized returns a copy with every nil list replaced by an empty one, so
// the JSON form always has four arrays.
func (e Entry) normalized() Entry {
	out := Entry{}
	for _, k := range mediatypes.Kinds() {
		files := e.Files(k)
		cp := make([]string, len(files))
		copy(cp, files)
		out.SetFiles(k, cp)
	}
	return out
}

func (e Entry) validate() error {
	for _, k := range mediatypes.Kinds() {
		for _, name := range e.Files(k) {
			if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
				return fmt.Errorf("invalid %s file name %q", k.Dir(), name)
			}
		}
	}
	return nil
}

// Manifest maps mobility slugs to their published files. Slugs keep their
// insertion order, which is also the JSON key order.
type Manifest struct {
	slugs   []string
	entries map[string]Entry
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{entries: make(map[string]Entry)}
}

// Set stores e under slug. A slug set twice keeps its first position.
func (m *Manifest) Set(slug string, e Entry) {
	if m.entries == nil {
		m.entries = make(map[string]Entry)
	}
	if _, ok := m.entries[slug]; !ok {
		m.slugs = append(m.slugs, slug)
	}
	m.entries[slug] = e.normalized()
}

// Get returns the entry for slug.
func (m *Manifest) Get(slug string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	e, ok := m.entries[slug]
	return e, ok
}

// Slugs returns the slugs in insertion order.
func (m *Manifest) Slugs() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.slugs))
	copy(out, m.slugs)
	return out
}

// Len returns the number of slugs.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.slugs)
}

// MarshalJSON encodes the manifest as an object keyed by slug in insertion order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, slug := range m.slugs {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(slug)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(m.entries[slug])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a slug-keyed object, preserving key order.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("manifest: expected a JSON object")
	}

	out := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		slug, ok := tok.(string)
		if !ok {
			return fmt.Errorf("manifest: unexpected key %v", tok)
		}
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("manifest: entry %q: %w", slug, err)
		}
		if err := e.validate(); err != nil {
			return fmt.Errorf("manifest: entry %q: %w", slug, err)
		}
		out.Set(slug, e)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = *out
	return nil
}

// Marshal returns the pretty-printed JSON form with a trailing newline.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Write serializes m to path, replacing any existing file atomically.
func Write(path string, m *Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := filesystem.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Load reads and validates the manifest at path. Unlike Resolver, it reports
// every failure; a missing file yields an error wrapping fs.ErrNotExist.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}
