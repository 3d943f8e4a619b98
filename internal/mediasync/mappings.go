package mediasync

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidMapping is returned for empty, duplicate or malformed mappings.
var ErrInvalidMapping = errors.New("invalid mobility mapping")

// Mapping ties a source folder, relative to the source dir and written with
// forward slashes, to the slug it is published under.
type Mapping struct {
	Path string `yaml:"path"`
	Slug string `yaml:"slug"`
}

// DefaultMappings returns the source folders of the mobilities that have
// media.
func DefaultMappings() []Mapping {
	return []Mapping{
		{
			Path: "250201 - Kick off meeting Macedonia-20260224T173644Z-1-001/250201 - Kick off meeting Macedonia",
			Slug: "kickoff-macedonia",
		},
		{
			Path: "250829 - Sevilla Training Activity (LTTA)-20260224T173649Z-1-001/250829 - Sevilla Training Activity (LTTA)",
			Slug: "sevilla-ltta",
		},
		{
			Path: "260126 - Virtual Mobility (Virtual LTTA)-20260224T173652Z-1-001/260126 - Virtual Mobility (Virtual LTTA)",
			Slug: "virtual-mobility",
		},
	}
}

// ValidateMappings checks that every slug is a non-empty, unique, single
// path segment not starting with a dot, and that every path stays inside
// the source dir.
func ValidateMappings(mappings []Mapping) error {
	seen := make(map[string]bool, len(mappings))
	for i, m := range mappings {
		switch {
		case m.Slug == "":
			return fmt.Errorf("%w: mapping %d has an empty slug", ErrInvalidMapping, i)
		case strings.ContainsAny(m.Slug, `/\`) || strings.HasPrefix(m.Slug, "."):
			return fmt.Errorf("%w: slug %q must be a single path segment", ErrInvalidMapping, m.Slug)
		case seen[m.Slug]:
			return fmt.Errorf("%w: duplicate slug %q", ErrInvalidMapping, m.Slug)
		case !filepath.IsLocal(filepath.FromSlash(m.Path)):
			return fmt.Errorf("%w: path %q for %s must be relative to the source dir", ErrInvalidMapping, m.Path, m.Slug)
		}
		seen[m.Slug] = true
	}
	return nil
}

type mappingsDoc struct {
	Mappings []Mapping `yaml:"mappings"`
}

// LoadMappingsFile reads mappings from a YAML file with a top-level
// "mappings" list of path/slug pairs.
func LoadMappingsFile(path string) ([]Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mappings file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc mappingsDoc
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse mappings file %s: %w", path, err)
	}
	if len(doc.Mappings) == 0 {
		return nil, fmt.Errorf("%w: mappings file %s lists no mappings", ErrInvalidMapping, path)
	}
	if err := ValidateMappings(doc.Mappings); err != nil {
		return nil, fmt.Errorf("mappings file %s: %w", path, err)
	}
	return doc.Mappings, nil
}
