package mobility

import (
	"errors"
	"fmt"

	"tsst-site/internal/mediatypes"
)

// ErrDuplicateSlug is returned when two mobilities share a slug.
var ErrDuplicateSlug = errors.New("duplicate mobility slug")

// Variant is the timeline dot style of a mobility.
type Variant string

const (
	VariantPrimaryDark Variant = "primary-dark"
	VariantPrimary     Variant = "primary"
	VariantAccent      Variant = "accent"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	switch v {
	case VariantPrimaryDark, VariantPrimary, VariantAccent:
		return true
	}
	return false
}

// Section is one block of a mobility detail page: a TextSection or a
// MediaSection. The set is closed.
type Section interface {
	section()
}

// TextSection is a paragraph of prose.
type TextSection struct {
	Content string
}

// MediaSection shows the referenced assets of the mobility.
type MediaSection struct {
	Refs MediaRefs
}

func (TextSection) section()  {}
func (MediaSection) section() {}

// MediaRefs holds zero-based indices into the manifest lists, per kind.
type MediaRefs struct {
	Images []int
	Videos []int
	PDFs   []int
	PPTs   []int
}

// Indices returns the index list for kind k.
func (r MediaRefs) Indices(k mediatypes.Kind) []int {
	switch k {
	case mediatypes.KindImage:
		return r.Images
	case mediatypes.KindVideo:
		return r.Videos
	case mediatypes.KindPDF:
		return r.PDFs
	case mediatypes.KindPresentation:
		return r.PPTs
	}
	return nil
}

// HasMedia reports whether any kind has at least one reference.
func (r MediaRefs) HasMedia() bool {
	for _, k := range mediatypes.Kinds() {
		if len(r.Indices(k)) > 0 {
			return true
		}
	}
	return false
}

// Mobility is one LTTA or meeting.
type Mobility struct {
	Slug             string
	Title            string
	Date             string // YYYY-MM
	DateLabel        string
	Host             string
	Country          string
	ShortDescription string
	LongDescription  string
	Variant          Variant

	// Images and Videos are legacy URL lists, used only when the manifest
	// has nothing for the slug.
	Images []string
	Videos []string

	Sections []Section
}

// HasSections reports whether the mobility defines a sectioned layout.
func (m Mobility) HasSections() bool {
	return len(m.Sections) > 0
}

// HasLegacyMedia reports whether the legacy image or video lists are set.
func (m Mobility) HasLegacyMedia() bool {
	return len(m.Images) > 0 || len(m.Videos) > 0
}

// Registry is an ordered, read-only table of mobilities.
type Registry struct {
	order  []string
	bySlug map[string]Mobility
}

// NewRegistry builds a registry preserving the order of list. Empty and
// duplicate slugs are rejected.
func NewRegistry(list []Mobility) (*Registry, error) {
	r := &Registry{
		order:  make([]string, 0, len(list)),
		bySlug: make(map[string]Mobility, len(list)),
	}
	for i, m := range list {
		if m.Slug == "" {
			return nil, fmt.Errorf("mobility %d: empty slug", i)
		}
		if _, exists := r.bySlug[m.Slug]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, m.Slug)
		}
		r.order = append(r.order, m.Slug)
		r.bySlug[m.Slug] = m
	}
	return r, nil
}

// BySlug returns the mobility with the given slug.
func (r *Registry) BySlug(slug string) (Mobility, bool) {
	m, ok := r.bySlug[slug]
	return m, ok
}

// Slugs returns every slug in table order.
func (r *Registry) Slugs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns every mobility in table order.
func (r *Registry) All() []Mobility {
	out := make([]Mobility, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.bySlug[slug])
	}
	return out
}

// Len returns the number of mobilities.
func (r *Registry) Len() int {
	return len(r.order)
}
