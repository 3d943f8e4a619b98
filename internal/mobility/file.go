package mobility

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Section type names used in YAML files.
const (
	sectionTypeText  = "text"
	sectionTypeMedia = "media"
)

type fileDoc struct {
	Mobilities []mobilityDoc `yaml:"mobilities"`
}

type mobilityDoc struct {
	Slug             string       `yaml:"slug"`
	Title            string       `yaml:"title"`
	Date             string       `yaml:"date"`
	DateLabel        string       `yaml:"dateLabel"`
	Host             string       `yaml:"host"`
	Country          string       `yaml:"country"`
	ShortDescription string       `yaml:"shortDescription"`
	LongDescription  string       `yaml:"longDescription"`
	Variant          string       `yaml:"variant"`
	Images           []string     `yaml:"images,omitempty"`
	Videos           []string     `yaml:"videos,omitempty"`
	Sections         []sectionDoc `yaml:"sections,omitempty"`
}

type sectionDoc struct {
	Type         string `yaml:"type"`
	Content      string `yaml:"content,omitempty"`
	ImageIndices []int  `yaml:"imageIndices,omitempty,flow"`
	VideoIndices []int  `yaml:"videoIndices,omitempty,flow"`
	PDFIndices   []int  `yaml:"pdfIndices,omitempty,flow"`
	PPTIndices   []int  `yaml:"pptIndices,omitempty,flow"`
}

func (d sectionDoc) refs() MediaRefs {
	return MediaRefs{
		Images: d.ImageIndices,
		Videos: d.VideoIndices,
		PDFs:   d.PDFIndices,
		PPTs:   d.PPTIndices,
	}
}

// LoadFile reads a YAML mobility table and builds a registry from it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mobilities file: %w", err)
	}
	list, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse mobilities file %s: %w", path, err)
	}
	return NewRegistry(list)
}

// Parse decodes a YAML mobility table. Unknown keys, unknown section types
// and unknown variants are errors. An omitted variant means VariantPrimary.
func Parse(data []byte) ([]Mobility, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc fileDoc
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	list := make([]Mobility, 0, len(doc.Mobilities))
	for i, md := range doc.Mobilities {
		m, err := md.toMobility()
		if err != nil {
			if md.Slug != "" {
				return nil, fmt.Errorf("mobility %q: %w", md.Slug, err)
			}
			return nil, fmt.Errorf("mobility %d: %w", i, err)
		}
		list = append(list, m)
	}
	return list, nil
}

func (md mobilityDoc) toMobility() (Mobility, error) {
	variant := Variant(md.Variant)
	if variant == "" {
		variant = VariantPrimary
	}
	if !variant.Valid() {
		return Mobility{}, fmt.Errorf("unknown variant %q", md.Variant)
	}
	if md.Date != "" {
		if _, err := time.Parse("2006-01", md.Date); err != nil {
			return Mobility{}, fmt.Errorf("date %q is not YYYY-MM", md.Date)
		}
	}

	m := Mobility{
		Slug:             md.Slug,
		Title:            md.Title,
		Date:             md.Date,
		DateLabel:        md.DateLabel,
		Host:             md.Host,
		Country:          md.Country,
		ShortDescription: md.ShortDescription,
		LongDescription:  md.LongDescription,
		Variant:          variant,
		Images:           md.Images,
		Videos:           md.Videos,
	}

	for j, sd := range md.Sections {
		switch sd.Type {
		case sectionTypeText:
			if sd.refs().HasMedia() {
				return Mobility{}, fmt.Errorf("section %d: text section has media indices", j)
			}
			m.Sections = append(m.Sections, TextSection{Content: sd.Content})
		case sectionTypeMedia:
			if sd.Content != "" {
				return Mobility{}, fmt.Errorf("section %d: media section has content", j)
			}
			m.Sections = append(m.Sections, MediaSection{Refs: sd.refs()})
		default:
			return Mobility{}, fmt.Errorf("section %d: unknown type %q", j, sd.Type)
		}
	}
	return m, nil
}

// Marshal encodes list in the format read by Parse.
func Marshal(list []Mobility) ([]byte, error) {
	doc := fileDoc{Mobilities: make([]mobilityDoc, 0, len(list))}
	for _, m := range list {
		md := mobilityDoc{
			Slug:             m.Slug,
			Title:            m.Title,
			Date:             m.Date,
			DateLabel:        m.DateLabel,
			Host:             m.Host,
			Country:          m.Country,
			ShortDescription: m.ShortDescription,
			LongDescription:  m.LongDescription,
			Variant:          string(m.Variant),
			Images:           m.Images,
			Videos:           m.Videos,
		}
		for _, s := range m.Sections {
			switch s := s.(type) {
			case TextSection:
				md.Sections = append(md.Sections, sectionDoc{Type: sectionTypeText, Content: s.Content})
			case MediaSection:
				md.Sections = append(md.Sections, sectionDoc{
					Type:         sectionTypeMedia,
					ImageIndices: s.Refs.Images,
					VideoIndices: s.Refs.Videos,
					PDFIndices:   s.Refs.PDFs,
					PPTIndices:   s.Refs.PPTs,
				})
			}
		}
		doc.Mobilities = append(doc.Mobilities, md)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal mobilities: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal mobilities: %w", err)
	}
	return buf.Bytes(), nil
}
