package page

import (
	"regexp"
	"strings"

	"tsst-site/internal/manifest"
	"tsst-site/internal/mediatypes"
	"tsst-site/internal/mobility"
)

// Mode selects how a detail page lays out its media.
type Mode string

const (
	ModeSections Mode = "sections"
	ModeGallery  Mode = "gallery"
	ModeLegacy   Mode = "legacy"
	ModeEmpty    Mode = "empty"
)

// Block types.
const (
	BlockText  = "text"
	BlockMedia = "media"
)

// Asset is a published file with its public URL.
type Asset struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Media groups resolved assets by kind. Lists are never nil.
type Media struct {
	Images []Asset `json:"images"`
	Videos []Asset `json:"videos"`
	PDFs   []Asset `json:"pdfs"`
	PPTs   []Asset `json:"ppts"`
}

func newMedia() *Media {
	return &Media{Images: []Asset{}, Videos: []Asset{}, PDFs: []Asset{}, PPTs: []Asset{}}
}

func (m *Media) add(k mediatypes.Kind, a Asset) {
	switch k {
	case mediatypes.KindImage:
		m.Images = append(m.Images, a)
	case mediatypes.KindVideo:
		m.Videos = append(m.Videos, a)
	case mediatypes.KindPDF:
		m.PDFs = append(m.PDFs, a)
	case mediatypes.KindPresentation:
		m.PPTs = append(m.PPTs, a)
	}
}

// Len returns the number of assets across all kinds.
func (m *Media) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Images) + len(m.Videos) + len(m.PDFs) + len(m.PPTs)
}

// Block is one rendered section.
type Block struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Media   *Media `json:"media,omitempty"`
}

// LegacyVideo is a legacy video URL. EmbedURL is set for YouTube links.
type LegacyVideo struct {
	URL      string `json:"url"`
	EmbedURL string `json:"embedUrl,omitempty"`
}

// View is everything a detail page needs.
type View struct {
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	Date             string `json:"date"`
	DateLabel        string `json:"dateLabel"`
	Host             string `json:"host"`
	Country          string `json:"country"`
	ShortDescription string `json:"shortDescription"`
	LongDescription  string `json:"longDescription"`
	Variant          string `json:"variant"`
	AssetBase        string `json:"assetBase"`

	Mode      Mode    `json:"mode"`
	Blocks    []Block `json:"blocks,omitempty"`
	Remaining *Media  `json:"remaining,omitempty"`
	Gallery   *Media  `json:"gallery,omitempty"`

	LegacyImages []string      `json:"legacyImages,omitempty"`
	LegacyVideos []LegacyVideo `json:"legacyVideos,omitempty"`
}

// Build resolves m against its manifest entry. base is the public asset
// base of the slug, as returned by manifest.AssetBase.
func Build(m mobility.Mobility, assets manifest.Entry, base string) View {
	v := View{
		Slug:             m.Slug,
		Title:            m.Title,
		Date:             m.Date,
		DateLabel:        m.DateLabel,
		Host:             m.Host,
		Country:          m.Country,
		ShortDescription: m.ShortDescription,
		LongDescription:  m.LongDescription,
		Variant:          string(m.Variant),
		AssetBase:        base,
	}

	hasAssets := !assets.Empty()
	switch {
	case m.HasSections() && hasAssets:
		v.Mode = ModeSections
		v.Blocks, v.Remaining = buildSections(m.Sections, assets, base)
	case hasAssets:
		v.Mode = ModeGallery
		v.Gallery = resolveAll(assets, base, nil)
	case m.HasLegacyMedia():
		v.Mode = ModeLegacy
		v.LegacyImages = append([]string(nil), m.Images...)
		for _, u := range m.Videos {
			lv := LegacyVideo{URL: u}
			if IsYouTube(u) {
				lv.EmbedURL = YouTubeEmbedURL(u)
			}
			v.LegacyVideos = append(v.LegacyVideos, lv)
		}
	default:
		v.Mode = ModeEmpty
	}
	return v
}

func buildSections(sections []mobility.Section, assets manifest.Entry, base string) ([]Block, *Media) {
	used := make(map[mediatypes.Kind]map[int]bool)
	for _, k := range mediatypes.Kinds() {
		used[k] = make(map[int]bool)
	}

	blocks := make([]Block, 0, len(sections))
	for _, s := range sections {
		switch s := s.(type) {
		case mobility.TextSection:
			blocks = append(blocks, Block{Type: BlockText, Content: s.Content})
		case mobility.MediaSection:
			for _, k := range mediatypes.Kinds() {
				for _, i := range s.Refs.Indices(k) {
					used[k][i] = true
				}
			}
			if !s.Refs.HasMedia() {
				continue
			}
			media := newMedia()
			for _, k := range mediatypes.Kinds() {
				for _, i := range s.Refs.Indices(k) {
					name, ok := assets.At(k, i)
					if !ok {
						continue
					}
					media.add(k, Asset{Name: name, URL: manifest.AssetPath(base, k, name)})
				}
			}
			blocks = append(blocks, Block{Type: BlockMedia, Media: media})
		}
	}
	return blocks, resolveAll(assets, base, used)
}

// resolveAll lists every asset of the entry in manifest order, skipping the
// indices marked in skip.
func resolveAll(assets manifest.Entry, base string, skip map[mediatypes.Kind]map[int]bool) *Media {
	media := newMedia()
	for _, k := range mediatypes.Kinds() {
		for i, name := range assets.Files(k) {
			if skip[k][i] {
				continue
			}
			media.add(k, Asset{Name: name, URL: manifest.AssetPath(base, k, name)})
		}
	}
	return media
}

// Counts is the number of published files per kind.
type Counts struct {
	Images int `json:"images"`
	Videos int `json:"videos"`
	PDFs   int `json:"pdfs"`
	PPTs   int `json:"ppts"`
}

// Summary is the roadmap listing of a mobility.
type Summary struct {
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	Date             string `json:"date"`
	DateLabel        string `json:"dateLabel"`
	Host             string `json:"host"`
	Country          string `json:"country"`
	ShortDescription string `json:"shortDescription"`
	Variant          string `json:"variant"`
	Assets           Counts `json:"assets"`
}

// Summarize builds the roadmap entry for m.
func Summarize(m mobility.Mobility, assets manifest.Entry) Summary {
	return Summary{
		Slug:             m.Slug,
		Title:            m.Title,
		Date:             m.Date,
		DateLabel:        m.DateLabel,
		Host:             m.Host,
		Country:          m.Country,
		ShortDescription: m.ShortDescription,
		Variant:          string(m.Variant),
		Assets: Counts{
			Images: len(assets.Images),
			Videos: len(assets.Videos),
			PDFs:   len(assets.PDFs),
			PPTs:   len(assets.PPTs),
		},
	}
}

var youTubeVideoParam = regexp.MustCompile(`[?&]v=([^&]+)`)

// IsYouTube reports whether u points at youtube.com or youtu.be.
func IsYouTube(u string) bool {
	return strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be")
}

// YouTubeEmbedURL converts a watch or short link into an embed URL. URLs
// with no recognizable video ID are returned unchanged.
func YouTubeEmbedURL(u string) string {
	if _, rest, ok := strings.Cut(u, "youtu.be/"); ok {
		id, _, _ := strings.Cut(rest, "?")
		return "https://www.youtube.com/embed/" + id
	}
	if m := youTubeVideoParam.FindStringSubmatch(u); m != nil {
		return "https://www.youtube.com/embed/" + m[1]
	}
	return u
}
