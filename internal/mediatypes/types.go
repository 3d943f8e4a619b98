package mediatypes

import "strings"

// Kind represents the category a mobility media file is published under.
type Kind string

const (
	// KindImage represents a photo or screenshot.
	KindImage Kind = "image"
	// KindVideo represents a video recording.
	KindVideo Kind = "video"
	// KindPDF represents a PDF document.
	KindPDF Kind = "pdf"
	// KindPresentation represents a slide deck.
	KindPresentation Kind = "presentation"
)

// kinds is the fixed publication order of media kinds. The manifest and the
// public tree both follow it.
var kinds = []Kind{KindImage, KindVideo, KindPDF, KindPresentation}

// Kinds returns all media kinds in publication order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ImageExtensions maps file extensions to whether they are published as images.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// VideoExtensions maps file extensions to whether they are published as videos.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
}

// PDFExtensions maps file extensions to whether they are published as PDFs.
var PDFExtensions = map[string]bool{
	".pdf": true,
}

// PresentationExtensions maps file extensions to whether they are published as presentations.
var PresentationExtensions = map[string]bool{
	".ppt":  true,
	".pptx": true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",

	// Videos
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",

	// Documents
	".pdf":  "application/pdf",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// Classify returns the Kind for a file extension. The extension must include
// the leading dot (e.g., ".JPG") and is matched case-insensitively.
// The second return value is false if the extension is not recognized.
func Classify(ext string) (Kind, bool) {
	ext = strings.ToLower(ext)
	switch {
	case ImageExtensions[ext]:
		return KindImage, true
	case VideoExtensions[ext]:
		return KindVideo, true
	case PDFExtensions[ext]:
		return KindPDF, true
	case PresentationExtensions[ext]:
		return KindPresentation, true
	}
	return "", false
}

// Extensions returns the recognized extension set for a kind.
func Extensions(k Kind) map[string]bool {
	switch k {
	case KindImage:
		return ImageExtensions
	case KindVideo:
		return VideoExtensions
	case KindPDF:
		return PDFExtensions
	case KindPresentation:
		return PresentationExtensions
	}
	return nil
}

// Token returns the singular name used to build destination filenames
// (image1.jpg, video1.mp4, pdf1.pdf, ppt1.pptx).
func (k Kind) Token() string {
	if k == KindPresentation {
		return "ppt"
	}
	return string(k)
}

// Dir returns the plural directory and manifest key for the kind.
func (k Kind) Dir() string {
	return k.Token() + "s"
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return Extensions(k) != nil
}

// GetMimeType returns the MIME type for a given file extension, matched
// case-insensitively. Returns "application/octet-stream" if the extension is
// not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsMediaFile returns true if the extension represents a publishable media file.
func IsMediaFile(ext string) bool {
	_, ok := Classify(ext)
	return ok
}
