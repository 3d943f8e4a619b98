// Package mediatypes classifies mobility media files by extension.
//
// This package is dependency-free so the synchronizer, the manifest reader and
// the preview server can all share it without import cycles.
//
// # Kinds
//
//	mediatypes.KindImage        // jpg, jpeg, png, gif, webp, bmp
//	mediatypes.KindVideo        // mp4, webm, mov, avi, mkv
//	mediatypes.KindPDF          // pdf
//	mediatypes.KindPresentation // ppt, pptx
//
// # Extension Detection
//
//	kind, ok := mediatypes.Classify(filepath.Ext(name))
//	if !ok {
//	    // not published
//	}
//
// Matching is case-insensitive; callers keep the original extension when
// building destination names.
//
// # Naming
//
// Each kind has a singular token and a plural directory:
//
//	mediatypes.KindPresentation.Token() // "ppt"
//	mediatypes.KindPresentation.Dir()   // "ppts"
package mediatypes
