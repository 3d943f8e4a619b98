// Package mobility holds the content registry for the project's mobilities:
// the LTTAs and meetings shown on the activities roadmap and detail pages.
//
// Each Mobility carries its display text and, optionally, an ordered list of
// Sections. A Section is either a TextSection or a MediaSection; a
// MediaSection refers to published assets by zero-based index into the
// manifest lists of its mobility, so a section written as
//
//	MediaSection{Refs: MediaRefs{Images: []int{0, 1}, PDFs: []int{0}}}
//
// shows the first two images and the first PDF synced for that slug.
//
// The registry is built from Defaults or from a YAML file via LoadFile, and
// is read-only once constructed.
package mobility
