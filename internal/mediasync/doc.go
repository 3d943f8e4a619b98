// Package mediasync publishes mobility media from the source tree into the
// public tree and writes the manifest describing it.
//
// For every mapping, the files under the mobility's source root are walked,
// classified by extension and renamed to contiguous per-kind names:
//
//	{output}/{slug}/images/image1.jpg
//	{output}/{slug}/videos/video1.mp4
//	{output}/{slug}/pdfs/pdf1.pdf
//	{output}/{slug}/ppts/ppt1.pptx
//
// Numbering follows the byte-wise order of the slash-separated source paths,
// so the same source tree always produces the same names.
//
// A run copies into a staging directory under the output root and only then
// swaps each slug directory into place and rewrites the manifest. A failed
// or cancelled run leaves the published tree and the previous manifest as
// they were.
//
// Mobilities whose source root is missing get an empty manifest entry; their
// published directory is left alone. If the source tree itself is missing
// nothing is touched at all.
package mediasync
