// Package media renders preview thumbnails for published images.
//
// Thumbnailer decodes JPEG, PNG, GIF, BMP and WebP sources, applies EXIF
// orientation, fits the result into a square bounding box and writes it as
// JPEG. Very large sources are downscaled on load to bound memory use.
package media
