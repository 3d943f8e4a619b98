package media

import (
	"bytes"
	"fmt"
	"time"

	"tsst-site/internal/filesystem"
	"tsst-site/internal/logging"
	"tsst-site/internal/metrics"

	"github.com/disintegration/imaging"
)

const (
	// DefaultThumbnailSize is the bounding box edge used when none is given.
	DefaultThumbnailSize = 480

	thumbnailQuality = 80
)

// Thumbnailer writes JPEG thumbnails that fit in a size x size box.
type Thumbnailer struct {
	size int
}

// NewThumbnailer returns a Thumbnailer. A size of zero or less means
// DefaultThumbnailSize.
func NewThumbnailer(size int) *Thumbnailer {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	logging.Debug("Thumbnailer: enabled, size %dpx", size)
	return &Thumbnailer{size: size}
}

// Size returns the bounding box edge in pixels.
func (t *Thumbnailer) Size() int {
	return t.size
}

// Generate renders src into dst, replacing dst atomically.
func (t *Thumbnailer) Generate(src, dst string) (err error) {
	start := time.Now()
	defer func() {
		metrics.ThumbnailGenerationDuration.Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.ThumbnailGenerationsTotal.WithLabelValues(status).Inc()
	}()

	dims, err := GetImageDimensions(src)
	if err != nil {
		return fmt.Errorf("read image header %s: %w", src, err)
	}
	logging.Debug("Thumbnail source %s: %dx%d", src, dims.Width, dims.Height)

	img, err := LoadImageConstrained(src, MaxImageDimension, MaxImagePixels)
	if err != nil {
		return err
	}

	thumb := imaging.Fit(img, t.size, t.size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return fmt.Errorf("encode thumbnail for %s: %w", src, err)
	}
	if err := filesystem.WriteFileAtomic(dst, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}

	logging.Debug("Thumbnail written: %s (%d bytes)", dst, buf.Len())
	return nil
}
