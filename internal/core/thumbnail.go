package core

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// DefaultThumbnailWidth is used when no width is requested.
const DefaultThumbnailWidth = 200

// MaxThumbnailWidth caps requested thumbnail widths.
const MaxThumbnailWidth = 1600

// Thumbnail scales an image to width pixels, keeping its aspect ratio, and
// encodes the result as JPEG. Images already narrower than width are
// re-encoded at their own size.
func Thumbnail(data []byte, width int) ([]byte, error) {
	if width <= 0 {
		width = DefaultThumbnailWidth
	}
	if width > MaxThumbnailWidth {
		width = MaxThumbnailWidth
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
