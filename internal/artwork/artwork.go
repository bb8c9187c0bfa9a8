// Package artwork prepares release images for tag embedding.
package artwork

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/dustin/go-humanize"
	"github.com/franz/album-categorizer/internal/util"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxSize is the longest edge, in pixels, of embedded artwork
const DefaultMaxSize = 1000

// Quality is the JPEG quality used for re-encoded artwork
const Quality = 90

// Resize scales data to fit within maxSize x maxSize, keeping the aspect
// ratio, and re-encodes it as JPEG. Images already within bounds are only
// re-encoded. A maxSize <= 0 disables scaling.
func Resize(data []byte, maxSize int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxSize)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	util.DebugLog("Artwork %s %dx%d (%s) -> jpeg %dx%d (%s)",
		format, bounds.Dx(), bounds.Dy(), humanize.Bytes(uint64(len(data))),
		width, height, humanize.Bytes(uint64(buf.Len())))

	return buf.Bytes(), nil
}

// Extension returns the file extension for encoded image data, based on
// the decoder that recognizes it. Unknown data is treated as JPEG.
func Extension(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ".jpg"
	}
	switch format {
	case "jpeg":
		return ".jpg"
	case "png", "gif", "webp":
		return "." + format
	default:
		return ".jpg"
	}
}

// fitWithin returns the dimensions of a w x h image scaled down so neither
// edge exceeds maxSize
func fitWithin(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		nh := h * maxSize / w
		if nh < 1 {
			nh = 1
		}
		return maxSize, nh
	}
	nw := w * maxSize / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxSize
}
