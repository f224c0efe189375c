package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	defaultMaxImageWidth = 1200
	defaultJPEGQuality   = 85
	maxDecodePixels      = 100 * 1000 * 1000 // 100 megapixels
)

// ImageOptimizer downscales oversized raster images for e-reader output.
// The source format is preserved.
type ImageOptimizer struct {
	MaxWidth    int
	JPEGQuality int
	MaxPixels   int
}

// OptimizedImage holds optimized image data. Warning is set (non-empty) when
// the input was passed through unchanged; Data is usable either way.
type OptimizedImage struct {
	Data    []byte
	Width   int
	Height  int
	Warning string
}

// NewImageOptimizer creates an optimizer with defaults filled in.
func NewImageOptimizer(opts Options) *ImageOptimizer {
	maxWidth := opts.MaxImageWidth
	if maxWidth <= 0 {
		maxWidth = defaultMaxImageWidth
	}

	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = defaultJPEGQuality
	}
	if quality > 100 {
		quality = 100
	}

	return &ImageOptimizer{
		MaxWidth:    maxWidth,
		JPEGQuality: quality,
		MaxPixels:   maxDecodePixels,
	}
}

// Optimize downscales input to MaxWidth when it is wider. Animated GIFs and
// data that cannot be decoded or re-encoded are passed through with Warning
// set.
func (o *ImageOptimizer) Optimize(name string, input []byte) OptimizedImage {
	out := OptimizedImage{Data: input}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(input))
	if err != nil {
		out.Warning = fmt.Sprintf("image decode failed: %v", err)
		return out
	}
	out.Width = cfg.Width
	out.Height = cfg.Height

	if cfg.Width <= o.MaxWidth {
		return out
	}

	pixels := uint64(cfg.Width) * uint64(cfg.Height)
	if o.MaxPixels > 0 && pixels > uint64(o.MaxPixels) {
		out.Warning = fmt.Sprintf("image too large to decode: %dx%d", cfg.Width, cfg.Height)
		return out
	}

	if strings.EqualFold(format, "gif") {
		if animated, err := isAnimatedGIF(input); err == nil && animated {
			return out
		}
	}

	src, err := imaging.Decode(bytes.NewReader(input))
	if err != nil {
		out.Warning = fmt.Sprintf("image decode failed: %v", err)
		return out
	}

	resized := imaging.Resize(src, o.MaxWidth, 0, imaging.Lanczos)

	data, err := o.encode(resized, format)
	if err != nil {
		out.Warning = fmt.Sprintf("image re-encode failed: %v", err)
		return out
	}

	out.Data = data
	out.Width = resized.Bounds().Dx()
	out.Height = resized.Bounds().Dy()
	return out
}

// encode re-encodes in the source format so the file extension and media
// type stay truthful.
func (o *ImageOptimizer) encode(img image.Image, format string) ([]byte, error) {
	f, err := imaging.FormatFromExtension(strings.ToLower(format))
	if err != nil {
		return nil, fmt.Errorf("unsupported format %q: %w", format, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, imaging.JPEGQuality(o.JPEGQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAnimatedGIF(data []byte) (bool, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return false, err
	}
	return len(g.Image) > 1, nil
}
