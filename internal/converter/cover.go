package converter

import (
	"bytes"
	"fmt"
	"os"

	"github.com/disintegration/imaging"

	"html2epub/internal/epub"
)

const (
	maxCoverHeight   = 1600
	coverJPEGQuality = 90
)

// LoadCover reads and normalizes the cover image. Oversized covers are
// downscaled to maxCoverHeight and the result is re-encoded as JPEG at the
// fixed container path images/cover.jpg.
func LoadCover(path string) (epub.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return epub.Resource{}, fmt.Errorf("failed to read cover image %s: %w", path, err)
	}

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return epub.Resource{}, fmt.Errorf("failed to decode cover image %s: %w", path, err)
	}

	if src.Bounds().Dy() > maxCoverHeight {
		src = imaging.Resize(src, 0, maxCoverHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(coverJPEGQuality)); err != nil {
		return epub.Resource{}, fmt.Errorf("failed to encode cover image: %w", err)
	}

	return epub.Resource{
		Path:      "images/cover.jpg",
		MediaType: "image/jpeg",
		Data:      buf.Bytes(),
	}, nil
}
