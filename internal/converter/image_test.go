package converter

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func mustEncodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("jpeg.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func mustEncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestImageOptimizer_ResizeOverMaxWidth(t *testing.T) {
	src := makeSolidNRGBA(100, 50, color.NRGBA{R: 20, G: 50, B: 200, A: 255})
	data := mustEncodeJPEG(t, src, 90)
	opt := NewImageOptimizer(Options{MaxImageWidth: 40})

	out := opt.Optimize("fig.jpg", data)
	if out.Warning != "" {
		t.Fatalf("Warning = %q", out.Warning)
	}
	if out.Width != 40 || out.Height != 20 {
		t.Fatalf("got %dx%d, want 40x20", out.Width, out.Height)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("format = %q, want jpeg", format)
	}
	if cfg.Width != 40 {
		t.Fatalf("encoded width = %d, want 40", cfg.Width)
	}
}

func TestImageOptimizer_PassthroughUnderMaxWidth(t *testing.T) {
	src := makeSolidNRGBA(30, 30, color.NRGBA{R: 100, G: 120, B: 140, A: 255})
	data := mustEncodeJPEG(t, src, 90)
	opt := NewImageOptimizer(Options{MaxImageWidth: 40})

	out := opt.Optimize("fig.jpg", data)
	if !bytes.Equal(out.Data, data) {
		t.Fatal("image under max width should be passthrough")
	}
	if out.Width != 30 || out.Height != 30 {
		t.Fatalf("got %dx%d, want 30x30", out.Width, out.Height)
	}
}

func TestImageOptimizer_PreservesPNGFormat(t *testing.T) {
	src := makeSolidNRGBA(100, 40, color.NRGBA{R: 10, G: 80, B: 180, A: 255})
	data := mustEncodePNG(t, src)
	opt := NewImageOptimizer(Options{MaxImageWidth: 50})

	out := opt.Optimize("fig.png", data)
	if out.Warning != "" {
		t.Fatalf("Warning = %q", out.Warning)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if format != "png" {
		t.Fatalf("format = %q, want png", format)
	}
}

func TestImageOptimizer_KeepAnimatedGIF(t *testing.T) {
	anim := &gif.GIF{
		Image: []*image.Paletted{
			image.NewPaletted(image.Rect(0, 0, 100, 10), color.Palette{color.Black, color.White}),
			image.NewPaletted(image.Rect(0, 0, 100, 10), color.Palette{color.Black, color.White}),
		},
		Delay: []int{5, 5},
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		t.Fatalf("gif.EncodeAll() error = %v", err)
	}

	opt := NewImageOptimizer(Options{MaxImageWidth: 40})
	out := opt.Optimize("anim.gif", buf.Bytes())
	if !bytes.Equal(out.Data, buf.Bytes()) {
		t.Fatal("animated gif should be passthrough")
	}
}

func TestImageOptimizer_UndecodableInput(t *testing.T) {
	opt := NewImageOptimizer(Options{})
	input := []byte("not an image")

	out := opt.Optimize("fig.jpg", input)
	if out.Warning == "" {
		t.Fatal("Warning is empty, want decode warning")
	}
	if !bytes.Equal(out.Data, input) {
		t.Fatal("undecodable input should be passthrough")
	}
}

func TestNewImageOptimizer_Defaults(t *testing.T) {
	opt := NewImageOptimizer(Options{})
	if opt.MaxWidth != defaultMaxImageWidth {
		t.Fatalf("MaxWidth = %d, want %d", opt.MaxWidth, defaultMaxImageWidth)
	}
	if opt.JPEGQuality != defaultJPEGQuality {
		t.Fatalf("JPEGQuality = %d, want %d", opt.JPEGQuality, defaultJPEGQuality)
	}

	opt = NewImageOptimizer(Options{JPEGQuality: 150})
	if opt.JPEGQuality != 100 {
		t.Fatalf("JPEGQuality = %d, want 100", opt.JPEGQuality)
	}
}
