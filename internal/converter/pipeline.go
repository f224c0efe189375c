// Package converter implements the two-stage chapter pipeline: prepare turns
// raw chapter HTML into cleaned content with normalized image references,
// build assembles prepared chapters into an EPUB container.
package converter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"html2epub/internal/book"
	"html2epub/internal/epub"
)

// processedName is the file a prepared chapter is written to inside its
// chapter folder.
const processedName = "processed_article.html"

// Options holds options for the conversion pipeline.
type Options struct {
	// BookDir holds the raw chapter HTML files, one <label>.html per
	// chapter, and receives the Ch_<label> folders and the EPUB output.
	BookDir string

	// OutputPath overrides the EPUB output location.
	// Empty means <BookDir>/<dirname>.epub.
	OutputPath string

	// StylePath overrides the stylesheet path from the book definition.
	StylePath string

	// AllowMissingImages drops references to absent image files during
	// build instead of failing the run.
	AllowMissingImages bool

	// MaxImageWidth is the prepare-stage downscale limit. Zero means the
	// default.
	MaxImageWidth int

	// JPEGQuality is the re-encode quality for downscaled JPEGs.
	JPEGQuality int

	Logger *slog.Logger
}

// Pipeline orchestrates preparation and assembly for one book.
type Pipeline struct {
	book   *book.Book
	opts   Options
	logger *slog.Logger

	// now is stubbed in tests to pin the derived identifier.
	now func() time.Time
}

// NewPipeline creates a pipeline for the given book definition.
func NewPipeline(bk *book.Book, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		book:   bk,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Prepare cleans every chapter's raw HTML and collects its images.
func (p *Pipeline) Prepare() error {
	opt := NewImageOptimizer(p.opts)
	for _, ch := range p.book.Chapters {
		if err := p.prepareChapter(ch, opt); err != nil {
			return fmt.Errorf("failed to prepare chapter %s: %w", ch.Label, err)
		}
		p.logger.Info("chapter prepared", "chapter", ch.Label)
	}
	return nil
}

// Build assembles prepared chapters, the stylesheet, and the cover into an
// EPUB file.
func (p *Pipeline) Build() error {
	meta := epub.Metadata{
		Identifier: p.book.Metadata.UniqueIdentifier(p.now()),
		Title:      p.book.Metadata.Title,
		Language:   p.book.Metadata.Language,
		Modified:   p.now(),
	}
	for _, name := range p.book.Metadata.Authors {
		meta.Creators = append(meta.Creators, epub.Creator{Name: name, Role: "aut"})
	}

	w := epub.NewWriter(meta)

	if p.book.Metadata.Cover != "" {
		res, err := LoadCover(filepath.Join(p.opts.BookDir, p.book.Metadata.Cover))
		if err != nil {
			return err
		}
		if err := w.SetCover(res); err != nil {
			return err
		}
	}

	style, err := p.loadStylesheet()
	if err != nil {
		return err
	}
	if err := w.AddResource(style); err != nil {
		return err
	}

	for _, ch := range p.book.Chapters {
		doc, err := p.loadChapter(ch)
		if err != nil {
			return err
		}
		if err := w.AddChapter(doc.Chapter); err != nil {
			return err
		}
		for _, img := range doc.Images {
			if w.HasResource(img.Path) {
				continue
			}
			if err := w.AddResource(img); err != nil {
				return err
			}
		}
	}

	outPath := p.outputPath()
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	n, err := w.WriteTo(f)
	if err != nil {
		return fmt.Errorf("failed to write EPUB: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	p.logger.Info("epub created", "path", outPath, "kb", float64(n)/1024)
	return nil
}

// Convert runs prepare followed by build.
func (p *Pipeline) Convert() error {
	if err := p.Prepare(); err != nil {
		return err
	}
	return p.Build()
}

// loadStylesheet reads the stylesheet and registers it at the fixed
// container path. The bytes are embedded verbatim.
func (p *Pipeline) loadStylesheet() (epub.Resource, error) {
	path := p.opts.StylePath
	if path == "" {
		path = filepath.Join(p.opts.BookDir, filepath.FromSlash(p.book.Metadata.StylePath()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return epub.Resource{}, fmt.Errorf("failed to read stylesheet %s: %w", path, err)
	}

	return epub.Resource{Path: "style/main.css", MediaType: "text/css", Data: data}, nil
}

// styleHref is the stylesheet location relative to chapter documents.
const styleHref = "style/main.css"

func (p *Pipeline) chapterDir(label string) string {
	return filepath.Join(p.opts.BookDir, "Ch_"+label)
}

func (p *Pipeline) outputPath() string {
	if p.opts.OutputPath != "" {
		return p.opts.OutputPath
	}
	base := filepath.Base(filepath.Clean(p.opts.BookDir))
	return filepath.Join(p.opts.BookDir, base+".epub")
}
