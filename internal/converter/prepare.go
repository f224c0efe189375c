package converter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"html2epub/internal/book"
	"html2epub/internal/epub"
)

// prepareChapter cleans one chapter's raw HTML, copies its images into the
// chapter folder, and writes the processed content document.
func (p *Pipeline) prepareChapter(ch book.Chapter, opt *ImageOptimizer) error {
	srcPath := filepath.Join(p.opts.BookDir, ch.Label+".html")
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read input HTML: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse input HTML: %w", err)
	}

	content := ExtractContent(doc, p.book.Metadata.ContentDivID())

	outDir := p.chapterDir(ch.Label)
	if err := os.MkdirAll(filepath.Join(outDir, "images"), 0o755); err != nil {
		return fmt.Errorf("failed to create chapter folder: %w", err)
	}

	if err := p.rewriteImages(content, filepath.Dir(srcPath), outDir, ch.Label, opt); err != nil {
		return err
	}

	html, err := epub.RenderFragment(content.Nodes)
	if err != nil {
		return err
	}

	outPath := filepath.Join(outDir, processedName)
	if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write processed HTML: %w", err)
	}

	return nil
}

// rewriteImages copies every referenced image into outDir/images under a
// chapter-prefixed name, rewrites the src attribute to the new relative
// location, and strips fixed sizing attributes. Missing source files are
// skipped with a warning; the raw input is not under our control.
func (p *Pipeline) rewriteImages(content *goquery.Selection, srcDir, outDir, label string, opt *ImageOptimizer) error {
	var firstErr error

	content.Find("img").Each(func(i int, s *goquery.Selection) {
		if firstErr != nil {
			return
		}

		src, _ := s.Attr("src")
		if src == "" {
			return
		}

		rel := strings.TrimPrefix(src, "./")
		srcPath := filepath.Join(srcDir, filepath.FromSlash(rel))
		data, err := os.ReadFile(srcPath)
		if err != nil {
			p.logger.Warn("skipping missing image", "chapter", label, "src", src)
			return
		}

		name := label + "_" + filepath.Base(srcPath)
		out := opt.Optimize(name, data)
		if out.Warning != "" {
			p.logger.Warn("image kept as-is", "chapter", label, "src", src, "reason", out.Warning)
		}

		if err := os.WriteFile(filepath.Join(outDir, "images", name), out.Data, 0o644); err != nil {
			firstErr = fmt.Errorf("failed to write image %s: %w", name, err)
			return
		}

		s.SetAttr("src", "images/"+name)
		s.RemoveAttr("width")
		s.RemoveAttr("height")
	})

	return firstErr
}
