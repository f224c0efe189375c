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

// chapterDoc is one prepared chapter turned into container inputs: the
// content document plus the image resources it references.
type chapterDoc struct {
	Chapter epub.Chapter
	Images  []epub.Resource
}

// loadChapter reads a chapter's processed HTML and converts it into an XHTML
// content document, collecting referenced images along the way.
func (p *Pipeline) loadChapter(ch book.Chapter) (*chapterDoc, error) {
	dir := p.chapterDir(ch.Label)
	htmlPath := filepath.Join(dir, processedName)

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("missing processed HTML for chapter %s: %w", ch.Label, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse processed HTML for chapter %s: %w", ch.Label, err)
	}

	images, err := p.collectImages(doc, ch.Label, dir)
	if err != nil {
		return nil, err
	}

	body := doc.Find("body").First()
	bodyHTML, err := epub.RenderFragment(body.Contents().Nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize chapter %s: %w", ch.Label, err)
	}

	return &chapterDoc{
		Chapter: epub.Chapter{
			Title: ch.Title,
			Path:  ch.Label + ".xhtml",
			Data:  epub.ChapterDocument(ch.Title, styleHref, bodyHTML),
		},
		Images: images,
	}, nil
}

// collectImages reads every image referenced by the chapter document.
// References must point under the images/ folder; a reference with any other
// shape fails the run. Absent files fail too unless AllowMissingImages is
// set, in which case the reference is dropped with a warning.
func (p *Pipeline) collectImages(doc *goquery.Document, label, dir string) ([]epub.Resource, error) {
	var images []epub.Resource
	var firstErr error

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		if firstErr != nil {
			return
		}

		src, _ := s.Attr("src")
		if src == "" {
			return
		}

		if !strings.HasPrefix(src, "images/") || strings.Contains(src, "..") {
			firstErr = fmt.Errorf("chapter %s: expecting images under images/, got %q", label, src)
			return
		}

		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(src)))
		if err != nil {
			if p.opts.AllowMissingImages {
				p.logger.Warn("dropping missing image reference", "chapter", label, "src", src)
				s.Remove()
				return
			}
			firstErr = fmt.Errorf("chapter %s: failed to read image %s: %w", label, src, err)
			return
		}

		mediaType, known := epub.MediaTypeByExtension(src)
		if !known {
			p.logger.Warn("unknown image media type", "chapter", label, "src", src)
		}

		images = append(images, epub.Resource{Path: src, MediaType: mediaType, Data: data})
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return images, nil
}
