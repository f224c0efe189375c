// Package book defines the book definition file: metadata stamped into the
// output container and the ordered chapter list that fixes spine order.
package book

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrMissingTitle    = errors.New("book title is required")
	ErrMissingLanguage = errors.New("book language is required")
	ErrNoChapters      = errors.New("at least one chapter is required")
)

// labelRe restricts chapter labels to filesystem-safe names. Labels become
// folder suffixes (Ch_<label>) and content file names (<label>.xhtml).
var labelRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Book is a parsed book definition.
type Book struct {
	Metadata Metadata  `yaml:"metadata"`
	Chapters []Chapter `yaml:"chapters"`
}

// Metadata holds the fields stamped into the EPUB package document.
type Metadata struct {
	// Identifier is the identifier root; the unique identifier is derived
	// from it by appending a timestamp (see UniqueIdentifier).
	Identifier string   `yaml:"identifier"`
	Title      string   `yaml:"title"`
	Language   string   `yaml:"language"`
	Authors    []string `yaml:"authors"`

	// Cover is an optional cover image path, relative to the book directory.
	Cover string `yaml:"cover"`

	// Style is the stylesheet path relative to the book directory.
	// Empty means the default style/main.css.
	Style string `yaml:"style"`

	// ContentID is the id of the element holding the chapter's substantive
	// text in raw input HTML. Empty means the default book-content.
	ContentID string `yaml:"contentId"`
}

// Chapter pairs a folder/file label with a display title.
// Chapter order in the definition file is reading order.
type Chapter struct {
	Label string `yaml:"label"`
	Title string `yaml:"title"`
}

// Validate checks the book definition for structural problems.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Metadata.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(b.Metadata.Language) == "" {
		return ErrMissingLanguage
	}
	if len(b.Chapters) == 0 {
		return ErrNoChapters
	}

	seen := make(map[string]struct{}, len(b.Chapters))
	for i, ch := range b.Chapters {
		if !labelRe.MatchString(ch.Label) {
			return fmt.Errorf("chapter %d: invalid label %q", i+1, ch.Label)
		}
		if strings.TrimSpace(ch.Title) == "" {
			return fmt.Errorf("chapter %d (%s): title is required", i+1, ch.Label)
		}
		if _, ok := seen[ch.Label]; ok {
			return fmt.Errorf("chapter %d: duplicate label %q", i+1, ch.Label)
		}
		seen[ch.Label] = struct{}{}
	}

	return nil
}

// UniqueIdentifier derives the container identifier from the identifier root
// and the given time, e.g. "ddia-20260102150405". An empty root falls back to
// a slug of the title.
func (m *Metadata) UniqueIdentifier(now time.Time) string {
	root := strings.TrimSpace(m.Identifier)
	if root == "" {
		root = slugify(m.Title)
	}
	return root + "-" + now.Format("20060102150405")
}

// StylePath returns the configured stylesheet path or the default.
func (m *Metadata) StylePath() string {
	if m.Style != "" {
		return m.Style
	}
	return "style/main.css"
}

// ContentDivID returns the configured content element id or the default.
func (m *Metadata) ContentDivID() string {
	if m.ContentID != "" {
		return m.ContentID
	}
	return "book-content"
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = nonSlugRe.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "book"
	}
	return s
}
