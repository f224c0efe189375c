package converter

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// strippedTags are removed wholesale before content extraction: executable
// and presentational nodes plus page chrome that has no place in a reading
// document.
var strippedTags = []string{"script", "style", "nav", "header", "footer"}

// ExtractContent removes disallowed nodes and locates the element holding
// the chapter's substantive text. It prefers the element with the given id,
// then falls back to body, then to the whole document.
func ExtractContent(doc *goquery.Document, contentID string) *goquery.Selection {
	for _, tag := range strippedTags {
		doc.Find(tag).Remove()
	}

	// Stylesheet link tags are dropped; the EPUB carries its own stylesheet.
	doc.Find("link").Remove()

	if contentID != "" {
		sel := doc.Find(fmt.Sprintf("[id=%q]", contentID))
		if sel.Length() > 0 {
			return sel.First()
		}
	}

	if body := doc.Find("body"); body.Length() > 0 {
		return body
	}

	return doc.Selection
}
