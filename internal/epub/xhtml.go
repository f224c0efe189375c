package epub

import (
	"bytes"
	"encoding/xml"
	"fmt"
	htmlesc "html"
	"strings"

	"golang.org/x/net/html"
)

// RenderFragment serializes parsed HTML nodes back to markup. Void elements
// come out self-closed, which keeps the output usable as XHTML.
func RenderFragment(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("failed to render node: %w", err)
		}
	}
	return buf.String(), nil
}

// ChapterDocument wraps chapter body markup into a complete XHTML content
// document with a title and an optional stylesheet link.
func ChapterDocument(title, styleHref, bodyHTML string) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">` + "\n")
	b.WriteString("<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", htmlesc.EscapeString(title))
	if styleHref != "" {
		fmt.Fprintf(&b, `<link rel="stylesheet" type="text/css" href="%s"/>`+"\n", htmlesc.EscapeString(styleHref))
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(bodyHTML)
	b.WriteString("\n</body>\n</html>\n")
	return []byte(b.String())
}

// CoverDocument builds the cover page content document.
func CoverDocument(title, imageHref string) []byte {
	body := fmt.Sprintf(`<div class="cover"><img src="%s" alt="%s"/></div>`,
		htmlesc.EscapeString(imageHref), htmlesc.EscapeString(title))
	return ChapterDocument(title, "", body)
}
