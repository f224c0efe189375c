package epub

import (
	"encoding/xml"
	"fmt"
	"html"
	"strings"
)

// navEntry is one table-of-contents link, in reading order.
type navEntry struct {
	Title string
	Href  string
}

// buildNavDoc generates the EPUB 3 navigation document.
func buildNavDoc(title, language string, entries []navEntry) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&b, `<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" xml:lang="%s">`, html.EscapeString(language))
	b.WriteString("\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.WriteString(`<nav epub:type="toc" id="toc">` + "\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	b.WriteString("<ol>\n")
	for _, e := range entries {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`+"\n",
			html.EscapeString(e.Href), html.EscapeString(e.Title))
	}
	b.WriteString("</ol>\n</nav>\n</body>\n</html>\n")
	return []byte(b.String())
}

// NCX write-side models, EPUB 2 compatibility.

type ncxRoot struct {
	XMLName  xml.Name      `xml:"ncx"`
	Xmlns    string        `xml:"xmlns,attr"`
	Version  string        `xml:"version,attr"`
	Metas    []ncxMeta     `xml:"head>meta"`
	DocTitle ncxText       `xml:"docTitle"`
	NavMap   []ncxNavPoint `xml:"navMap>navPoint"`
}

type ncxMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type ncxText struct {
	Text string `xml:"text"`
}

type ncxNavPoint struct {
	ID        string     `xml:"id,attr"`
	PlayOrder int        `xml:"playOrder,attr"`
	Label     ncxText    `xml:"navLabel"`
	Content   ncxContent `xml:"content"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

const ncxNamespace = "http://www.daisy.org/z3986/2005/ncx/"

// buildNCX generates the toc.ncx document.
func buildNCX(identifier, title string, entries []navEntry) ([]byte, error) {
	root := ncxRoot{
		Xmlns:   ncxNamespace,
		Version: "2005-1",
		Metas: []ncxMeta{
			{Name: "dtb:uid", Content: identifier},
			{Name: "dtb:depth", Content: "1"},
			{Name: "dtb:totalPageCount", Content: "0"},
			{Name: "dtb:maxPageNumber", Content: "0"},
		},
		DocTitle: ncxText{Text: title},
	}

	for i, e := range entries {
		root.NavMap = append(root.NavMap, ncxNavPoint{
			ID:        fmt.Sprintf("navPoint-%d", i+1),
			PlayOrder: i + 1,
			Label:     ncxText{Text: e.Title},
			Content:   ncxContent{Src: e.Href},
		})
	}

	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal NCX: %w", err)
	}

	return append([]byte(xml.Header), append(out, '\n')...), nil
}
