package epub

import (
	"encoding/xml"
	"strings"
	"testing"
)

func testEntries() []navEntry {
	return []navEntry{
		{Title: "Preface", Href: "preface.xhtml"},
		{Title: "1. Trade-offs & Architecture", Href: "1.xhtml"},
		{Title: "Glossary", Href: "glossary.xhtml"},
	}
}

func TestBuildNavDoc(t *testing.T) {
	out := string(buildNavDoc("My Book", "en", testEntries()))

	for _, want := range []string{
		`epub:type="toc"`,
		`xml:lang="en"`,
		`<a href="preface.xhtml">Preface</a>`,
		`<a href="glossary.xhtml">Glossary</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("nav doc missing %q:\n%s", want, out)
		}
	}

	// Titles are escaped.
	if !strings.Contains(out, "Trade-offs &amp; Architecture") {
		t.Fatalf("nav doc title not escaped:\n%s", out)
	}

	// Entries appear in reading order.
	first := strings.Index(out, "preface.xhtml")
	last := strings.Index(out, "glossary.xhtml")
	if first < 0 || last < 0 || first > last {
		t.Fatalf("nav entries out of order:\n%s", out)
	}
}

func TestBuildNCX(t *testing.T) {
	data, err := buildNCX("ddia-20260825103000", "My Book", testEntries())
	if err != nil {
		t.Fatalf("buildNCX() error = %v", err)
	}

	var root ncxRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		t.Fatalf("generated NCX does not parse: %v", err)
	}

	if root.DocTitle.Text != "My Book" {
		t.Fatalf("DocTitle = %q", root.DocTitle.Text)
	}
	if len(root.NavMap) != 3 {
		t.Fatalf("len(NavMap) = %d, want 3", len(root.NavMap))
	}
	for i, np := range root.NavMap {
		if np.PlayOrder != i+1 {
			t.Fatalf("navPoint %d playOrder = %d", i, np.PlayOrder)
		}
	}
	if root.NavMap[0].Content.Src != "preface.xhtml" {
		t.Fatalf("first navPoint src = %q", root.NavMap[0].Content.Src)
	}
	if root.NavMap[0].Label.Text != "Preface" {
		t.Fatalf("first navPoint label = %q", root.NavMap[0].Label.Text)
	}

	uidFound := false
	for _, m := range root.Metas {
		if m.Name == "dtb:uid" && m.Content == "ddia-20260825103000" {
			uidFound = true
		}
	}
	if !uidFound {
		t.Fatalf("dtb:uid meta missing:\n%s", string(data))
	}
}
