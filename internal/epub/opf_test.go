package epub

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func testMetadata() Metadata {
	return Metadata{
		Identifier: "ddia-20260825103000",
		Title:      "Designing Data-Intensive Applications",
		Language:   "en",
		Creators: []Creator{
			{Name: "Martin Kleppmann", Role: "aut"},
			{Name: "Chris Riccomini", Role: "aut"},
		},
		Modified: time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
	}
}

func TestBuildOPF(t *testing.T) {
	items := []opfManifestItem{
		{ID: "nav", Href: "nav.xhtml", MediaType: "application/xhtml+xml", Properties: "nav"},
		{ID: "ch001", Href: "preface.xhtml", MediaType: "application/xhtml+xml"},
		{ID: "ch002", Href: "1.xhtml", MediaType: "application/xhtml+xml"},
	}
	data, err := buildOPF(testMetadata(), items, []string{"ch001", "ch002"}, "ncx", "")
	if err != nil {
		t.Fatalf("buildOPF() error = %v", err)
	}

	out := string(data)
	for _, want := range []string{
		`unique-identifier="pub-id"`,
		`version="3.0"`,
		`<dc:identifier id="pub-id">ddia-20260825103000</dc:identifier>`,
		`<dc:title>Designing Data-Intensive Applications</dc:title>`,
		`<dc:language>en</dc:language>`,
		`property="dcterms:modified"`,
		`2026-08-25T10:30:00Z`,
		`<itemref idref="ch001"></itemref>`,
		`properties="nav"`,
		`toc="ncx"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("OPF missing %q:\n%s", want, out)
		}
	}

	// Author order must survive serialization.
	first := strings.Index(out, "Martin Kleppmann")
	second := strings.Index(out, "Chris Riccomini")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("creator order wrong:\n%s", out)
	}

	// Output must stay well-formed XML.
	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		t.Fatalf("generated OPF does not parse: %v", err)
	}
	if len(pkg.Spine.ItemRefs) != 2 {
		t.Fatalf("len(spine) = %d, want 2", len(pkg.Spine.ItemRefs))
	}
}

func TestBuildOPF_CoverMeta(t *testing.T) {
	items := []opfManifestItem{
		{ID: "cover-image", Href: "images/cover.jpg", MediaType: "image/jpeg", Properties: "cover-image"},
	}
	data, err := buildOPF(testMetadata(), items, nil, "ncx", "cover-image")
	if err != nil {
		t.Fatalf("buildOPF() error = %v", err)
	}

	out := string(data)
	if !strings.Contains(out, `name="cover" content="cover-image"`) {
		t.Fatalf("OPF missing EPUB 2 cover meta:\n%s", out)
	}
	if !strings.Contains(out, `properties="cover-image"`) {
		t.Fatalf("OPF missing cover-image property:\n%s", out)
	}
}

func TestBuildOPF_CreatorRoles(t *testing.T) {
	data, err := buildOPF(testMetadata(), nil, nil, "", "")
	if err != nil {
		t.Fatalf("buildOPF() error = %v", err)
	}

	out := string(data)
	if !strings.Contains(out, `refines="#creator-1" scheme="marc:relators"`) &&
		!strings.Contains(out, `refines="#creator-1"`) {
		t.Fatalf("OPF missing role refinement:\n%s", out)
	}
	if !strings.Contains(out, `property="role"`) {
		t.Fatalf("OPF missing role property:\n%s", out)
	}
}

func TestBuildOPF_EscapesMetadata(t *testing.T) {
	meta := testMetadata()
	meta.Title = `Tools & "Tricks" <2nd>`
	data, err := buildOPF(meta, nil, nil, "", "")
	if err != nil {
		t.Fatalf("buildOPF() error = %v", err)
	}

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		t.Fatalf("generated OPF does not parse: %v", err)
	}

	out := string(data)
	if strings.Contains(out, "<2nd>") {
		t.Fatalf("unescaped angle brackets in OPF:\n%s", out)
	}
	if !strings.Contains(out, "Tools &amp;") {
		t.Fatalf("ampersand not escaped in OPF:\n%s", out)
	}
}
