package epub

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Write-side models for the package document. Element names carry the dc:
// prefix literally; the prefix is declared on the metadata element.

type opfPackage struct {
	XMLName          xml.Name    `xml:"package"`
	Xmlns            string      `xml:"xmlns,attr"`
	Version          string      `xml:"version,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         opfMetadata `xml:"metadata"`
	Manifest         opfManifest `xml:"manifest"`
	Spine            opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	XmlnsDC    string        `xml:"xmlns:dc,attr"`
	Identifier opfIdentifier `xml:"dc:identifier"`
	Title      string        `xml:"dc:title"`
	Language   string        `xml:"dc:language"`
	Creators   []opfCreator  `xml:"dc:creator"`
	Metas      []opfMeta     `xml:"meta"`
}

type opfIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfCreator struct {
	ID    string `xml:"id,attr,omitempty"`
	Value string `xml:",chardata"`
}

// opfMeta covers both EPUB 3 property metas and the EPUB 2 compatibility
// <meta name="cover" content="..."/> form.
type opfMeta struct {
	Property string `xml:"property,attr,omitempty"`
	Refines  string `xml:"refines,attr,omitempty"`
	Scheme   string `xml:"scheme,attr,omitempty"`
	Name     string `xml:"name,attr,omitempty"`
	Content  string `xml:"content,attr,omitempty"`
	Value    string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	Toc      string            `xml:"toc,attr,omitempty"`
	ItemRefs []opfSpineItemRef `xml:"itemref"`
}

type opfSpineItemRef struct {
	IDRef string `xml:"idref,attr"`
}

const (
	opfNamespace = "http://www.idpf.org/2007/opf"
	dcNamespace  = "http://purl.org/dc/elements/1.1/"
)

// buildOPF serializes the package document from metadata, manifest items, and
// spine order. coverImageID names the manifest item carrying the cover image
// (empty when there is none).
func buildOPF(meta Metadata, items []opfManifestItem, spine []string, ncxID, coverImageID string) ([]byte, error) {
	modified := meta.Modified
	if modified.IsZero() {
		modified = time.Now()
	}

	md := opfMetadata{
		XmlnsDC:    dcNamespace,
		Identifier: opfIdentifier{ID: "pub-id", Value: meta.Identifier},
		Title:      meta.Title,
		Language:   meta.Language,
		Metas: []opfMeta{
			{Property: "dcterms:modified", Value: modified.UTC().Format("2006-01-02T15:04:05Z")},
		},
	}

	for i, c := range meta.Creators {
		id := fmt.Sprintf("creator-%d", i+1)
		md.Creators = append(md.Creators, opfCreator{ID: id, Value: c.Name})
		if c.Role != "" {
			md.Metas = append(md.Metas, opfMeta{
				Refines:  "#" + id,
				Property: "role",
				Scheme:   "marc:relators",
				Value:    c.Role,
			})
		}
	}

	if coverImageID != "" {
		md.Metas = append(md.Metas, opfMeta{Name: "cover", Content: coverImageID})
	}

	pkg := opfPackage{
		Xmlns:            opfNamespace,
		Version:          "3.0",
		UniqueIdentifier: "pub-id",
		Metadata:         md,
		Manifest:         opfManifest{Items: items},
		Spine:            opfSpine{Toc: ncxID},
	}
	for _, idref := range spine {
		pkg.Spine.ItemRefs = append(pkg.Spine.ItemRefs, opfSpineItemRef{IDRef: idref})
	}

	out, err := xml.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal package document: %w", err)
	}

	return append([]byte(xml.Header), append(out, '\n')...), nil
}
