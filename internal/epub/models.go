// Package epub assembles EPUB 3 containers: a ZIP archive holding a package
// document (manifest + spine), navigation documents, content documents, and
// their resources.
package epub

import "time"

// Metadata holds the fields written to the package document.
type Metadata struct {
	// Identifier is the unique identifier of the publication.
	Identifier string
	Title      string
	Language   string
	Creators   []Creator

	// Modified is the dcterms:modified timestamp. Zero means time.Now.
	Modified time.Time
}

// Creator is a dc:creator entry.
type Creator struct {
	Name string
	Role string // MARC relator code, e.g. "aut"
}

// Resource is a non-content file carried in the container (image,
// stylesheet). Path is relative to the package document directory.
type Resource struct {
	Path      string
	MediaType string
	Data      []byte
}

// Chapter is a content document occupying one spine slot.
type Chapter struct {
	Title string
	Path  string // relative to the package document directory
	Data  []byte // serialized XHTML
}
