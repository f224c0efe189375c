package epub

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrMissingIdentifier = errors.New("identifier is required")
	ErrMissingTitle      = errors.New("title is required")
	ErrMissingLanguage   = errors.New("language is required")
	ErrNoChapters        = errors.New("no chapters added")
)

// Writer accumulates chapters and resources and assembles them into an EPUB 3
// container. Chapters occupy spine slots in the order they are added.
type Writer struct {
	meta       Metadata
	chapters   []Chapter
	resources  []Resource
	coverImage *Resource
	paths      map[string]struct{}
}

// NewWriter creates a container writer for the given metadata.
func NewWriter(meta Metadata) *Writer {
	return &Writer{
		meta:  meta,
		paths: make(map[string]struct{}),
	}
}

// AddChapter appends a content document to the spine.
func (w *Writer) AddChapter(ch Chapter) error {
	if err := w.claimPath(ch.Path); err != nil {
		return err
	}
	w.chapters = append(w.chapters, ch)
	return nil
}

// AddResource registers a non-content file (image, stylesheet).
func (w *Writer) AddResource(res Resource) error {
	if err := w.claimPath(res.Path); err != nil {
		return err
	}
	w.resources = append(w.resources, res)
	return nil
}

// HasResource reports whether a resource path is already registered.
// Chapters sharing an image register it once.
func (w *Writer) HasResource(path string) bool {
	_, ok := w.paths[path]
	return ok
}

// SetCover registers the cover image. A cover page content document is
// generated and placed first in the spine.
func (w *Writer) SetCover(res Resource) error {
	if w.coverImage != nil {
		return fmt.Errorf("cover already set to %q", w.coverImage.Path)
	}
	if err := w.claimPath(res.Path); err != nil {
		return err
	}
	w.coverImage = &res
	return nil
}

// reservedPaths are emitted by the writer itself; a chapter or resource
// claiming one would shadow a generated entry.
var reservedPaths = map[string]struct{}{
	opfName:       {},
	navDocPath:    {},
	ncxPath:       {},
	coverPagePath: {},
}

func (w *Writer) claimPath(path string) error {
	if path == "" {
		return errors.New("empty container path")
	}
	if _, ok := reservedPaths[path]; ok {
		return fmt.Errorf("reserved container path %q", path)
	}
	if _, ok := w.paths[path]; ok {
		return fmt.Errorf("duplicate container path %q", path)
	}
	w.paths[path] = struct{}{}
	return nil
}

func (w *Writer) validate() error {
	if w.meta.Identifier == "" {
		return ErrMissingIdentifier
	}
	if w.meta.Title == "" {
		return ErrMissingTitle
	}
	if w.meta.Language == "" {
		return ErrMissingLanguage
	}
	if len(w.chapters) == 0 {
		return ErrNoChapters
	}
	return nil
}

// WriteTo assembles the container and writes it to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	if err := w.validate(); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: out}
	zw := zip.NewWriter(cw)

	// The mimetype entry must come first and be stored uncompressed.
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: mimetypePath, Method: zip.Store})
	if err != nil {
		return cw.n, fmt.Errorf("failed to create mimetype entry: %w", err)
	}
	if _, err := mt.Write([]byte(mimetypeValue)); err != nil {
		return cw.n, fmt.Errorf("failed to write mimetype: %w", err)
	}

	opfData, navData, ncxData, err := w.buildPackageDocs()
	if err != nil {
		return cw.n, err
	}

	entries := []zipEntry{
		{containerPath, []byte(containerXML)},
		{opfPath, opfData},
		{contentDir + "/" + navDocPath, navData},
		{contentDir + "/" + ncxPath, ncxData},
	}

	if w.coverImage != nil {
		entries = append(entries, zipEntry{contentDir + "/" + coverPagePath, CoverDocument(w.meta.Title, w.coverImage.Path)})
	}

	for _, ch := range w.chapters {
		entries = append(entries, zipEntry{contentDir + "/" + ch.Path, ch.Data})
	}
	if w.coverImage != nil {
		entries = append(entries, zipEntry{contentDir + "/" + w.coverImage.Path, w.coverImage.Data})
	}
	for _, res := range w.resources {
		entries = append(entries, zipEntry{contentDir + "/" + res.Path, res.Data})
	}

	for _, e := range entries {
		f, err := zw.Create(e.path)
		if err != nil {
			return cw.n, fmt.Errorf("failed to create entry %q: %w", e.path, err)
		}
		if _, err := f.Write(e.data); err != nil {
			return cw.n, fmt.Errorf("failed to write entry %q: %w", e.path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to finalize container: %w", err)
	}

	return cw.n, nil
}

// WriteFile assembles the container and writes it to path.
func (w *Writer) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if _, err := w.WriteTo(f); err != nil {
		return err
	}

	return f.Close()
}

// buildPackageDocs generates the OPF, navigation document, and NCX.
func (w *Writer) buildPackageDocs() (opfData, navData, ncxData []byte, err error) {
	var items []opfManifestItem
	var spine []string

	items = append(items,
		opfManifestItem{ID: "nav", Href: navDocPath, MediaType: "application/xhtml+xml", Properties: "nav"},
		opfManifestItem{ID: "ncx", Href: ncxPath, MediaType: "application/x-dtbncx+xml"},
	)

	coverImageID := ""
	if w.coverImage != nil {
		coverImageID = "cover-image"
		items = append(items,
			opfManifestItem{ID: "cover", Href: coverPagePath, MediaType: "application/xhtml+xml"},
			opfManifestItem{ID: coverImageID, Href: w.coverImage.Path, MediaType: w.coverImage.MediaType, Properties: "cover-image"},
		)
		spine = append(spine, "cover")
	}

	entries := make([]navEntry, 0, len(w.chapters))
	for i, ch := range w.chapters {
		id := fmt.Sprintf("ch%03d", i+1)
		items = append(items, opfManifestItem{ID: id, Href: ch.Path, MediaType: "application/xhtml+xml"})
		spine = append(spine, id)
		entries = append(entries, navEntry{Title: ch.Title, Href: ch.Path})
	}

	for i, res := range w.resources {
		items = append(items, opfManifestItem{
			ID:        fmt.Sprintf("item%03d", i+1),
			Href:      res.Path,
			MediaType: res.MediaType,
		})
	}

	opfData, err = buildOPF(w.meta, items, spine, "ncx", coverImageID)
	if err != nil {
		return nil, nil, nil, err
	}

	navData = buildNavDoc(w.meta.Title, w.meta.Language, entries)

	ncxData, err = buildNCX(w.meta.Identifier, w.meta.Title, entries)
	if err != nil {
		return nil, nil, nil, err
	}

	return opfData, navData, ncxData, nil
}

type zipEntry struct {
	path string
	data []byte
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
