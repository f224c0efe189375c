package epub

// Fixed container layout. All publication files live under contentDir; the
// container.xml at the well-known META-INF path points at the package
// document.
const (
	mimetypePath  = "mimetype"
	mimetypeValue = "application/epub+zip"
	containerPath = "META-INF/container.xml"
	contentDir    = "OEBPS"
	opfName       = "content.opf"
	opfPath       = contentDir + "/" + opfName
	navDocPath    = "nav.xhtml"
	ncxPath       = "toc.ncx"
	coverPagePath = "cover.xhtml"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`
