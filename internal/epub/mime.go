package epub

import (
	"path"
	"strings"
)

// mediaTypes maps file extensions to EPUB media types.
var mediaTypes = map[string]string{
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".png":   "image/png",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".css":   "text/css",
	".xhtml": "application/xhtml+xml",
	".html":  "application/xhtml+xml",
	".htm":   "application/xhtml+xml",
	".ncx":   "application/x-dtbncx+xml",
	".otf":   "font/otf",
	".ttf":   "font/ttf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// MediaTypeByExtension returns the media type for a file path based on its
// extension. The second return value reports whether the extension is known;
// unknown extensions fall back to application/octet-stream.
func MediaTypeByExtension(p string) (string, bool) {
	ext := strings.ToLower(path.Ext(p))
	if mt, ok := mediaTypes[ext]; ok {
		return mt, true
	}
	return "application/octet-stream", false
}

// IsImage reports whether a media type denotes an image resource.
func IsImage(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}
