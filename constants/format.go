package constants

import "strings"

// Format is the closed set of document formats the extractor understands.
type Format string

const (
	TEXT        Format = "TEXT"
	PDF         Format = "PDF"
	WORD        Format = "WORD"
	RTF         Format = "RTF"
	IMAGE       Format = "IMAGE"
	UNSUPPORTED Format = "UNSUPPORTED"
)

// Formats holds the allowed format values for extraction job rows.
var Formats = []string{string(TEXT), string(PDF), string(WORD), string(RTF), string(IMAGE), string(UNSUPPORTED)}

// AllowedExtensions holds the default file extensions accepted by batch ingestion.
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"pdf":  {},
	"doc":  {},
	"docx": {},
	"rtf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
	"gif":  {},
}

var imageExts = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
	"gif":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to a Format.
// Unknown extensions map to UNSUPPORTED; callers decide the fallback.
func MapExtToFormat(ext string) Format {
	ext = NormalizeExt(ext)
	switch ext {
	case "txt", "text", "log", "md":
		return TEXT
	case "pdf":
		return PDF
	case "doc", "docx":
		return WORD
	case "rtf":
		return RTF
	}
	if _, ok := imageExts[ext]; ok {
		return IMAGE
	}
	return UNSUPPORTED
}

// MapMIMEToFormat maps a declared MIME type to a Format.
// Returns "" when the MIME type is unknown so callers can fall back to
// the file extension.
func MapMIMEToFormat(mime string) Format {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch mime {
	case "text/plain":
		return TEXT
	case "application/pdf":
		return PDF
	case "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return WORD
	case "application/rtf", "text/rtf":
		return RTF
	}
	if strings.HasPrefix(mime, "image/") {
		return IMAGE
	}
	return ""
}

// IsImageExt reports whether the extension belongs to a raster image type.
func IsImageExt(ext string) bool {
	_, ok := imageExts[NormalizeExt(ext)]
	return ok
}
