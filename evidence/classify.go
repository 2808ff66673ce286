package evidence

import "strings"

// Classification pairs the resolved canonical extension with the content
// type to store alongside the object.
type Classification struct {
	Ext         string
	ContentType string
}

var canonicalMIME = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
	"bin":  "application/octet-stream",
}

// Classify resolves an extension/content-type pair for an untrusted
// buffer. The declared content type wins when it names a recognized
// format; magic-byte sniffing is only the fallback, and anything
// unrecognized lands on "bin".
func Classify(buf []byte, declared string) Classification {
	ct := strings.ToLower(declared)

	var ext string
	switch {
	case strings.Contains(ct, "png"):
		ext = "png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		ext = "jpg"
	case strings.Contains(ct, "webp"):
		ext = "webp"
	case strings.Contains(ct, "gif"):
		ext = "gif"
	case strings.Contains(ct, "pdf"):
		ext = "pdf"
	}
	if ext == "" {
		ext = sniff(buf)
	}

	contentType := declared
	if contentType == "" {
		contentType = canonicalMIME[ext]
	}
	return Classification{Ext: ext, ContentType: contentType}
}

// sniff inspects the first 8 bytes for a known magic number.
func sniff(buf []byte) string {
	head := buf
	if len(head) > 8 {
		head = head[:8]
	}
	switch {
	case len(head) >= 4 && string(head[:4]) == "%PDF":
		return "pdf"
	case len(head) >= 4 && head[0] == 0x89 && head[1] == 0x50 && head[2] == 0x4E && head[3] == 0x47:
		return "png"
	case len(head) >= 3 && head[0] == 0xFF && head[1] == 0xD8 && head[2] == 0xFF:
		return "jpg"
	case len(head) >= 3 && string(head[:3]) == "GIF":
		return "gif"
	}
	return "bin"
}
