package evidence

import (
	"path"
	"strings"
)

// PolicyError reports an evidence composition violation.
type PolicyError string

func (e PolicyError) Error() string { return string(e) }

// MaxEvidenceFiles caps the number of evidence references per report.
const MaxEvidenceFiles = 2

var imageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
	"svg":  true,
}

// ValidatePolicy enforces the composition rules over a set of evidence
// keys: at most two keys, and among them at most one image and at most
// one PDF. Classification is by filename suffix only; suffixes outside
// both classes count toward neither limit. Duplicates are not rejected.
func ValidatePolicy(keys []string) error {
	if len(keys) > MaxEvidenceFiles {
		return PolicyError("too many evidence files")
	}
	var images, pdfs int
	for _, k := range keys {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(k), "."))
		switch {
		case ext == "pdf":
			pdfs++
		case imageExts[ext]:
			images++
		}
	}
	if images > 1 || pdfs > 1 {
		return PolicyError("at most one image and one PDF")
	}
	return nil
}
