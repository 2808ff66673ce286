package evidence

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Container is the fixed private storage bucket holding evidence objects.
const Container = "evidence"

var allowedExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"webp": true,
	"gif":  true,
	"pdf":  true,
}

// AllowedExt reports whether ext may be uploaded. "bin" (the
// unclassified fallback) is only accepted when the deployment opts in.
func AllowedExt(ext string, allowBin bool) bool {
	if ext == "bin" {
		return allowBin
	}
	return allowedExts[ext]
}

// NewKey generates a storage key as {unixMillis}-{base36 random}.{ext}.
// Uniqueness is probabilistic; collisions are not detected and the
// upsert flag on upload means a collision silently overwrites.
func NewKey(ext string) string {
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), strconv.FormatUint(rand.Uint64(), 36), ext)
}

// SanitizeExt lowercases a client-supplied extension and drops anything
// outside [a-z0-9]. An empty result falls back to "bin".
func SanitizeExt(ext string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(ext)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "bin"
	}
	return b.String()
}

// NormalizeKey strips the legacy container path prefix. Old records
// stored "evidence/xyz.pdf"; only the bare key is a valid reference.
func NormalizeKey(key string) string {
	return strings.TrimPrefix(key, Container+"/")
}
