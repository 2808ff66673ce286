package evidence

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKey_Format(t *testing.T) {
	key := NewKey("png")
	assert.Regexp(t, regexp.MustCompile(`^\d{13,}-[0-9a-z]+\.png$`), key)
}

func TestNewKey_Distinct(t *testing.T) {
	// Uniqueness is probabilistic, but two back-to-back keys sharing a
	// millisecond must still differ in the random suffix.
	a := NewKey("pdf")
	b := NewKey("pdf")
	assert.NotEqual(t, a, b)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "x.png", NormalizeKey("evidence/x.png"))
	assert.Equal(t, "x.png", NormalizeKey("x.png"))
	// Only the leading container prefix is stripped.
	assert.Equal(t, "sub/evidence/x.png", NormalizeKey("sub/evidence/x.png"))
}

func TestSanitizeExt(t *testing.T) {
	assert.Equal(t, "pdf", SanitizeExt("PDF"))
	assert.Equal(t, "jpg", SanitizeExt(" .jpg "))
	assert.Equal(t, "bin", SanitizeExt(""))
	assert.Equal(t, "bin", SanitizeExt("!!!"))
	assert.Equal(t, "png2", SanitizeExt("png2"))
}

func TestAllowedExt(t *testing.T) {
	for _, ext := range []string{"png", "jpg", "webp", "gif", "pdf"} {
		assert.True(t, AllowedExt(ext, false), ext)
	}
	assert.False(t, AllowedExt("bin", false))
	assert.True(t, AllowedExt("bin", true))
	assert.False(t, AllowedExt("exe", true))
	assert.False(t, AllowedExt("svg", false), "svg counts for policy but is not uploadable")
}
