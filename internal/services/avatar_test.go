package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatarURL(t *testing.T) {
	want := "https://www.gravatar.com/avatar/743173788aa9166801df2e18f0e7ff24?d=retro&r=g&s=100"
	assert.Equal(t, want, AvatarURL("a@x.com"))
	assert.Equal(t, want, AvatarURL("  A@X.com "))
}

func TestSanitizeRichText(t *testing.T) {
	assert.Equal(t, `<a href="https://example.com" rel="nofollow">x</a>`, sanitizeRichText(`<a href="https://example.com" onclick="evil()">x</a>`))
	assert.Equal(t, "", sanitizeRichText(`<script>alert(1)</script>`))
}
