package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Post bodies and comments come from a rich text editor; the UGC policy
// keeps its formatting and strips scripts, handlers and unsafe URLs.
var richText = bluemonday.UGCPolicy()

func sanitizeRichText(html string) string {
	return strings.TrimSpace(richText.Sanitize(html))
}
