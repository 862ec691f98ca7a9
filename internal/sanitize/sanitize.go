// Package sanitize strips unsafe markup from user-supplied text and validates
// URLs before they reach storage.
package sanitize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/kennygrant/sanitize"
)

// Tag stripping alone would leave script and style bodies behind as text, so
// those elements go first, content and all.
var scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)

// Text removes HTML tags and script content from free text, returning plain
// text with surrounding whitespace trimmed.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(sanitize.HTML(scriptRe.ReplaceAllString(s, "")))
}

// URL validates that raw is an absolute http(s) URL. It returns the cleaned
// URL, or the empty string when the input is empty or unsafe.
func URL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	if parsed.Host == "" {
		return ""
	}
	return parsed.String()
}

// URLs filters a slice through URL, dropping entries that fail validation.
func URLs(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, u := range raw {
		if clean := URL(u); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
