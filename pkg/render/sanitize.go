package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	jsxText = strings.NewReplacer("{", "&#123;", "}", "&#125;", "<", "&lt;", ">", "&gt;")
	jsxAttr = strings.NewReplacer(`"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

// sanitizeText strips markup from descriptor supplied UI text and escapes
// what JSX would otherwise interpret inside element content.
func sanitizeText(raw string) string {
	cleaned := stripMarkup(raw)
	if cleaned == "" {
		return ""
	}
	return jsxText.Replace(cleaned)
}

// sanitizeAttr prepares text for a double-quoted attribute value.
func sanitizeAttr(raw string) string {
	cleaned := stripMarkup(raw)
	if cleaned == "" {
		return ""
	}
	return jsxAttr.Replace(cleaned)
}

func stripMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
