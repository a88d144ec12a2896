package gemini

import (
	"regexp"
	"strings"
	"unicode"
)

var newlinesRe = regexp.MustCompile(`\n+`)

// CleanText keeps ASCII letters, digits and any Unicode whitespace, trimmed.
// Non-breaking spaces from HTML entities stay, so words do not run together.
func CleanText(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return -1
		}
	}, text)

	return strings.TrimSpace(cleaned)
}

// collapse flattens generated prose into a single line.
func collapse(text string) string {
	text = newlinesRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "* **", "")
	return strings.Join(strings.Fields(text), " ")
}

func templateOr(configured, fallback string) string {
	if t := strings.TrimSpace(configured); t != "" {
		return t
	}
	return strings.TrimSpace(fallback)
}
