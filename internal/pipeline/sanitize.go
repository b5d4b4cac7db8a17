package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxContentLength    = 1000
	maxAuthorNameLength = 20
	anonymousAuthor     = "Anonymous"
)

var (
	urlPattern        = regexp.MustCompile(`https?://[^\s]+`)
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern      = regexp.MustCompile(`(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeAuthorName reduces a reviewer name to a privacy-preserving display
// form ("First L."). Embedded email addresses are stripped and overly long
// names truncated. Missing or unusable names become "Anonymous".
func SanitizeAuthorName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return anonymousAuthor
	}

	name = emailPattern.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	name = truncateRunes(name, maxAuthorNameLength)

	if tokens := strings.Fields(name); len(tokens) > 1 {
		last := []rune(tokens[len(tokens)-1])
		name = tokens[0] + " " + string(last[0]) + "."
	}

	if strings.TrimSpace(name) == "" {
		return anonymousAuthor
	}
	return name
}

// SanitizeText strips URLs, email addresses, and phone-number-like patterns
// from free text, collapses whitespace, and caps the result at 1000
// characters with a trailing ellipsis. Sanitizing already-sanitized text is a
// no-op.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}

	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = phonePattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	return truncateRunes(text, maxContentLength)
}

// truncateRunes caps s at max runes with a trailing ellipsis. Cutting on rune
// boundaries keeps multi-byte input valid UTF-8.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
