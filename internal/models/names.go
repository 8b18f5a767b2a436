package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SanitizeName drops punctuation but keeps letters, digits and spaces:
// "D'Angelo" becomes "DAngelo", "Hardaway Jr." becomes "Hardaway Jr".
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Nickname is the unique player key: the sanitized name with accents folded
// and everything but letters and digits removed.
func Nickname(name string) string {
	var b strings.Builder
	for _, r := range FoldAccents(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FoldAccents maps "Dončić" to "Doncic".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// URLKey lowercases a name for profile slugs, keeping only ASCII letters and
// digits.
func URLKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(FoldAccents(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
