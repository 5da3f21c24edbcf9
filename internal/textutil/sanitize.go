package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeFileName reduces a story title to letters, digits, '-', '_', '.'
// and single spaces. Input is NFC-normalized first so decomposed accents
// survive. Leading and trailing dots and spaces are removed.
func SanitizeFileName(name string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, norm.NFC.String(name))
	return strings.Trim(strings.Join(strings.Fields(kept), " "), ". ")
}

// TruncateRunes returns at most the first limit runes of s.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
