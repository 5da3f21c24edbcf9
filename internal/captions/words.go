package captions

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// SplitWords tokenizes text on whitespace and strips every rune that is not a
// letter, digit, underscore, apostrophe or hyphen. Tokens left empty are
// dropped. Text is NFC-normalized first so combining accents survive.
func SplitWords(text string) []string {
	fields := strings.Fields(norm.NFC.String(text))
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		if word := cleanWord(field); word != "" {
			words = append(words, word)
		}
	}
	return words
}

func cleanWord(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		switch {
		case r == '\u2019' || r == '\u2018':
			b.WriteRune('\'')
		case r == '\'' || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// wordLength counts characters rather than bytes.
func wordLength(word string) int {
	return utf8.RuneCountInString(word)
}
