package textutil

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// minTokenRunes drops short function words ("a", "it", "of") that carry no
// signal when comparing stories.
const minTokenRunes = 3

// Fingerprint is a term-frequency vector of a text. The zero value matches
// nothing.
type Fingerprint struct {
	counts map[string]int
	norm   float64
}

// NewFingerprint builds the term-frequency vector of text.
func NewFingerprint(text string) Fingerprint {
	counts := make(map[string]int)
	for _, token := range Tokenize(text) {
		counts[token]++
	}
	squares := 0
	for _, n := range counts {
		squares += n * n
	}
	return Fingerprint{counts: counts, norm: math.Sqrt(float64(squares))}
}

// Empty reports whether the text had no usable tokens.
func (f Fingerprint) Empty() bool { return f.norm == 0 }

// Similarity is the cosine of the angle between f and other, in [0, 1].
// An empty fingerprint is similar to nothing.
func (f Fingerprint) Similarity(other Fingerprint) float64 {
	if f.Empty() || other.Empty() {
		return 0
	}
	small, large := f.counts, other.counts
	if len(large) < len(small) {
		small, large = large, small
	}
	dot := 0
	for token, n := range small {
		dot += n * large[token]
	}
	return float64(dot) / (f.norm * other.norm)
}

// Tokenize case-folds text and splits it on every rune that is not a letter
// or digit, keeping tokens of at least three runes.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(cases.Fold().String(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, field := range fields {
		if utf8.RuneCountInString(field) >= minTokenRunes {
			tokens = append(tokens, field)
		}
	}
	return tokens
}
