// Package textnorm canonicalizes free text into comparable tokens for
// the resolution and search engines. Normalization is total and
// idempotent: Normalize(Normalize(s)) == Normalize(s).
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes, drops combining marks (Latin diacritics and
// Arabic harakat alike), then recomposes. Hamza-carrying alef forms
// decompose to bare alef as a side effect.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

const arabicTatweel = 'ـ'

// Normalize lower-cases, strips diacritics and punctuation, folds
// Arabic letter variants and collapses whitespace.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// transform only fails on malformed UTF-8; keep the input.
		out = s
	}
	out = strings.ToLower(out)
	out = strings.Map(foldRune, out)
	return strings.Join(strings.Fields(out), " ")
}

// Tokens returns the whitespace-separated tokens of the normalized form.
func Tokens(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

func foldRune(r rune) rune {
	switch r {
	case 'آ', 'أ', 'إ', 'ٱ':
		return 'ا'
	case 'ة':
		return 'ه'
	case 'ى', 'ئ':
		return 'ي'
	case 'ؤ':
		return 'و'
	case arabicTatweel:
		return -1
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return r
	}
	// Punctuation and symbols become token boundaries.
	return ' '
}
