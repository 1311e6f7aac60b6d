package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases and strips diacritics. OCR output is inconsistent
// about Portuguese accents ("movimentação" vs "movimentacao"), so both sides
// of every comparison go through the same folding.
func Normalize(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(s),
	)
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// tokenize splits normalized text into alphanumeric terms
func tokenize(s string) []string {
	return strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
