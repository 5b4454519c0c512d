// Package keyword provides headword normalization. The normalized form is
// the merge key used to treat "Run-Down", "run down" and "rundown" from
// different dictionaries as one result; it is never shown to users.
package keyword

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes to NFD and strips combining marks so that accented
// letters compare equal to their base letter ("Café" merges with "cafe").
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize projects a display key onto its merge key: diacritics folded,
// non-letters dropped, lowercased.
func Normalize(key string) string {
	folded, _, err := transform.String(foldMarks, key)
	if err != nil {
		folded = key
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
