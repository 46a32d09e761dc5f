// Package similarity clusters folders whose names likely mean the same
// thing and proposes merging each cluster into one retained folder.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes accented characters and drops the combining marks,
// so "Café" and "Cafe" normalize identically.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stopwords are articles and conjunctions that carry no meaning for folder
// matching, across the languages bookmark folders commonly mix. Entries are
// stored as Normalize emits them, accents already folded.
var stopwords = map[string]struct{}{
	// English
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {},
	// German
	"der": {}, "die": {}, "das": {}, "und": {}, "oder": {}, "mit": {}, "von": {}, "fur": {},
	// French
	"les": {}, "des": {}, "une": {}, "et": {}, "ou": {}, "pour": {}, "avec": {},
	// Spanish
	"los": {}, "las": {}, "del": {}, "con": {}, "para": {},
}

// Normalize lowercases a folder title, folds accents away, and collapses
// every run of non-alphanumeric characters into a single space.
func Normalize(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	space := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}

// Tokenize splits a normalized string into its token set: words of at least
// two characters that are not stopwords. Duplicates within one title
// collapse.
func Tokenize(normalized string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(normalized) {
		if len([]rune(word)) < 2 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		tokens[word] = struct{}{}
	}
	return tokens
}
