// file: internal/models/normalize.go
// version: 1.0.1
// guid: 7d3b8e2a-1c4f-4a6b-8d9e-0f1a2b3c4d5e

package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldSearch lowercases s and strips combining marks so that accented
// catalog names ("Episódio") match unaccented search input.
func FoldSearch(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// SearchMatches reports whether the folded needle occurs in the folded haystack.
// An empty needle matches everything.
func SearchMatches(haystack, needle string) bool {
	needle = FoldSearch(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(FoldSearch(haystack), needle)
}
