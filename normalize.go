/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents strips combining marks, so "Pão" becomes "Pao".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return folded
}

// normalizeWord folds accents, upper-cases and keeps only the letters A-Z.
// Secrets and whole-word guesses both go through it before comparison.
func normalizeWord(s string) string {
	folded := strings.ToUpper(foldAccents(s))

	var b strings.Builder
	b.Grow(len(folded))

	for _, r := range folded {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// normalizeLetter accepts input that is exactly one letter once surrounding
// space is trimmed and accents are folded.
func normalizeLetter(s string) (rune, bool) {
	folded := []rune(strings.ToUpper(foldAccents(strings.TrimSpace(s))))
	if len(folded) != 1 {
		return 0, false
	}

	r := folded[0]
	if r < 'A' || r > 'Z' {
		return 0, false
	}

	return r, true
}
