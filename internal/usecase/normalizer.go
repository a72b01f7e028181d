package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9 ]+`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures do not decompose under NFD
var ligatureReplacer = strings.NewReplacer("œ", "oe", "æ", "ae", "ß", "ss")

// Normalize canonicalizes a food name for comparison:
// "Épinard-Frisé" and "epinard  frise" both become "epinard frise".
// The result only contains lowercase ASCII letters, digits and single spaces.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	lowered := ligatureReplacer.Replace(strings.ToLower(s))
	stripped, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		stripped = lowered
	}

	result := nonAlphanumericRegex.ReplaceAllString(stripped, " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
