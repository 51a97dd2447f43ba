package calendar

import (
	"strings"
	"unicode"
)

// Organization abbreviations that survive title-casing untouched.
// Matching is exact and case sensitive: "fc" is a regular token.
var abbreviations = map[string]struct{}{
	"FC":       {},
	"UEFA":     {},
	"FIFA":     {},
	"AC":       {},
	"SC":       {},
	"AFC":      {},
	"CONCACAF": {},
	"CAF":      {},
	"OFC":      {},
	"CONMEBOL": {},
	"CECAFA":   {},
	"UAFA":     {},
	"UNAF":     {},
}

// NormalizeText trims s and title-cases every whitespace separated token,
// leaving known organization abbreviations alone. Runs of whitespace
// collapse to a single space; empty input stays empty, so a missing value
// has exactly one representation downstream.
func NormalizeText(s string) string {
	terms := strings.Fields(s)
	for i, term := range terms {
		if _, ok := abbreviations[term]; ok {
			continue
		}
		terms[i] = titleTerm(term)
	}
	return strings.Join(terms, " ")
}

func titleTerm(term string) string {
	r := []rune(strings.ToLower(term))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
