// Package vocab provides the vocabulary normalisation rules shared by the
// dictionary maintainer and the answer resolver.
//
// Two folding operations are exposed:
//
//   - [Normalize] canonicalises a single raw word for dictionary growth:
//     lowercasing, stripping everything outside the Romanian lowercase
//     alphabet and digits, and expanding known numerals to their written
//     form. It is deterministic and side-effect-free so that repeated
//     dictionary reconciliation stays idempotent.
//
//   - [FoldPhrase] canonicalises a whole utterance or question string for
//     fuzzy comparison: lowercasing and removing punctuation while keeping
//     word characters and spaces. No numeral expansion is applied.
package vocab

import (
	"strconv"
	"strings"
	"unicode"
)

// numberWords maps small cardinals and recent calendar years to their
// Romanian written form. Numerals outside this table pass through
// unchanged as digits — a documented limitation, not a failure.
var numberWords = map[int]string{
	1:  "întâi",
	2:  "doi",
	3:  "trei",
	4:  "patru",
	5:  "cinci",
	6:  "șase",
	7:  "șapte",
	8:  "opt",
	9:  "nouă",
	10: "zece",
	11: "unsprezece",
	12: "doispreze",
	13: "treisprezece",
	14: "patrusprezece",
	15: "cincisprezece",
	16: "șasesprezece",
	17: "șaptesprezece",
	18: "optsprezece",
	19: "nouăsprezece",
	20: "douăzeci",
	21: "douăzecișiunu",
	22: "douăzecișidoi",
	23: "douăzecișitrei",
	24: "douăzecișipatru",

	2020: "douămiidouăzeci",
	2021: "douămiidouăzecișiunu",
	2022: "douămiidouăzecișidoi",
	2023: "douămiidouăzecișitrei",
	2024: "douămiidouăzecișipatru",
	2025: "douămiidouăzecișicinci",
	2026: "douămiidouăzecișișase",
	2027: "douămiidouăzecișișapte",
	2028: "douămiidouăzecișiopt",
}

// Normalize canonicalises a single raw word. It lowercases, strips all
// characters outside [a-zăîșțâ0-9], and expands purely numeric results
// through the numeral table. The second return value is false when nothing
// remains after stripping — callers must skip such words.
func Normalize(word string) (string, bool) {
	w := strip(strings.ToLower(strings.TrimSpace(word)))
	if w == "" {
		return "", false
	}
	if isDigits(w) {
		if n, err := strconv.Atoi(w); err == nil {
			if expanded, ok := numberWords[n]; ok {
				return expanded, true
			}
		}
		// Not in the table (or too large to parse): keep the digits.
		return w, true
	}
	return w, true
}

// FoldPhrase canonicalises a whole string for fuzzy comparison: lowercases
// and removes every rune that is neither a word character (letter, digit,
// underscore) nor whitespace, then trims surrounding whitespace. Unlike
// [Normalize] it preserves interior spaces and performs no numeral
// expansion.
func FoldPhrase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// strip removes every rune outside the lowercase Romanian alphabet and the
// decimal digits. Input must already be lowercased.
func strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'ă' || r == 'î' || r == 'ș' || r == 'ț' || r == 'â':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isDigits reports whether s consists solely of ASCII decimal digits.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
