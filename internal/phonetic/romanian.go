// Package phonetic provides a rule-based Romanian grapheme-to-phoneme
// transliterator producing CMU-style phone strings for the pronunciation
// dictionary.
//
// Romanian orthography is close to phonemic, so a letter-to-phone table
// plus a handful of digraph rules (ce/ci, ge/gi, che/chi, ghe/ghi) covers
// the knowledge-base vocabulary. Tokens containing runes with no rule
// (digits that passed through numeral normalisation unexpanded, foreign
// letters such as q or w in loanwords) yield an error; the dictionary
// maintainer logs and skips those.
package phonetic

import (
	"fmt"
	"strings"

	"github.com/apetrei/glas/internal/dictionary"
)

// Compile-time assertion that Romanian satisfies dictionary.Transliterator.
var _ dictionary.Transliterator = (*Romanian)(nil)

// phones maps single Romanian letters to their CMU-style phone. Digraphs
// are handled before this table is consulted.
var phones = map[rune]string{
	'a': "AH",
	'ă': "AH",
	'â': "IH",
	'î': "IH",
	'b': "B",
	'd': "D",
	'e': "EH",
	'f': "F",
	'h': "HH",
	'i': "IY",
	'j': "ZH",
	'k': "K",
	'l': "L",
	'm': "M",
	'n': "N",
	'o': "OW",
	'p': "P",
	'r': "R",
	's': "S",
	'ș': "SH",
	't': "T",
	'u': "UW",
	'v': "V",
	'z': "Z",
}

// Romanian is a stateless [dictionary.Transliterator]. The zero value is
// ready to use.
type Romanian struct{}

// New returns a Romanian transliterator.
func New() *Romanian { return &Romanian{} }

// Transliterate converts a lowercase canonical token into a space-separated
// phone string. It returns an error when the token contains a rune with no
// phonetic rule; callers treat that as a skip, not a fatal failure.
func (Romanian) Transliterate(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("phonetic: empty token")
	}

	runes := []rune(token)
	var out []string

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch r {
		case 'c':
			switch {
			case next == 'h': // che/chi → hard K
				out = append(out, "K")
				i++
			case next == 'e' || next == 'i':
				out = append(out, "CH")
			default:
				out = append(out, "K")
			}
		case 'g':
			switch {
			case next == 'h': // ghe/ghi → hard G
				out = append(out, "G")
				i++
			case next == 'e' || next == 'i':
				out = append(out, "JH")
			default:
				out = append(out, "G")
			}
		case 'ț':
			out = append(out, "T", "S")
		case 'x':
			out = append(out, "K", "S")
		default:
			p, ok := phones[r]
			if !ok {
				return "", fmt.Errorf("phonetic: no rule for %q in token %q", r, token)
			}
			out = append(out, p)
		}
	}

	return strings.Join(out, " "), nil
}
