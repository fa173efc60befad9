package qa

import (
	"math"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/apetrei/glas/internal/store"
	"github.com/apetrei/glas/internal/vocab"
)

// AcceptThreshold is the minimum fuzzy score for a match to be accepted.
// The comparison is strict: a candidate scoring exactly the threshold is
// rejected and the caller falls back to the "could not understand" reply.
const AcceptThreshold = 70

// Match is the outcome of resolving an utterance against one category's
// candidates.
type Match struct {
	// Question is the original (unfolded) stored question that matched.
	Question string

	// Answer is the stored answer text.
	Answer string

	// Score is the 0–100 similarity between the folded utterance and the
	// folded question.
	Score int
}

// Resolve finds the stored answer that best matches utterance among
// candidates. It returns false when the utterance is empty or
// whitespace-only, when there are no candidates, or when the best score
// does not exceed [AcceptThreshold].
//
// Candidates are re-folded on every call rather than indexed up front:
// category tables are small and scanned once per spoken turn, so the
// simplicity is worth the repeated work. When two folded questions
// collide, the later row wins the map slot (a data-quality situation, not
// an error). Ties on score keep the earliest candidate in scan order,
// which is stable because the store returns rows in insertion order.
func Resolve(utterance string, candidates []store.QuestionRecord) (Match, bool) {
	if strings.TrimSpace(utterance) == "" || len(candidates) == 0 {
		return Match{}, false
	}

	query := vocab.FoldPhrase(utterance)
	if query == "" {
		return Match{}, false
	}

	type entry struct {
		question string
		answer   string
	}
	folded := make(map[string]entry, len(candidates))
	var order []string
	for _, c := range candidates {
		key := vocab.FoldPhrase(c.Question)
		if key == "" {
			continue
		}
		if _, seen := folded[key]; !seen {
			order = append(order, key)
		}
		folded[key] = entry{question: c.Question, answer: c.Answer}
	}

	best := Match{Score: -1}
	for _, key := range order {
		if s := Score(query, key); s > best.Score {
			e := folded[key]
			best = Match{Question: e.question, Answer: e.answer, Score: s}
		}
	}

	if best.Score <= AcceptThreshold {
		return Match{}, false
	}
	return best, true
}

// Score computes a 0–100 similarity between two folded strings as the
// better of two Levenshtein ratios: one over the strings as given and one
// over their space-sorted token forms (so word order does not dominate).
// Higher is more similar; identical strings score 100.
func Score(a, b string) int {
	s := levenshteinRatio(a, b)
	if ts := levenshteinRatio(sortTokens(a), sortTokens(b)); ts > s {
		s = ts
	}
	return s
}

// levenshteinRatio maps edit distance onto a 0–100 scale relative to the
// longer string.
func levenshteinRatio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	d := matchr.Levenshtein(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(longest))))
}

// sortTokens returns the string's whitespace-separated tokens sorted and
// re-joined with single spaces.
func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
