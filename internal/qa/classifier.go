// Package qa turns a recognised utterance into a stored answer: a keyword
// classifier picks which question table to scan, and a fuzzy resolver
// picks the best-matching question from that table.
package qa

import (
	"strings"

	"github.com/apetrei/glas/internal/store"
)

// Rule maps utterance keywords to a question category. Matching is plain
// substring containment on the lowercased utterance.
type Rule struct {
	Keywords []string
	Category store.Category
}

// ClassifierRules is the ordered rule list evaluated by [Classify]. The
// order is load-bearing: the group rule is checked before the series rule,
// so an utterance mentioning both "laborator" and "curs" queries the group
// table. Reordering changes which table is scanned and therefore which
// answers are reachable.
var ClassifierRules = []Rule{
	{Keywords: []string{"lab", "laborator"}, Category: store.CategoryGroup},
	{Keywords: []string{"curs"}, Category: store.CategorySeries},
}

// Classify returns the question category for an utterance: the category of
// the first rule whose keyword occurs in the text, or the general category
// when no rule matches.
func Classify(utterance string) store.Category {
	text := strings.ToLower(utterance)
	for _, rule := range ClassifierRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return store.CategoryGeneral
}
