package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/apetrei/glas/internal/vocab"
)

// Transliterator converts a canonical token into a phonetic transcription
// the recogniser understands. Implementations wrap an external
// grapheme-to-phoneme translator and may be stubbed in tests.
type Transliterator interface {
	// Transliterate returns the phone string for token. An error skips the
	// token without aborting the surrounding maintenance pass.
	Transliterate(token string) (string, error)
}

// Corpus supplies the raw text whose vocabulary must be pronounceable.
// The store's question tables implement it.
type Corpus interface {
	// AllQuestionText returns every question and answer string across all
	// categories. Ordering is irrelevant; the maintainer reduces the result
	// to a word set.
	AllQuestionText(ctx context.Context) ([]string, error)
}

// Maintainer grows a [Dictionary] from the knowledge base. It is intended
// to run to completion before the session loop starts serving; the
// dictionary's own locking keeps the contract safe if it is ever re-run
// while serving.
type Maintainer struct {
	corpus Corpus
	dict   *Dictionary
	trans  Transliterator
}

// NewMaintainer creates a Maintainer over the given corpus, dictionary,
// and transliterator.
func NewMaintainer(corpus Corpus, dict *Dictionary, trans Transliterator) *Maintainer {
	return &Maintainer{corpus: corpus, dict: dict, trans: trans}
}

// Reconcile scans the knowledge base, normalises every word, and appends a
// phonetic entry for each token the dictionary does not yet contain. It
// returns the number of entries added.
//
// A transliteration failure for a single token is logged and skipped; one
// bad word must not block dictionary growth for the rest of the corpus.
// Running Reconcile again on an unchanged knowledge base adds nothing.
func (m *Maintainer) Reconcile(ctx context.Context) (int, error) {
	texts, err := m.corpus.AllQuestionText(ctx)
	if err != nil {
		return 0, fmt.Errorf("dictionary: scan knowledge base: %w", err)
	}

	words := make(map[string]struct{})
	for _, text := range texts {
		for _, w := range strings.Fields(text) {
			words[w] = struct{}{}
		}
	}

	added := 0
	for word := range words {
		if err := ctx.Err(); err != nil {
			return added, err
		}

		token, ok := vocab.Normalize(word)
		if !ok {
			continue
		}
		if m.dict.Contains(token) {
			continue
		}

		phones, err := m.trans.Transliterate(token)
		if err != nil {
			slog.Warn("phonetic transliteration failed, skipping token",
				"token", token, "err", err)
			continue
		}
		if err := m.dict.Append(token, phones); err != nil {
			return added, err
		}
		added++
		slog.Info("dictionary entry added", "token", token, "phones", phones)
	}

	return added, nil
}
