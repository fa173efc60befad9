package qa_test

import (
	"strings"
	"testing"

	"github.com/apetrei/glas/internal/qa"
	"github.com/apetrei/glas/internal/store"
)

func record(question, answer string) store.QuestionRecord {
	return store.QuestionRecord{Category: store.CategoryGeneral, Question: question, Answer: answer}
}

func TestResolveEmptyUtteranceShortCircuits(t *testing.T) {
	t.Parallel()

	candidates := []store.QuestionRecord{record("Unde este biblioteca?", "Etajul doi")}
	for _, utterance := range []string{"", "   ", "\t\n"} {
		if _, ok := qa.Resolve(utterance, candidates); ok {
			t.Errorf("Resolve(%q) matched, want no match", utterance)
		}
	}
}

func TestResolveNoCandidates(t *testing.T) {
	t.Parallel()

	if _, ok := qa.Resolve("unde este biblioteca", nil); ok {
		t.Error("Resolve with no candidates matched")
	}
}

func TestResolveExactQuestion(t *testing.T) {
	t.Parallel()

	candidates := []store.QuestionRecord{
		record("Unde este biblioteca?", "Etajul doi"),
		record("Când este examenul?", "În iunie"),
	}

	m, ok := qa.Resolve("unde este biblioteca", candidates)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Answer != "Etajul doi" {
		t.Errorf("Answer = %q, want %q", m.Answer, "Etajul doi")
	}
	if m.Score != 100 {
		t.Errorf("Score = %d, want 100", m.Score)
	}
}

func TestResolveToleratesRecognitionNoise(t *testing.T) {
	t.Parallel()

	candidates := []store.QuestionRecord{
		record("Unde este laboratorul de programare?", "Sala 7"),
		record("Când este examenul final?", "În iunie"),
	}

	m, ok := qa.Resolve("unde este laborator programare", candidates)
	if !ok {
		t.Fatal("expected a fuzzy match")
	}
	if m.Answer != "Sala 7" {
		t.Errorf("Answer = %q, want %q (score %d)", m.Answer, "Sala 7", m.Score)
	}
}

func TestResolveThresholdBoundary(t *testing.T) {
	t.Parallel()

	base := strings.Repeat("a", 100)

	// 30 substitutions → ratio exactly 70: must be rejected (strict >).
	at70 := strings.Repeat("b", 30) + strings.Repeat("a", 70)
	if _, ok := qa.Resolve(at70, []store.QuestionRecord{record(base, "answer")}); ok {
		t.Error("score of exactly 70 was accepted, want rejected")
	}

	// 29 substitutions → ratio 71: must be accepted.
	at71 := strings.Repeat("b", 29) + strings.Repeat("a", 71)
	m, ok := qa.Resolve(at71, []store.QuestionRecord{record(base, "answer")})
	if !ok {
		t.Fatal("score of 71 was rejected, want accepted")
	}
	if m.Score != 71 {
		t.Errorf("Score = %d, want 71", m.Score)
	}
}

func TestResolveTieKeepsFirstCandidate(t *testing.T) {
	t.Parallel()

	// Both candidates are the same edit distance from the query; the
	// earlier row in scan order must win.
	candidates := []store.QuestionRecord{
		record("sala unua", "first"),
		record("sala unuz", "second"),
	}

	m, ok := qa.Resolve("sala unux", candidates)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Answer != "first" {
		t.Errorf("Answer = %q, want the first candidate in scan order", m.Answer)
	}
}

func TestResolveCollisionLastWriteWins(t *testing.T) {
	t.Parallel()

	// Same question text after folding: the later row overwrites the map
	// slot.
	candidates := []store.QuestionRecord{
		record("Unde este sala?", "old"),
		record("unde este sala", "new"),
	}

	m, ok := qa.Resolve("unde este sala", candidates)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Answer != "new" {
		t.Errorf("Answer = %q, want %q", m.Answer, "new")
	}
}

func TestScoreWordOrderInsensitive(t *testing.T) {
	t.Parallel()

	if s := qa.Score("examenul când este", "când este examenul"); s != 100 {
		t.Errorf("token-sorted score = %d, want 100", s)
	}
	if s := qa.Score("", ""); s != 100 {
		t.Errorf("Score of two empty strings = %d, want 100", s)
	}
	if s := qa.Score("abc", ""); s != 0 {
		t.Errorf("Score against empty = %d, want 0", s)
	}
}
