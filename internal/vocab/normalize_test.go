package vocab_test

import (
	"testing"

	"github.com/apetrei/glas/internal/vocab"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "plain word", in: "Laborator", want: "laborator", ok: true},
		{name: "diacritics kept", in: "Știință", want: "știință", ok: true},
		{name: "punctuation stripped", in: "curs,", want: "curs", ok: true},
		{name: "small cardinal", in: "7", want: "șapte", ok: true},
		{name: "year expanded", in: "2025", want: "douămiidouăzecișicinci", ok: true},
		{name: "year with punctuation", in: "2024?", want: "douămiidouăzecișipatru", ok: true},
		{name: "numeral outside table", in: "137", want: "137", ok: true},
		{name: "mixed alphanumeric is not a numeral", in: "2025km", want: "2025km", ok: true},
		{name: "leading zero resolves via value", in: "07", want: "șapte", ok: true},
		{name: "only punctuation", in: "!?...", want: "", ok: false},
		{name: "empty", in: "", want: "", ok: false},
		{name: "whitespace only", in: "   ", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := vocab.Normalize(tt.in)
			if ok != tt.ok {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"2023", "Grupa-30234", "șapte", "??", "An 2"} {
		first, okFirst := vocab.Normalize(in)
		for range 5 {
			got, ok := vocab.Normalize(in)
			if got != first || ok != okFirst {
				t.Fatalf("Normalize(%q) not deterministic: (%q,%v) then (%q,%v)", in, first, okFirst, got, ok)
			}
		}
	}
}

func TestFoldPhrase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Când începe cursul?", "când începe cursul"},
		{"  Unde e sala 2025?  ", "unde e sala 2025"},
		{"EXIT", "exit"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := vocab.FoldPhrase(tt.in); got != tt.want {
			t.Errorf("FoldPhrase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
