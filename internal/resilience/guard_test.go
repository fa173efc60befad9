package resilience_test

import (
	"context"
	"testing"
	"time"

	"github.com/apetrei/glas/internal/resilience"
	sttmock "github.com/apetrei/glas/pkg/provider/stt/mock"
	ttsmock "github.com/apetrei/glas/pkg/provider/tts/mock"
)

func TestRecognizerForwardsTranscription(t *testing.T) {
	t.Parallel()

	inner := sttmock.New(sttmock.Result{Text: "salut"})
	r := resilience.NewRecognizer(inner, resilience.CircuitBreakerConfig{})

	text, err := r.Transcribe(context.Background(), []byte{1, 2})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "salut" {
		t.Errorf("text = %q", text)
	}
}

func TestRecognizerFailsFastWhenTripped(t *testing.T) {
	t.Parallel()

	inner := sttmock.New(
		sttmock.Result{Err: context.DeadlineExceeded},
		sttmock.Result{Err: context.DeadlineExceeded},
	)
	r := resilience.NewRecognizer(inner, resilience.CircuitBreakerConfig{
		MaxFailures:  2,
		ResetTimeout: time.Hour,
	})

	ctx := context.Background()
	_, _ = r.Transcribe(ctx, nil)
	_, _ = r.Transcribe(ctx, nil)

	// The breaker is now open: the backend must not be called again.
	if _, err := r.Transcribe(ctx, nil); err == nil {
		t.Fatal("expected error from open breaker")
	}
	if got := inner.Calls(); got != 2 {
		t.Errorf("backend calls = %d, want 2", got)
	}
}

func TestSynthesizerForwardsClip(t *testing.T) {
	t.Parallel()

	inner := &ttsmock.Provider{Clip: []byte("RIFFclip")}
	s := resilience.NewSynthesizer(inner, resilience.CircuitBreakerConfig{})

	clip, err := s.Synthesize(context.Background(), "La revedere")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(clip) != "RIFFclip" {
		t.Errorf("clip = %q", clip)
	}
}

func TestSynthesizerFailsFastWhenTripped(t *testing.T) {
	t.Parallel()

	inner := &ttsmock.Provider{Err: context.DeadlineExceeded}
	s := resilience.NewSynthesizer(inner, resilience.CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: time.Hour,
	})

	ctx := context.Background()
	_, _ = s.Synthesize(ctx, "unu")
	if _, err := s.Synthesize(ctx, "doi"); err == nil {
		t.Fatal("expected error from open breaker")
	}
	// Only the first call reached the backend.
	if got := len(inner.Texts()); got != 1 {
		t.Errorf("backend calls = %d, want 1", got)
	}
}
