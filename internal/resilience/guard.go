package resilience

import (
	"context"

	"github.com/apetrei/glas/pkg/provider/stt"
	"github.com/apetrei/glas/pkg/provider/tts"
)

// Compile-time interface assertions.
var (
	_ stt.Provider = (*Recognizer)(nil)
	_ tts.Provider = (*Synthesizer)(nil)
)

// Recognizer wraps an [stt.Provider] with a circuit breaker. When the
// recognition backend trips the breaker, Transcribe fails fast with
// [ErrCircuitOpen] and the session loop falls back to its "could not
// understand" reply instead of stalling the turn on a dead server.
type Recognizer struct {
	inner   stt.Provider
	breaker *CircuitBreaker
}

// NewRecognizer wraps p with a breaker configured by cfg. An empty
// cfg.Name defaults to "stt".
func NewRecognizer(p stt.Provider, cfg CircuitBreakerConfig) *Recognizer {
	if cfg.Name == "" {
		cfg.Name = "stt"
	}
	return &Recognizer{inner: p, breaker: NewCircuitBreaker(cfg)}
}

// Transcribe forwards to the wrapped provider through the breaker.
func (r *Recognizer) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	var text string
	err := r.breaker.Execute(func() error {
		var err error
		text, err = r.inner.Transcribe(ctx, pcm)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Close releases the wrapped provider when it holds resources.
func (r *Recognizer) Close() error {
	if c, ok := r.inner.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Synthesizer wraps a [tts.Provider] with a circuit breaker. A tripped
// breaker turns every Synthesize into an immediate error, which the
// speaker layer already absorbs as a skipped spoken reply.
type Synthesizer struct {
	inner   tts.Provider
	breaker *CircuitBreaker
}

// NewSynthesizer wraps p with a breaker configured by cfg. An empty
// cfg.Name defaults to "tts".
func NewSynthesizer(p tts.Provider, cfg CircuitBreakerConfig) *Synthesizer {
	if cfg.Name == "" {
		cfg.Name = "tts"
	}
	return &Synthesizer{inner: p, breaker: NewCircuitBreaker(cfg)}
}

// Synthesize forwards to the wrapped provider through the breaker.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var clip []byte
	err := s.breaker.Execute(func() error {
		var err error
		clip, err = s.inner.Synthesize(ctx, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return clip, nil
}
