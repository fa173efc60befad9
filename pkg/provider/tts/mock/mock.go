// Package mock provides a recording tts.Provider for tests.
package mock

import (
	"context"
	"sync"

	"github.com/apetrei/glas/pkg/provider/tts"
)

// Compile-time interface check.
var _ tts.Provider = (*Provider)(nil)

// Provider records every synthesised text and returns a fixed clip. All
// methods are safe for concurrent use.
type Provider struct {
	// Clip is returned from every Synthesize call. Defaults to a
	// placeholder when nil.
	Clip []byte

	// Err, when non-nil, is returned from every Synthesize call.
	Err error

	mu    sync.Mutex
	texts []string
}

// Synthesize records text and returns the configured clip or error.
func (p *Provider) Synthesize(_ context.Context, text string) ([]byte, error) {
	p.mu.Lock()
	p.texts = append(p.texts, text)
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	if p.Clip == nil {
		return []byte("audio"), nil
	}
	return p.Clip, nil
}

// Texts returns a copy of every text passed to Synthesize, in order.
func (p *Provider) Texts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.texts))
	copy(out, p.texts)
	return out
}
