// Package mock provides a scripted stt.Provider for tests.
package mock

import (
	"context"
	"sync"

	"github.com/apetrei/glas/pkg/provider/stt"
)

// Compile-time interface check.
var _ stt.Provider = (*Provider)(nil)

// Provider replays a fixed sequence of transcription results. After the
// script is exhausted it keeps returning the zero result. All methods are
// safe for concurrent use.
type Provider struct {
	mu      sync.Mutex
	script  []Result
	nCalls  int
	lastPCM []byte
}

// Result is one scripted Transcribe outcome.
type Result struct {
	Text string
	Err  error
}

// New creates a Provider replaying the given results in order.
func New(script ...Result) *Provider {
	return &Provider{script: script}
}

// Transcribe returns the next scripted result.
func (p *Provider) Transcribe(_ context.Context, pcm []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastPCM = pcm
	i := p.nCalls
	p.nCalls++
	if i >= len(p.script) {
		return "", nil
	}
	return p.script[i].Text, p.script[i].Err
}

// Calls reports how many times Transcribe was invoked.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nCalls
}
