// Package mock provides scripted audio.Recorder and audio.Player
// implementations for tests.
package mock

import (
	"context"
	"sync"

	"github.com/apetrei/glas/pkg/audio"
)

// Compile-time interface checks.
var (
	_ audio.Recorder = (*Recorder)(nil)
	_ audio.Player   = (*Player)(nil)
)

// Recorder replays a fixed sequence of capture results. After the script is
// exhausted it keeps returning the zero result. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	script []RecordResult
	nCalls int
}

// RecordResult is one scripted Record outcome.
type RecordResult struct {
	PCM []byte
	Err error
}

// NewRecorder creates a Recorder replaying the given results in order.
func NewRecorder(script ...RecordResult) *Recorder {
	return &Recorder{script: script}
}

// Record returns the next scripted result.
func (r *Recorder) Record(_ context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.nCalls
	r.nCalls++
	if i >= len(r.script) {
		return nil, nil
	}
	return r.script[i].PCM, r.script[i].Err
}

// Calls reports how many times Record was invoked.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nCalls
}

// Player records every clip it is asked to play. Safe for concurrent use.
type Player struct {
	// Err, when non-nil, is returned from every Play call.
	Err error

	mu    sync.Mutex
	clips [][]byte
}

// Play records clip and returns the configured error.
func (p *Player) Play(_ context.Context, clip []byte) error {
	p.mu.Lock()
	p.clips = append(p.clips, clip)
	p.mu.Unlock()
	return p.Err
}

// Clips returns a copy of every clip passed to Play, in order.
func (p *Player) Clips() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.clips))
	copy(out, p.clips)
	return out
}
