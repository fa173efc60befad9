package session

import (
	"context"
	"time"
)

// Clock abstracts wall time and sleeping so the state machine's idle and
// pause behaviour can be tested with simulated time.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration)
}

// realClock is the production Clock.
type realClock struct{}

// Compile-time interface check.
var _ Clock = realClock{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
