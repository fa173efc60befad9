// Package tts defines the Provider interface for text-to-speech backends.
//
// The kiosk speaks one complete reply at a time, so the interface is a
// single blocking call: text in, encoded audio out. Playback is a separate
// concern (see pkg/audio); a synthesis or playback failure is logged by
// the caller and the session continues without the spoken reply.
package tts

import "context"

// Provider is the abstraction over any text-to-speech backend.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Synthesize renders text as a single encoded audio clip (format is
	// implementation-defined: WAV for the Coqui server). Implementations
	// should return an error rather than silent audio when the backend
	// rejects the request.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
