// Package stt defines the Provider interface for speech-to-text backends.
//
// The kiosk records a fixed-duration utterance and transcribes it as one
// batch, so the interface is a single blocking call rather than a stream:
// raw PCM in, hypothesis text out. Implementations wrap a transcription
// engine (a whisper.cpp server over HTTP, or the in-process CGO bindings)
// and must be safe for concurrent use.
package stt

import "context"

// Provider is the abstraction over any speech-to-text backend.
type Provider interface {
	// Transcribe converts one recorded utterance of 16-bit signed
	// little-endian PCM audio into its text hypothesis. An empty string
	// with a nil error means the engine heard nothing usable; callers
	// treat that as "no answer resolved", not as a failure.
	//
	// The call blocks until the engine returns. There is no cancellation
	// of an in-progress inference beyond ctx, which implementations should
	// check at their request boundaries.
	Transcribe(ctx context.Context, pcm []byte) (string, error)
}
