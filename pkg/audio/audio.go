// Package audio provides microphone capture and loudspeaker playback for
// the kiosk, both implemented as thin wrappers around the ALSA command-line
// tools. Capture shells out to an arecord | sox pipeline that downsamples
// the device stream to the 16 kHz mono 16-bit PCM the recognizer expects;
// playback pipes encoded clips into aplay.
//
// The subprocess approach keeps the Go binary free of ALSA cgo bindings and
// matches how the kiosk hardware is provisioned: both tools ship with the
// base image.
package audio

import "context"

// Recorder captures a single utterance from the microphone.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// Record captures one utterance and returns it as raw little-endian
	// 16-bit mono PCM at 16 kHz. A nil error with empty output means the
	// window elapsed without usable audio.
	Record(ctx context.Context) ([]byte, error)
}

// Player renders one encoded audio clip on the loudspeaker.
// Implementations must be safe for concurrent use.
type Player interface {
	// Play blocks until the clip has finished playing or ctx is done.
	Play(ctx context.Context, clip []byte) error
}
