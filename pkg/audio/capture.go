package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Compile-time interface assertion.
var _ Recorder = (*ALSARecorder)(nil)

const (
	defaultDevice  = "default"
	defaultWindow  = 5 * time.Second
	captureRate    = 16000
	arecordBinary  = "arecord"
	soxBinary      = "sox"
	captureHWRate  = 48000
	captureHWChans = 2
)

// RecorderOption is a functional option for configuring an ALSARecorder.
type RecorderOption func(*ALSARecorder)

// WithDevice selects the ALSA capture device (arecord -D). Defaults to
// "default".
func WithDevice(device string) RecorderOption {
	return func(r *ALSARecorder) { r.device = device }
}

// WithWindow sets the fixed capture window per utterance. Defaults to 5 s.
func WithWindow(d time.Duration) RecorderOption {
	return func(r *ALSARecorder) { r.window = d }
}

// WithGain applies a sox gain adjustment in dB to the captured audio.
// Defaults to 0 (no adjustment).
func WithGain(db int) RecorderOption {
	return func(r *ALSARecorder) { r.gainDB = db }
}

// ALSARecorder captures fixed-length utterances by piping arecord into sox.
// arecord reads the device at its native rate; sox downmixes and resamples
// to 16 kHz mono signed 16-bit, which it writes as headerless PCM on
// stdout. It is safe for concurrent use: each Record call spawns its own
// process pair.
type ALSARecorder struct {
	device string
	window time.Duration
	gainDB int
}

// NewRecorder creates an ALSARecorder with the given options.
func NewRecorder(opts ...RecorderOption) *ALSARecorder {
	r := &ALSARecorder{
		device: defaultDevice,
		window: defaultWindow,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Record captures one utterance window and returns 16 kHz mono 16-bit PCM.
func (r *ALSARecorder) Record(ctx context.Context) ([]byte, error) {
	seconds := int(r.window.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	record := exec.CommandContext(ctx, arecordBinary, r.recordArgs(seconds)...)
	convert := exec.CommandContext(ctx, soxBinary, r.convertArgs()...)

	pipe, err := record.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("audio: connect capture pipeline: %w", err)
	}
	convert.Stdin = pipe

	var pcm, soxErr bytes.Buffer
	convert.Stdout = &pcm
	convert.Stderr = &soxErr

	if err := record.Start(); err != nil {
		return nil, fmt.Errorf("audio: start %s: %w", arecordBinary, err)
	}
	if err := convert.Start(); err != nil {
		_ = record.Process.Kill()
		_ = record.Wait()
		return nil, fmt.Errorf("audio: start %s: %w", soxBinary, err)
	}

	recordErr := record.Wait()
	convertErr := convert.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if recordErr != nil {
		return nil, fmt.Errorf("audio: %s: %w", arecordBinary, recordErr)
	}
	if convertErr != nil {
		return nil, fmt.Errorf("audio: %s: %w (%s)", soxBinary, convertErr, bytes.TrimSpace(soxErr.Bytes()))
	}
	return pcm.Bytes(), nil
}

// recordArgs builds the arecord invocation: a fixed-duration WAV stream on
// stdout at the device's native rate.
func (r *ALSARecorder) recordArgs(seconds int) []string {
	return []string{
		"-q",
		"-D", r.device,
		"-f", "S16_LE",
		"-r", strconv.Itoa(captureHWRate),
		"-c", strconv.Itoa(captureHWChans),
		"-d", strconv.Itoa(seconds),
		"-t", "wav",
		"-",
	}
}

// convertArgs builds the sox invocation: WAV on stdin, headerless 16 kHz
// mono signed 16-bit PCM on stdout.
func (r *ALSARecorder) convertArgs() []string {
	args := []string{
		"-q",
		"-t", "wav", "-",
		"-t", "raw",
		"-r", strconv.Itoa(captureRate),
		"-c", "1",
		"-b", "16",
		"-e", "signed-integer",
		"-",
	}
	if r.gainDB != 0 {
		args = append(args, "gain", strconv.Itoa(r.gainDB))
	}
	return args
}
