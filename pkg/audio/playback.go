package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Compile-time interface assertion.
var _ Player = (*CommandPlayer)(nil)

const defaultPlayerBinary = "aplay"

// PlayerOption is a functional option for configuring a CommandPlayer.
type PlayerOption func(*CommandPlayer)

// WithPlayerCommand overrides the playback binary and its leading arguments
// (e.g., "mpg123" for MP3 clips). The clip is always piped on stdin.
func WithPlayerCommand(binary string, args ...string) PlayerOption {
	return func(p *CommandPlayer) {
		p.binary = binary
		p.args = args
	}
}

// CommandPlayer plays clips by piping them into an external player process.
// The default invocation is "aplay -q -", which handles the WAV clips the
// synthesis server produces. It is safe for concurrent use: each Play call
// spawns its own process.
type CommandPlayer struct {
	binary string
	args   []string
}

// NewPlayer creates a CommandPlayer with the given options.
func NewPlayer(opts ...PlayerOption) *CommandPlayer {
	p := &CommandPlayer{
		binary: defaultPlayerBinary,
		args:   []string{"-q", "-"},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Play pipes clip into the player process and blocks until it exits.
func (p *CommandPlayer) Play(ctx context.Context, clip []byte) error {
	if p.binary == "" {
		return errors.New("audio: no player binary configured")
	}
	if len(clip) == 0 {
		return errors.New("audio: empty clip")
	}

	cmd := exec.CommandContext(ctx, p.binary, p.args...)
	cmd.Stdin = bytes.NewReader(clip)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("audio: %s: %w (%s)", p.binary, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}
