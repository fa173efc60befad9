// Package voice turns text into audible speech by chaining a tts.Provider
// with an audio.Player. The kiosk treats speech output as best effort: a
// failed synthesis or playback is logged and the session carries on, since
// a mute turn is preferable to a dead session.
package voice

import (
	"context"
	"log/slog"
	"time"

	"github.com/apetrei/glas/internal/observe"
	"github.com/apetrei/glas/pkg/audio"
	"github.com/apetrei/glas/pkg/provider/tts"
)

// Speaker synthesises text and plays the resulting clip. Safe for
// concurrent use if its provider and player are.
type Speaker struct {
	tts     tts.Provider
	player  audio.Player
	metrics *observe.Metrics
	log     *slog.Logger
}

// NewSpeaker creates a Speaker. metrics and log may be nil, in which case
// the package defaults are used.
func NewSpeaker(p tts.Provider, player audio.Player, metrics *observe.Metrics, log *slog.Logger) *Speaker {
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Speaker{tts: p, player: player, metrics: metrics, log: log}
}

// Say renders text and plays it, blocking until playback finishes. The
// returned error is informational: callers log it at most, they never
// abort a session over it.
func (s *Speaker) Say(ctx context.Context, text string) error {
	start := time.Now()
	clip, err := s.tts.Synthesize(ctx, text)
	s.metrics.SynthesizeDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		s.log.Error("speech synthesis failed", "error", err, "text_len", len(text))
		return err
	}

	if err := s.player.Play(ctx, clip); err != nil {
		s.log.Error("speech playback failed", "error", err)
		return err
	}
	return nil
}
