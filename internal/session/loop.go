package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/apetrei/glas/internal/observe"
	"github.com/apetrei/glas/internal/qa"
	"github.com/apetrei/glas/internal/store"
	"github.com/apetrei/glas/internal/vocab"
	"github.com/apetrei/glas/pkg/audio"
	"github.com/apetrei/glas/pkg/provider/stt"
)

// Gate admits visitors: it blocks for the next identity token and verifies
// it against the student table.
type Gate interface {
	// Await blocks for the next identity token. An empty token with a nil
	// error means the producer could not identify the person.
	Await(ctx context.Context) (string, error)

	// Verify resolves a token to an enrolled student. Returns
	// [store.ErrNotFound] for unenrolled names.
	Verify(ctx context.Context, token string) (*store.Student, error)
}

// Speaker renders one spoken reply. Failures are logged by the loop and
// never end a session.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// QuestionSource is the store subset the loop reads from.
type QuestionSource interface {
	QuestionsByCategory(ctx context.Context, c store.Category) ([]store.QuestionRecord, error)
}

// Option is a functional option for configuring a Loop.
type Option func(*Loop)

// WithClock replaces the wall clock, for tests.
func WithClock(c Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// WithMaxIdle overrides the per-session idle budget.
func WithMaxIdle(d time.Duration) Option {
	return func(l *Loop) { l.maxIdle = d }
}

// WithRetryPause overrides the pause after a fallback reply.
func WithRetryPause(d time.Duration) Option {
	return func(l *Loop) { l.retryPause = d }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

// WithMetrics sets the metric instruments. Defaults to the package-level
// instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(l *Loop) { l.metrics = m }
}

// Loop owns the session state machine. It serves strictly one visitor at a
// time; Run never returns until its context is cancelled or the identity
// channel fails.
type Loop struct {
	gate       Gate
	questions  QuestionSource
	recorder   audio.Recorder
	recognizer stt.Provider
	speaker    Speaker

	clock      Clock
	maxIdle    time.Duration
	retryPause time.Duration
	metrics    *observe.Metrics
	log        *slog.Logger
}

// NewLoop assembles a Loop from its capabilities.
func NewLoop(gate Gate, questions QuestionSource, recorder audio.Recorder, recognizer stt.Provider, speaker Speaker, opts ...Option) *Loop {
	l := &Loop{
		gate:       gate,
		questions:  questions,
		recorder:   recorder,
		recognizer: recognizer,
		speaker:    speaker,
		clock:      realClock{},
		maxIdle:    DefaultMaxIdle,
		retryPause: DefaultRetryPause,
		metrics:    observe.DefaultMetrics(),
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Run serves sessions until ctx is cancelled. It returns the context error
// on cancellation and any identity-channel error; everything else is
// absorbed per turn.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.ServeOne(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// ServeOne handles exactly one session-acquisition attempt: it blocks for
// an identity token, and on successful verification serves the session to
// completion. A rejected attempt (unidentified or unenrolled visitor) is a
// normal nil-error outcome.
func (l *Loop) ServeOne(ctx context.Context) error {
	token, err := l.gate.Await(ctx)
	if err != nil {
		return err
	}

	if token == "" {
		l.reject(ctx, "visitor not identified")
		return nil
	}

	student, err := l.gate.Verify(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		l.reject(ctx, "visitor not enrolled", "token", token)
		return nil
	}
	if err != nil {
		return err
	}

	l.serve(ctx, student)
	return nil
}

// reject speaks the rejection message and records the attempt.
func (l *Loop) reject(ctx context.Context, reason string, args ...any) {
	l.log.Info("session rejected", append([]any{"reason", reason}, args...)...)
	l.metrics.Sessions.Add(ctx, 1, metric.WithAttributes(observe.Attr("outcome", OutcomeRejected)))
	l.say(ctx, RejectionMessage)
}

// serve runs the Active phase for one verified student.
func (l *Loop) serve(ctx context.Context, student *store.Student) {
	ctx, span := observe.StartSpan(ctx, "session.serve")
	defer span.End()

	sess := newSession(student, l.clock.Now())
	log := l.log.With("session_id", sess.ID, "student", student.Name)
	log.Info("session started")

	l.metrics.ActiveSessions.Add(ctx, 1)
	defer l.metrics.ActiveSessions.Add(ctx, -1)

	for {
		if ctx.Err() != nil {
			return
		}

		// Idle expiry is checked first, before the greeting, so a session
		// that sat unserved past its budget never gets a turn.
		if sess.idleExpired(l.clock.Now(), l.maxIdle) {
			log.Info("session idle expired")
			l.metrics.Sessions.Add(ctx, 1, metric.WithAttributes(observe.Attr("outcome", OutcomeIdleExpired)))
			l.say(ctx, IdleMessage)
			return
		}

		if !sess.greeted {
			l.say(ctx, greeting(student.Name))
			sess.greeted = true
		}

		switch l.turn(ctx, sess, log) {
		case OutcomeExit:
			log.Info("session ended by visitor")
			l.metrics.Sessions.Add(ctx, 1, metric.WithAttributes(observe.Attr("outcome", OutcomeExplicitExit)))
			return
		case OutcomeAnswered:
			sess.touch(l.clock.Now())
		case OutcomeFallback:
			// The idle budget is not refreshed: repeated
			// misunderstandings still expire the session.
			l.clock.Sleep(ctx, l.retryPause)
		}
	}
}

// turn runs one capture → recognize → resolve → speak cycle and returns
// its outcome label.
func (l *Loop) turn(ctx context.Context, sess *Session, log *slog.Logger) string {
	ctx, span := observe.StartSpan(ctx, "session.turn", trace.WithAttributes(observe.Attr("session_id", sess.ID)))
	defer span.End()

	start := l.clock.Now()
	outcome := l.runTurn(ctx, log)

	l.metrics.TurnDuration.Record(ctx, l.clock.Now().Sub(start).Seconds())
	l.metrics.Turns.Add(ctx, 1, metric.WithAttributes(observe.Attr("outcome", outcome)))
	return outcome
}

func (l *Loop) runTurn(ctx context.Context, log *slog.Logger) string {
	pcm, err := l.recorder.Record(ctx)
	if err != nil {
		log.Error("audio capture failed", "error", err)
		return l.fallback(ctx)
	}

	recStart := l.clock.Now()
	utterance, err := l.recognizer.Transcribe(ctx, pcm)
	l.metrics.RecognizeDuration.Record(ctx, l.clock.Now().Sub(recStart).Seconds())
	if err != nil {
		log.Error("recognition failed", "error", err)
		return l.fallback(ctx)
	}

	category := qa.Classify(utterance)
	candidates, err := l.questions.QuestionsByCategory(ctx, category)
	if err != nil {
		log.Error("question lookup failed", "category", category, "error", err)
		return l.fallback(ctx)
	}

	match, ok := qa.Resolve(utterance, candidates)
	if !ok {
		log.Info("no answer resolved", "category", category, "utterance", utterance)
		return l.fallback(ctx)
	}

	log.Info("answer resolved", "category", category, "question", match.Question, "score", match.Score)

	if isExitPhrase(match.Answer) {
		l.say(ctx, FarewellMessage)
		return OutcomeExit
	}

	l.say(ctx, match.Answer)
	return OutcomeAnswered
}

// fallback speaks the "could not understand" reply.
func (l *Loop) fallback(ctx context.Context) string {
	l.say(ctx, FallbackMessage)
	return OutcomeFallback
}

// say renders text, absorbing failures: a mute kiosk keeps serving.
func (l *Loop) say(ctx context.Context, text string) {
	if err := l.speaker.Say(ctx, text); err != nil {
		l.log.Warn("spoken reply skipped", "error", err)
	}
}

// isExitPhrase reports whether a resolved answer ends the session. The
// comparison runs on the folded form, so stored casing does not matter.
func isExitPhrase(answer string) bool {
	switch vocab.FoldPhrase(answer) {
	case "exit", "stop":
		return true
	}
	return false
}
