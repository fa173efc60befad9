// Package session drives the kiosk's conversational state machine:
//
//	AwaitingIdentity → Verifying → Active → (IdleExpired | ExplicitExit) → AwaitingIdentity
//
// One session is active at a time. The loop blocks on the identity gate,
// verifies the person against the student table, then serves spoken turns
// until the visitor says goodbye or the idle budget runs out. All per-turn
// failures are absorbed with a spoken fallback; only identity-channel and
// cancellation errors surface to the caller.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apetrei/glas/internal/store"
)

// Spoken user-facing messages. The kiosk speaks Romanian.
const (
	// GreetingFormat is spoken once per session, personalised with the
	// student's name.
	GreetingFormat = "Bună, %s! Cu ce te pot ajuta?"

	// RejectionMessage is spoken when the person cannot be identified or
	// is not enrolled.
	RejectionMessage = "Îmi pare rău, nu te-am putut identifica."

	// IdleMessage is spoken when the idle budget expires.
	IdleMessage = "Sesiunea s-a încheiat din lipsă de activitate. La revedere!"

	// FarewellMessage is spoken when the visitor explicitly ends the
	// session.
	FarewellMessage = "La revedere!"

	// FallbackMessage is spoken when no stored answer matches the
	// utterance.
	FallbackMessage = "Ne pare rău, nu am înțeles întrebarea. Te rog să încerci din nou."
)

const (
	// DefaultMaxIdle is how long a session survives without a completed
	// turn.
	DefaultMaxIdle = 90 * time.Second

	// DefaultRetryPause is the breather after a fallback reply, giving the
	// visitor time to rephrase before the next capture window opens.
	DefaultRetryPause = 3 * time.Second
)

// Outcome labels attached to session and turn metrics.
const (
	OutcomeRejected     = "rejected"
	OutcomeIdleExpired  = "idle_expired"
	OutcomeExplicitExit = "explicit_exit"

	OutcomeAnswered = "answered"
	OutcomeFallback = "fallback"
	OutcomeExit     = "exit"
)

// greeting builds the personalised session greeting.
func greeting(name string) string {
	return fmt.Sprintf(GreetingFormat, name)
}

// Session is the in-memory state of one served visitor. It exists only for
// the duration of one Active phase; nothing is persisted.
type Session struct {
	// ID identifies the session in logs and traces.
	ID string

	// Student is the verified visitor.
	Student *store.Student

	// lastInteraction is refreshed only after a fully completed turn.
	// Fallback turns deliberately do not refresh it, so a string of
	// misunderstandings still expires the session.
	lastInteraction time.Time

	greeted bool
}

// newSession creates a Session for student with a fresh idle budget.
func newSession(student *store.Student, now time.Time) *Session {
	return &Session{
		ID:              uuid.NewString(),
		Student:         student,
		lastInteraction: now,
	}
}

// idleExpired reports whether the idle budget is exhausted at now.
func (s *Session) idleExpired(now time.Time, maxIdle time.Duration) bool {
	return now.Sub(s.lastInteraction) > maxIdle
}

// touch refreshes the idle budget after a completed turn.
func (s *Session) touch(now time.Time) {
	s.lastInteraction = now
}
