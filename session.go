package fluentdoc

import (
	"context"
	"time"
)

// SessionState describes the lifecycle position of a browsing session.
type SessionState string

// Session lifecycle states.
const (
	StateUninitialized SessionState = "uninitialized"
	StateEstablished   SessionState = "established"
	StateBlocked       SessionState = "blocked"
)

// DefaultIdleExpiry is how long an established session may sit idle before
// EnsureEstablished re-bootstraps it.
const DefaultIdleExpiry = 10 * time.Minute

// Session is an established browsing context with anonymous access to the
// portal's secured content. A Session is owned exclusively by the
// SessionManager that created it and must never be copied or shared across
// managers.
type Session struct {
	State         SessionState
	EstablishedAt time.Time
	BlockedSince  time.Time
	LastActivity  time.Time
}

// Established reports whether the session can be used for navigation.
func (s *Session) Established() bool {
	return s != nil && s.State == StateEstablished
}

// MarkActive records a successful navigation.
func (s *Session) MarkActive(now time.Time) {
	s.LastActivity = now
}

// MarkBlocked transitions the session to Blocked at the given time.
// Marking an already blocked session keeps the original BlockedSince.
func (s *Session) MarkBlocked(now time.Time) {
	if s.State == StateBlocked {
		return
	}
	s.State = StateBlocked
	s.BlockedSince = now
}

// IdleFor returns how long the session has been idle at the given time.
func (s *Session) IdleFor(now time.Time) time.Duration {
	last := s.LastActivity
	if last.IsZero() {
		last = s.EstablishedAt
	}
	return now.Sub(last)
}

// SessionManager establishes and maintains the browsing session used to
// reach secured content. It is the only component allowed to create or
// destroy a Session, and it hides the portal's bot-detection
// countermeasures behind this interface so they can be swapped without
// touching the rest of the engine.
type SessionManager interface {
	// Establish bootstraps a new session via the portal landing page.
	// Returns EBLOCKED after the bootstrap retry budget is exhausted.
	Establish(ctx context.Context) (*Session, error)

	// EnsureEstablished verifies the session is usable, re-bootstrapping
	// only if it is blocked or has exceeded the idle-expiry threshold.
	// For a healthy session this is a cheap idempotent check.
	EnsureEstablished(ctx context.Context, session *Session) error

	// Teardown destroys the session and releases its browsing context.
	// Teardown is idempotent.
	Teardown(session *Session) error
}
