// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lock

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// MODES
// =============================================================================

// Mode is the lock session state.
type Mode int

const (
	// ModeIdle shows the lock screen and only accepts Enter.
	ModeIdle Mode = iota
	// ModeEditing collects the credential.
	ModeEditing
	// ModeUnlocked is terminal: the credential was accepted.
	ModeUnlocked
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeEditing:
		return "editing"
	case ModeUnlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// =============================================================================
// VERIFIER BOUNDARY
// =============================================================================

// Verifier checks a credential against the host identity backend.
// Implementations must resolve every failure, including an unreachable or
// misconfigured backend, to false.
type Verifier interface {
	Verify(service, identity, secret string) bool
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(service, identity, secret string) bool

// Verify calls f.
func (f VerifierFunc) Verify(service, identity, secret string) bool {
	return f(service, identity, secret)
}

// =============================================================================
// ATTEMPTS AND SNAPSHOTS
// =============================================================================

// Attempt records one submit. It deliberately carries no secret material.
type Attempt struct {
	Number   int
	At       time.Time
	Accepted bool
}

// Snapshot is the immutable state handed to the render boundary.
type Snapshot struct {
	Mode        Mode
	Identity    string
	Mask        string
	Cursor      int
	Status      string
	FailedCount uint
}

// =============================================================================
// SESSION
// =============================================================================

// DefaultFailureFormat renders the status after a rejected attempt.
const DefaultFailureFormat = "Invalid password (%d)"

var (
	ErrEmptyIdentity = errors.New("lock: identity must not be empty")
	ErrEmptyService  = errors.New("lock: service must not be empty")
	ErrNilVerifier   = errors.New("lock: verifier must not be nil")
)

// Session is the lock state machine. It is owned by a single control loop
// and is not safe for concurrent use.
type Session struct {
	identity string
	service  string
	verifier Verifier

	mode     Mode
	editor   Editor
	failed   uint
	status   string
	attempts []Attempt

	maskRune      rune
	failureFormat string
	now           func() time.Time
	onAttempt     func(Attempt)
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used to stamp attempts.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAttemptHook registers a callback invoked after every submit.
func WithAttemptHook(fn func(Attempt)) Option {
	return func(s *Session) {
		s.onAttempt = fn
	}
}

// WithMaskRune sets the rune drawn for each credential character.
func WithMaskRune(r rune) Option {
	return func(s *Session) {
		if r != 0 {
			s.maskRune = r
		}
	}
}

// WithFailureFormat sets the status format used after a rejection.
// The format receives the failure count as its only argument.
func WithFailureFormat(format string) Option {
	return func(s *Session) {
		if format != "" {
			s.failureFormat = format
		}
	}
}

// NewSession creates an idle session for identity, checked against service.
func NewSession(identity, service string, v Verifier, opts ...Option) (*Session, error) {
	if identity == "" {
		return nil, ErrEmptyIdentity
	}
	if service == "" {
		return nil, ErrEmptyService
	}
	if v == nil {
		return nil, ErrNilVerifier
	}

	s := &Session{
		identity:      identity,
		service:       service,
		verifier:      v,
		mode:          ModeIdle,
		maskRune:      DefaultMaskRune,
		failureFormat: DefaultFailureFormat,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handle applies one key event and reports whether the session changed.
// Events that do not match a transition in the current mode are ignored.
func (s *Session) Handle(ev KeyEvent) bool {
	if ev.Kind != KindPress {
		return false
	}

	switch s.mode {
	case ModeIdle:
		if ev.Key == KeyEnter {
			s.mode = ModeEditing
			return true
		}
		return false

	case ModeEditing:
		return s.handleEditing(ev)

	default:
		return false
	}
}

func (s *Session) handleEditing(ev KeyEvent) bool {
	switch ev.Key {
	case KeyEnter:
		s.submit()
		return true

	case KeyEscape:
		s.editor.Clear()
		s.status = ""
		s.mode = ModeIdle
		return true

	case KeyChar:
		// A fresh keystroke replaces the failure notice.
		s.status = ""
		s.editor.Insert(ev.Rune)
		return true

	case KeyBackspace:
		before := s.editor.Cursor()
		s.editor.DeleteBeforeCursor()
		return s.editor.Cursor() != before

	case KeyLeft:
		before := s.editor.Cursor()
		s.editor.MoveLeft()
		return s.editor.Cursor() != before

	case KeyRight:
		before := s.editor.Cursor()
		s.editor.MoveRight()
		return s.editor.Cursor() != before
	}
	return false
}

// submit performs exactly one verification for the buffered credential.
func (s *Session) submit() {
	accepted := s.verifier.Verify(s.service, s.identity, s.editor.secret())
	s.editor.Clear()

	if accepted {
		s.status = ""
		s.mode = ModeUnlocked
	} else {
		s.failed++
		s.status = fmt.Sprintf(s.failureFormat, s.failed)
	}

	a := Attempt{
		Number:   len(s.attempts) + 1,
		At:       s.now(),
		Accepted: accepted,
	}
	s.attempts = append(s.attempts, a)
	if s.onAttempt != nil {
		s.onAttempt(a)
	}
}

// Snapshot returns the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Mode:        s.mode,
		Identity:    s.identity,
		Mask:        s.editor.Mask(s.maskRune),
		Cursor:      s.editor.Cursor(),
		Status:      s.status,
		FailedCount: s.failed,
	}
}

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// Unlocked reports whether a credential has been accepted.
func (s *Session) Unlocked() bool { return s.mode == ModeUnlocked }

// FailedCount returns the number of rejected submits.
func (s *Session) FailedCount() uint { return s.failed }

// Status returns the transient status message.
func (s *Session) Status() string { return s.status }

// Identity returns the username the session unlocks for.
func (s *Session) Identity() string { return s.identity }

// Service returns the authentication service name.
func (s *Session) Service() string { return s.service }

// Attempts returns a copy of the attempt history.
func (s *Session) Attempts() []Attempt {
	out := make([]Attempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}
