// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier accepts a single secret and records every call.
type fakeVerifier struct {
	accept string
	calls  []call
}

type call struct {
	service, identity, secret string
}

func (f *fakeVerifier) Verify(service, identity, secret string) bool {
	f.calls = append(f.calls, call{service, identity, secret})
	return secret == f.accept
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *fakeVerifier) {
	t.Helper()
	v := &fakeVerifier{accept: "correct horse"}
	s, err := NewSession("alice", "ttylock", v, opts...)
	require.NoError(t, err)
	return s, v
}

func typeInto(s *Session, text string) {
	for _, r := range text {
		s.Handle(Char(r))
	}
}

func submit(s *Session, text string) {
	typeInto(s, text)
	s.Handle(Press(KeyEnter))
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestNewSession_Validation(t *testing.T) {
	v := VerifierFunc(func(string, string, string) bool { return false })

	_, err := NewSession("", "ttylock", v)
	assert.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = NewSession("alice", "", v)
	assert.ErrorIs(t, err, ErrEmptyService)

	_, err = NewSession("alice", "ttylock", nil)
	assert.ErrorIs(t, err, ErrNilVerifier)

	s, err := NewSession("alice", "ttylock", v)
	require.NoError(t, err)
	assert.Equal(t, ModeIdle, s.Mode())
	assert.Equal(t, "alice", s.Identity())
	assert.Equal(t, "ttylock", s.Service())
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func TestSession_IdleIgnoresEverythingButEnter(t *testing.T) {
	s, v := newTestSession(t)
	before := s.Snapshot()

	events := []KeyEvent{
		Char('x'), Press(KeyEscape), Press(KeyBackspace),
		Press(KeyLeft), Press(KeyRight), Press(KeyUnknown),
	}
	for _, ev := range events {
		assert.False(t, s.Handle(ev), "event %v", ev.Key)
	}

	assert.Equal(t, before, s.Snapshot())
	assert.Empty(t, v.calls)
}

func TestSession_IgnoresNonPressEvents(t *testing.T) {
	s, _ := newTestSession(t)

	assert.False(t, s.Handle(KeyEvent{Key: KeyEnter, Kind: KindRelease}))
	assert.Equal(t, ModeIdle, s.Mode())

	s.Handle(Press(KeyEnter))
	assert.False(t, s.Handle(KeyEvent{Key: KeyChar, Rune: 'a', Kind: KindRepeat}))
	assert.Equal(t, 0, s.Snapshot().Cursor)
}

func TestSession_EnterBeginsEditing(t *testing.T) {
	s, v := newTestSession(t)

	assert.True(t, s.Handle(Press(KeyEnter)))
	assert.Equal(t, ModeEditing, s.Mode())
	assert.Empty(t, v.calls, "beginning to edit must not verify")
}

func TestSession_CancelClearsBuffer(t *testing.T) {
	s, v := newTestSession(t)
	s.Handle(Press(KeyEnter))
	typeInto(s, "secret")

	assert.True(t, s.Handle(Press(KeyEscape)))

	snap := s.Snapshot()
	assert.Equal(t, ModeIdle, snap.Mode)
	assert.Equal(t, "", snap.Mask)
	assert.Equal(t, 0, snap.Cursor)
	assert.Empty(t, v.calls)

	// Re-entering editing starts from an empty buffer.
	s.Handle(Press(KeyEnter))
	assert.Equal(t, "", s.Snapshot().Mask)
}

func TestSession_BackspaceTwice(t *testing.T) {
	s, _ := newTestSession(t)
	s.Handle(Press(KeyEnter))
	typeInto(s, "abc")
	require.Equal(t, 3, s.Snapshot().Cursor)

	s.Handle(Press(KeyBackspace))
	s.Handle(Press(KeyBackspace))

	assert.Equal(t, "a", s.editor.secret())
	assert.Equal(t, 1, s.Snapshot().Cursor)
	assert.Equal(t, "*", s.Snapshot().Mask)
}

func TestSession_CursorMovesReportChange(t *testing.T) {
	s, _ := newTestSession(t)
	s.Handle(Press(KeyEnter))

	assert.False(t, s.Handle(Press(KeyLeft)))
	assert.False(t, s.Handle(Press(KeyRight)))
	assert.False(t, s.Handle(Press(KeyBackspace)))

	typeInto(s, "ab")
	assert.True(t, s.Handle(Press(KeyLeft)))
	assert.True(t, s.Handle(Press(KeyRight)))
	assert.False(t, s.Handle(Press(KeyRight)))
}

// =============================================================================
// SUBMIT SCENARIOS
// =============================================================================

func TestSession_FailureThenSuccess(t *testing.T) {
	s, v := newTestSession(t)
	s.Handle(Press(KeyEnter))

	// Scenario A
	submit(s, "wrong1")
	snap := s.Snapshot()
	assert.Equal(t, uint(1), snap.FailedCount)
	assert.Contains(t, snap.Status, "1")
	assert.Equal(t, ModeEditing, snap.Mode)
	assert.Equal(t, "", snap.Mask)
	assert.Equal(t, 0, snap.Cursor)

	// Scenario B
	submit(s, "wrong2")
	assert.Equal(t, uint(2), s.FailedCount())
	assert.Equal(t, "Invalid password (2)", s.Status())
	assert.Equal(t, ModeEditing, s.Mode())

	// Scenario C
	submit(s, "correct horse")
	assert.True(t, s.Unlocked())
	assert.Equal(t, ModeUnlocked, s.Mode())
	assert.Equal(t, uint(2), s.FailedCount())
	assert.Equal(t, "", s.Snapshot().Mask)

	require.Len(t, v.calls, 3)
	for _, c := range v.calls {
		assert.Equal(t, "ttylock", c.service)
		assert.Equal(t, "alice", c.identity)
	}
	assert.Equal(t, "wrong1", v.calls[0].secret)
	assert.Equal(t, "wrong2", v.calls[1].secret)
}

func TestSession_UnlockedIsTerminal(t *testing.T) {
	s, v := newTestSession(t)
	s.Handle(Press(KeyEnter))
	submit(s, "correct horse")
	require.True(t, s.Unlocked())

	for _, ev := range []KeyEvent{Press(KeyEnter), Press(KeyEscape), Char('a'), Press(KeyEnter)} {
		assert.False(t, s.Handle(ev))
		assert.Equal(t, ModeUnlocked, s.Mode())
	}
	assert.Len(t, v.calls, 1)
}

func TestSession_EachEnterIsOneAttempt(t *testing.T) {
	s, v := newTestSession(t)
	s.Handle(Press(KeyEnter))

	for i := 1; i <= 5; i++ {
		prev := s.FailedCount()
		s.Handle(Press(KeyEnter))
		assert.Equal(t, prev+1, s.FailedCount())
		assert.Len(t, v.calls, i)
	}
	assert.Equal(t, "", v.calls[0].secret)
}

func TestSession_FailedCountSurvivesCancel(t *testing.T) {
	s, _ := newTestSession(t)
	s.Handle(Press(KeyEnter))
	submit(s, "nope")
	s.Handle(Press(KeyEscape))
	s.Handle(Press(KeyEnter))
	submit(s, "nope again")

	assert.Equal(t, uint(2), s.FailedCount())
}

func TestSession_TypingClearsFailureNotice(t *testing.T) {
	s, _ := newTestSession(t)
	s.Handle(Press(KeyEnter))
	submit(s, "bad")
	require.NotEmpty(t, s.Status())

	s.Handle(Char('x'))
	assert.Empty(t, s.Status())
	assert.Equal(t, uint(1), s.FailedCount())
}

// =============================================================================
// ATTEMPT HISTORY
// =============================================================================

func TestSession_AttemptsCarryMetadataOnly(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var hooked []Attempt

	s, _ := newTestSession(t,
		WithClock(func() time.Time { return fixed }),
		WithAttemptHook(func(a Attempt) { hooked = append(hooked, a) }),
	)
	s.Handle(Press(KeyEnter))
	submit(s, "bad")
	submit(s, "correct horse")

	want := []Attempt{
		{Number: 1, At: fixed, Accepted: false},
		{Number: 2, At: fixed, Accepted: true},
	}
	assert.Equal(t, want, s.Attempts())
	assert.Equal(t, want, hooked)

	// The returned history is a copy.
	got := s.Attempts()
	got[0].Accepted = true
	assert.False(t, s.Attempts()[0].Accepted)
}

func TestSession_Options(t *testing.T) {
	s, _ := newTestSession(t,
		WithMaskRune('•'),
		WithFailureFormat("denied #%d"),
	)
	s.Handle(Press(KeyEnter))
	typeInto(s, "ab")
	assert.Equal(t, "••", s.Snapshot().Mask)

	s.Handle(Press(KeyEnter))
	assert.Equal(t, "denied #1", s.Status())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "idle", ModeIdle.String())
	assert.Equal(t, "editing", ModeEditing.String())
	assert.Equal(t, "unlocked", ModeUnlocked.String())
	assert.Equal(t, "mode(9)", Mode(9).String())
}
