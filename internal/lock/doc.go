// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lock implements the terminal lock session.
//
// A Session holds the lock mode, the failure counter and the credential
// editor. It consumes discrete key events one at a time and produces an
// immutable Snapshot for rendering. Verification is delegated to a Verifier
// and is synchronous: the caller's loop is blocked until the backend answers.
//
// # Key Types
//
//   - Session: the lock state machine (Idle, Editing, Unlocked)
//   - Editor: rune-indexed credential buffer with a saturating cursor
//   - KeyEvent: a decoded key press handed in by the event source
//   - Snapshot: read-only view of the session for the render boundary
//   - Attempt: metadata of one submitted credential (never the secret)
//
// # Usage
//
//	s, err := lock.NewSession("alice", "ttylock", verifier)
//	if err != nil {
//	    return err
//	}
//	for !s.Unlocked() {
//	    s.Handle(nextEvent())
//	    draw(s.Snapshot())
//	}
package lock
