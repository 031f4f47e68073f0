// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lock

import "strings"

// DefaultMaskRune is drawn once per character of the credential.
const DefaultMaskRune = '*'

// Editor is the in-progress credential buffer.
//
// The buffer is a rune slice so the cursor is always a character index and
// can never split a multi-byte character. The cursor satisfies
// 0 <= cursor <= Len() after every operation.
type Editor struct {
	buf    []rune
	cursor int
}

// Insert places r at the cursor and advances the cursor by one.
func (e *Editor) Insert(r rune) {
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = r
	e.cursor++
}

// DeleteBeforeCursor removes the character left of the cursor.
// It is a no-op when the cursor is at 0.
func (e *Editor) DeleteBeforeCursor() {
	if e.cursor == 0 {
		return
	}
	copy(e.buf[e.cursor-1:], e.buf[e.cursor:])
	e.buf[len(e.buf)-1] = 0
	e.buf = e.buf[:len(e.buf)-1]
	e.cursor--
}

// MoveLeft moves the cursor one character left, saturating at 0.
func (e *Editor) MoveLeft() {
	e.cursor = e.clamp(e.cursor - 1)
}

// MoveRight moves the cursor one character right, saturating at Len().
func (e *Editor) MoveRight() {
	e.cursor = e.clamp(e.cursor + 1)
}

// Clear overwrites and empties the buffer and resets the cursor.
func (e *Editor) Clear() {
	for i := range e.buf {
		e.buf[i] = 0
	}
	e.buf = e.buf[:0]
	e.cursor = 0
}

// Len returns the number of characters in the buffer.
func (e *Editor) Len() int {
	return len(e.buf)
}

// Cursor returns the cursor position in characters.
func (e *Editor) Cursor() int {
	return e.cursor
}

// Mask returns one mask rune per buffered character.
func (e *Editor) Mask(mask rune) string {
	if len(e.buf) == 0 {
		return ""
	}
	return strings.Repeat(string(mask), len(e.buf))
}

// secret returns the literal credential. Only the session reads it, and only
// to build a verification request.
func (e *Editor) secret() string {
	return string(e.buf)
}

func (e *Editor) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(e.buf) {
		return len(e.buf)
	}
	return pos
}
