// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lock

// Key identifies the logical key carried by a KeyEvent.
type Key int

const (
	KeyUnknown Key = iota
	KeyChar
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyLeft
	KeyRight
)

// String returns a short name for the key.
func (k Key) String() string {
	switch k {
	case KeyChar:
		return "char"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	case KeyBackspace:
		return "backspace"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	default:
		return "unknown"
	}
}

// KeyKind distinguishes presses from releases and auto-repeats.
// The session only reacts to KindPress.
type KeyKind int

const (
	KindPress KeyKind = iota
	KindRelease
	KindRepeat
)

// KeyEvent is one decoded keyboard event.
type KeyEvent struct {
	Key  Key
	Rune rune // set when Key == KeyChar
	Kind KeyKind
}

// Press builds a press event for a non-character key.
func Press(k Key) KeyEvent {
	return KeyEvent{Key: k, Kind: KindPress}
}

// Char builds a press event for a printable character.
func Char(r rune) KeyEvent {
	return KeyEvent{Key: KeyChar, Rune: r, Kind: KindPress}
}
