// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal checks that ttylock is attached to a real terminal and
// keeps keyboard-generated signals from ending the lock.
package terminal

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("ttylock must be run from an interactive terminal")

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// RequireInteractive returns ErrNotTerminal unless both in and out are
// terminals. Locking a pipe would lock nothing.
func RequireInteractive(in, out *os.File) error {
	if !IsTerminal(in) || !IsTerminal(out) {
		return ErrNotTerminal
	}
	return nil
}

// =============================================================================
// TERMINAL SIZE
// =============================================================================

const (
	// DefaultWidth is the fallback width when detection fails.
	DefaultWidth = 80
	// DefaultHeight is the fallback height when detection fails.
	DefaultHeight = 24
)

// Size returns the size of the terminal behind f, or the defaults.
func Size(f *os.File) (width, height int) {
	if f == nil {
		return DefaultWidth, DefaultHeight
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}
