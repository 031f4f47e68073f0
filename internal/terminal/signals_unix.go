// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build unix

package terminal

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// keyboardSignals are the signals a user can raise from the keyboard.
var keyboardSignals = []os.Signal{unix.SIGINT, unix.SIGQUIT, unix.SIGTSTP}

// IgnoreKeyboardSignals stops ctrl+c, ctrl+\ and ctrl+z from killing or
// suspending the process. The returned function restores default handling.
func IgnoreKeyboardSignals() (restore func()) {
	signal.Ignore(keyboardSignals...)
	return func() { signal.Reset(keyboardSignals...) }
}
