// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !unix

package terminal

import (
	"os"
	"os/signal"
)

var keyboardSignals = []os.Signal{os.Interrupt}

// IgnoreKeyboardSignals stops an interrupt from ending the process. The
// returned function restores default handling.
func IgnoreKeyboardSignals() (restore func()) {
	signal.Ignore(keyboardSignals...)
	return func() { signal.Reset(keyboardSignals...) }
}
