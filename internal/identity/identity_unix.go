// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build unix

package identity

import (
	"os/user"

	"golang.org/x/sys/unix"
)

// Current returns the username of the real uid of this process.
func Current() (string, error) {
	return resolve(unix.Getuid(), user.LookupId)
}
