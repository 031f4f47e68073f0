// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !unix

package identity

import (
	"fmt"
	"os/user"
	"strings"
)

// Current returns the username of the account running this process.
func Current() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoIdentity, err)
	}
	if strings.TrimSpace(u.Username) == "" {
		return "", ErrNoIdentity
	}
	return u.Username, nil
}
