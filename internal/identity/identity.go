// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity resolves the account whose terminal is being locked.
package identity

import (
	"errors"
	"fmt"
	"os/user"
	"strconv"
	"strings"
)

// ErrNoIdentity is returned when the uid cannot be mapped to a usable name.
var ErrNoIdentity = errors.New("cannot resolve current user")

// lookupFunc matches user.LookupId.
type lookupFunc func(uid string) (*user.User, error)

// resolve maps uid to a username. The real uid is used, not the effective
// one, so a setuid build still locks for the invoking user.
func resolve(uid int, lookup lookupFunc) (string, error) {
	if uid < 0 {
		return "", fmt.Errorf("%w: invalid uid %d", ErrNoIdentity, uid)
	}
	u, err := lookup(strconv.Itoa(uid))
	if err != nil {
		return "", fmt.Errorf("%w: uid %d: %v", ErrNoIdentity, uid, err)
	}
	name := strings.TrimSpace(u.Username)
	if name == "" {
		return "", fmt.Errorf("%w: uid %d has no username", ErrNoIdentity, uid)
	}
	return name, nil
}
