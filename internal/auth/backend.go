// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrRejected means the backend checked the credential and denied it.
	ErrRejected = errors.New("credential rejected")
	// ErrBackendUnavailable means no check could be performed.
	ErrBackendUnavailable = errors.New("auth backend unavailable")
	// ErrAccountLocked means the account cannot authenticate at all.
	ErrAccountLocked = errors.New("account is locked")
	// ErrUnsupportedHash means the stored hash uses a scheme we cannot verify.
	ErrUnsupportedHash = errors.New("unsupported password hash")
)

// Backend names accepted by NewBackend.
const (
	BackendAuto   = "auto"
	BackendPAM    = "pam"
	BackendSu     = "su"
	BackendShadow = "shadow"
)

// Request is one verification. It is built at submit time and must not be
// retained by a backend after Authenticate returns.
type Request struct {
	Service  string
	Username string
	Secret   string
}

// Backend authenticates a request. A nil error means the credential was
// accepted; anything else is a refusal.
type Backend interface {
	Name() string
	Authenticate(ctx context.Context, req Request) error
}

// BackendOptions carries backend-specific settings.
type BackendOptions struct {
	// SuPath is the su binary used by the su backend.
	SuPath string
	// ShadowPath is the shadow file read by the shadow backend.
	ShadowPath string
}

// BackendNames lists the accepted backend names.
func BackendNames() []string {
	return []string{BackendAuto, BackendPAM, BackendSu, BackendShadow}
}

// geteuid is swapped in tests.
var geteuid = os.Geteuid

// NewBackend returns the backend registered under name.
//
// auto prefers PAM. Without PAM it uses su, except for root: su never
// prompts root, so root is checked against the shadow file instead.
func NewBackend(name string, opts BackendOptions) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BackendAuto, "":
		if PAMSupported() {
			return NewPAMBackend(), nil
		}
		if geteuid() == 0 {
			return NewShadowBackend(opts.ShadowPath), nil
		}
		return NewSuBackend(opts.SuPath), nil
	case BackendPAM:
		return NewPAMBackend(), nil
	case BackendSu:
		return NewSuBackend(opts.SuPath), nil
	case BackendShadow:
		b := NewShadowBackend(opts.ShadowPath)
		if geteuid() != 0 {
			b = b.WithFallback(NewSuBackend(opts.SuPath))
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown auth backend %q (want one of %s)",
			name, strings.Join(BackendNames(), ", "))
	}
}
