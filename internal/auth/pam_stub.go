// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !pam

package auth

import (
	"context"
	"fmt"
)

// PAMSupported reports whether the binary was built with PAM.
func PAMSupported() bool { return false }

// PAMBackend stands in for the PAM backend in builds without the pam tag.
// It refuses every request.
type PAMBackend struct{}

// NewPAMBackend returns the PAM backend.
func NewPAMBackend() *PAMBackend { return &PAMBackend{} }

// Name implements Backend.
func (b *PAMBackend) Name() string { return BackendPAM }

// Authenticate implements Backend.
func (b *PAMBackend) Authenticate(context.Context, Request) error {
	return fmt.Errorf("%w: built without PAM support (rebuild with -tags pam)", ErrBackendUnavailable)
}
