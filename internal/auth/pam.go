// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build pam

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/msteinert/pam/v2"
)

// PAMSupported reports whether the binary was built with PAM.
func PAMSupported() bool { return true }

// PAMBackend runs a PAM transaction on the request's service.
type PAMBackend struct{}

// NewPAMBackend returns the PAM backend.
func NewPAMBackend() *PAMBackend { return &PAMBackend{} }

// Name implements Backend.
func (b *PAMBackend) Name() string { return BackendPAM }

// Authenticate implements Backend. The transaction authenticates, checks the
// account, and opens and closes a session, so the host policy for the service
// applies in full. PAM calls cannot be interrupted; ctx is only checked
// before the transaction starts.
func (b *PAMBackend) Authenticate(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	t, err := pam.StartFunc(req.Service, req.Username, func(s pam.Style, msg string) (string, error) {
		switch s {
		case pam.PromptEchoOff:
			return req.Secret, nil
		case pam.PromptEchoOn:
			return req.Username, nil
		case pam.ErrorMsg, pam.TextInfo:
			return "", nil
		default:
			return "", errors.New("unsupported PAM message style")
		}
	})
	if err != nil {
		return fmt.Errorf("%w: pam start: %v", ErrBackendUnavailable, err)
	}
	defer func() { _ = t.End() }()

	if err := t.Authenticate(0); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if err := t.AcctMgmt(0); err != nil {
		return fmt.Errorf("%w: account: %v", ErrRejected, err)
	}
	if err := t.OpenSession(0); err != nil {
		return fmt.Errorf("%w: open session: %v", ErrRejected, err)
	}
	_ = t.CloseSession(0)
	return nil
}
