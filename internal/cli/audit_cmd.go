// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/ttylock/internal/audit"
	"github.com/jeranaias/ttylock/internal/config"
)

// ErrAuditTampered is returned when the audit chain does not verify.
var ErrAuditTampered = errors.New("audit log integrity check failed")

// HandleAuditVerify checks the audit trail's HMAC chain and writes a report
// to w. Paths given on the command line win over the config.
func HandleAuditVerify(w io.Writer, args Args, cfg *config.Config) error {
	path := args.AuditPath
	if path == "" {
		path = cfg.Audit.Path
	}
	keyPath := args.AuditKeyPath
	if keyPath == "" {
		keyPath = cfg.Audit.KeyPath
	}

	key, err := audit.LoadKey(keyPath)
	if err != nil {
		return &CommandError{Command: "audit", Action: "verify", Err: err}
	}

	result, err := audit.VerifyFile(path, key)
	if err != nil {
		return &CommandError{Command: "audit", Action: "verify", Err: err}
	}

	fmt.Fprintf(w, "Audit log: %s\n", path)
	fmt.Fprintf(w, "Entries:   %d\n", result.Entries)
	if result.Valid {
		fmt.Fprintln(w, "Status:    OK (HMAC chain intact)")
		return nil
	}

	fmt.Fprintf(w, "Status:    FAILED (%d issue(s))\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
	return ErrAuditTampered
}
