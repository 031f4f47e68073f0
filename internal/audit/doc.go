// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audit keeps a tamper-evident trail of lock sessions.
//
// Each record is one JSON line carrying the event and an HMAC-SHA256 that
// covers the event and the MAC of the previous line. Editing, deleting or
// reordering lines breaks the chain and is reported by VerifyFile.
//
// Records hold metadata only: who, which service, attempt number, outcome
// and time. Credentials never reach this package.
//
// # Usage
//
//	key, err := audit.LoadOrCreateKey(audit.DefaultKeyPath())
//	if err != nil {
//	    return err
//	}
//	logger, err := audit.NewLogger(audit.DefaultPath(), key)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.LogLockStart("alice", "ttylock", "pam")
//	logger.LogAttempt("alice", attempt)
//
// Verify a trail:
//
//	result, err := audit.VerifyFile(path, key)
package audit
