// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across ttylock.
//
//   - AtomicWriteFile: crash-safe file writing with fsync and explicit
//     file and directory permissions
//   - Wipe: zero a byte slice holding key material
//   - TruncateWidth, StringWidth: column-aware string handling
//
// # Usage
//
//	// Store a secret file readable only by its owner
//	err := util.AtomicWriteFile(path, data, 0600, 0700)
//
//	// Fit a username into a fixed-width box
//	name := util.TruncateWidth(user, 20)
package util
