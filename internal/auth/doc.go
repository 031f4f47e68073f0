// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth checks credentials against the host identity backend.
//
// The package has two layers:
//
//   - Backend: talks to one host facility (PAM, su(1) on a pseudo-terminal,
//     or the shadow file) and reports the result as an error.
//   - Guard: the fail-closed boundary used by the lock session. It bounds
//     the call with a timeout, recovers panics and turns every error into a
//     rejection. Nothing that goes wrong in a backend can unlock.
//
// # Backends
//
//   - "pam": PAM transaction on the configured service (build tag pam)
//   - "su": su -c true <user> answered on a pty
//   - "shadow": crypt(3) and bcrypt hashes read from /etc/shadow
//   - "auto": pam when compiled in, su otherwise
//
// # Usage
//
//	backend, err := auth.NewBackend("auto", auth.BackendOptions{})
//	if err != nil {
//	    return err
//	}
//	guard := auth.NewGuard(backend, auth.WithTimeout(10*time.Second))
//	ok := guard.Verify("ttylock", "alice", secret)
package auth
