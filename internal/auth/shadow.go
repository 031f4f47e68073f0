// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"golang.org/x/crypto/bcrypt"
)

// DefaultShadowPath is the host shadow database.
const DefaultShadowPath = "/etc/shadow"

// ShadowEntry is the part of a shadow(5) line the backend needs.
type ShadowEntry struct {
	Name string
	Hash string
}

// Locked reports whether the entry cannot authenticate with a password.
func (e ShadowEntry) Locked() bool {
	return e.Hash == "" || strings.HasPrefix(e.Hash, "!") || strings.HasPrefix(e.Hash, "*")
}

// ParseShadow reads shadow(5) content. Comments, blank lines and lines
// without a hash field are skipped.
func ParseShadow(data []byte) ([]ShadowEntry, error) {
	var entries []ShadowEntry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 2 {
			continue
		}
		entries = append(entries, ShadowEntry{Name: parts[0], Hash: parts[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ShadowBackend verifies against password hashes in the shadow file.
// Reading the file normally needs root; when it cannot be read the backend
// reports ErrBackendUnavailable.
type ShadowBackend struct {
	path     string
	fallback Backend
}

// NewShadowBackend returns a backend reading path.
func NewShadowBackend(path string) *ShadowBackend {
	if path == "" {
		path = DefaultShadowPath
	}
	return &ShadowBackend{path: path}
}

// WithFallback sets the backend asked when the stored hash uses a scheme
// VerifyHash cannot check, such as yescrypt.
func (b *ShadowBackend) WithFallback(fallback Backend) *ShadowBackend {
	b.fallback = fallback
	return b
}

// Name implements Backend.
func (b *ShadowBackend) Name() string { return BackendShadow }

// Authenticate implements Backend. The service name is not used.
func (b *ShadowBackend) Authenticate(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		return fmt.Errorf("%w: read shadow: %v", ErrBackendUnavailable, err)
	}
	entries, err := ParseShadow(data)
	if err != nil {
		return fmt.Errorf("%w: parse shadow: %v", ErrBackendUnavailable, err)
	}

	for _, e := range entries {
		if e.Name != req.Username {
			continue
		}
		if e.Locked() {
			return ErrAccountLocked
		}
		err := VerifyHash(e.Hash, req.Secret)
		if errors.Is(err, ErrUnsupportedHash) && b.fallback != nil {
			return b.fallback.Authenticate(ctx, req)
		}
		return err
	}
	return ErrRejected
}

// VerifyHash checks secret against a crypt(3) or bcrypt hash.
// It returns nil on match, ErrRejected on mismatch and ErrUnsupportedHash
// for schemes such as yescrypt.
func VerifyHash(hash, secret string) error {
	var c crypt.Crypter
	switch {
	case strings.HasPrefix(hash, "$6$"):
		c = sha512_crypt.New()
	case strings.HasPrefix(hash, "$5$"):
		c = sha256_crypt.New()
	case strings.HasPrefix(hash, "$1$"):
		c = md5_crypt.New()
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
		if err == nil {
			return nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrRejected
		}
		return fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
	default:
		return ErrUnsupportedHash
	}

	if err := c.Verify(hash, []byte(secret)); err != nil {
		return ErrRejected
	}
	return nil
}
