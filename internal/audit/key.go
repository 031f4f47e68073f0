// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/ttylock/internal/util"
)

const (
	// KeyEnvVar overrides the key file with a hex-encoded key.
	KeyEnvVar = "TTYLOCK_AUDIT_HMAC_KEY"

	// DefaultKeyFileName is created next to the audit log.
	DefaultKeyFileName = ".audit_hmac_key"

	// KeySize is the HMAC key size in bytes.
	KeySize = 32
)

// DefaultKeyPath returns ~/.ttylock/.audit_hmac_key.
func DefaultKeyPath() string {
	return filepath.Join(filepath.Dir(DefaultPath()), DefaultKeyFileName)
}

// LoadKey returns the HMAC key from the environment or from path.
// The file holds the key hex-encoded.
func LoadKey(path string) ([]byte, error) {
	if keyHex := os.Getenv(KeyEnvVar); keyHex != "" {
		return decodeKey(keyHex, KeyEnvVar)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audit key %s: %w", path, err)
	}
	return decodeKey(string(data), path)
}

// LoadOrCreateKey loads the key, generating and storing a fresh one with
// 0600 permissions if the file does not exist yet.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := LoadKey(path)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	key = make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate audit key: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(hex.EncodeToString(key)+"\n"), 0600, 0700); err != nil {
		return nil, fmt.Errorf("store audit key: %w", err)
	}
	return key, nil
}

func decodeKey(s, source string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid audit key in %s: %w", source, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("audit key in %s must be %d bytes, got %d", source, KeySize, len(key))
	}
	return key, nil
}
