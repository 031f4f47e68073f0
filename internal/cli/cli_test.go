// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ttylock/internal/audit"
	"github.com/jeranaias/ttylock/internal/config"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "no args locks",
			argv:    nil,
			wantCmd: CmdLock,
		},
		{
			name:    "explicit lock",
			argv:    []string{"lock"},
			wantCmd: CmdLock,
		},
		{
			name:    "global flags",
			argv:    []string{"-c", "/etc/ttylock.toml", "--service", "login", "--backend", "SU", "--no-audit"},
			wantCmd: CmdLock,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "/etc/ttylock.toml", a.ConfigPath)
				assert.Equal(t, "login", a.Service)
				assert.Equal(t, "su", a.Backend)
				assert.True(t, a.NoAudit)
			},
		},
		{
			name:    "equals form",
			argv:    []string{"--config=/tmp/c.yaml", "--backend=shadow", "lock"},
			wantCmd: CmdLock,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "/tmp/c.yaml", a.ConfigPath)
				assert.Equal(t, "shadow", a.Backend)
			},
		},
		{
			name:    "audit verify with flags",
			argv:    []string{"audit", "verify", "--path", "/tmp/a.log", "--key=/tmp/k"},
			wantCmd: CmdAuditVerify,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "/tmp/a.log", a.AuditPath)
				assert.Equal(t, "/tmp/k", a.AuditKeyPath)
			},
		},
		{
			name:    "config before audit",
			argv:    []string{"--config", "/tmp/c.toml", "audit", "verify"},
			wantCmd: CmdAuditVerify,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "/tmp/c.toml", a.ConfigPath)
			},
		},
		{name: "version", argv: []string{"version"}, wantCmd: CmdVersion},
		{name: "version flag", argv: []string{"-v"}, wantCmd: CmdVersion},
		{name: "help", argv: []string{"help"}, wantCmd: CmdHelp},
		{name: "help flag wins", argv: []string{"audit", "--help"}, wantCmd: CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := ParseArgs(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, cmd)
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestParseArgs_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"unknown command", []string{"unlock"}},
		{"unknown flag", []string{"--insecure"}},
		{"missing value", []string{"--config"}},
		{"value looks like flag", []string{"--service", "--no-audit"}},
		{"lock extra arg", []string{"lock", "now"}},
		{"audit without subcommand", []string{"audit"}},
		{"audit unknown subcommand", []string{"audit", "show"}},
		{"audit unknown flag", []string{"audit", "verify", "--lines", "5"}},
		{"audit extra arg", []string{"audit", "verify", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseArgs(tt.argv)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUsage))
			assert.Equal(t, ExitUsageError, ExitCode(err))
		})
	}
}

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"verify", "--path", "a.log", "--json", "--key=k", "--", "-x"}, "json")

	assert.Equal(t, "verify", p.Subcommand())
	assert.Equal(t, "a.log", p.Flag("path"))
	assert.Equal(t, "a.log", p.Flag("--path"))
	assert.Equal(t, "k", p.Flag("key"))
	assert.True(t, p.BoolFlag("json"))
	assert.False(t, p.BoolFlag("quiet"))
	assert.Equal(t, "-x", p.Positional(1))
	assert.Equal(t, "", p.Positional(5))
	assert.Empty(t, p.Unknown("path", "key", "json"))
	assert.Equal(t, []string{"json"}, p.Unknown("path", "key"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitUsageError, ExitCode(&UsageError{Arg: "x", Reason: "bad"}))
	assert.Equal(t, ExitGeneralError, ExitCode(ErrAuditTampered))
	assert.Equal(t, ExitGeneralError, ExitCode(&CommandError{Command: "audit", Action: "verify", Err: os.ErrNotExist}))
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "ttylock audit verify")
	assert.Contains(t, buf.String(), "Version: "+Version)
	assert.Contains(t, buf.String(), "su and shadow ignore it")

	buf.Reset()
	PrintVersion(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "ttylock version "+Version))
}

// =============================================================================
// AUDIT VERIFY TESTS
// =============================================================================

func writeAuditLog(t *testing.T) (*config.Config, []byte) {
	t.Helper()
	dir := t.TempDir()
	key := bytes.Repeat([]byte{7}, audit.KeySize)
	keyPath := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0600))

	cfg := config.Default()
	cfg.Audit.Path = filepath.Join(dir, "audit.log")
	cfg.Audit.KeyPath = keyPath

	l, err := audit.NewLogger(cfg.Audit.Path, key)
	require.NoError(t, err)
	require.NoError(t, l.LogLockStart("alice", "ttylock", "su"))
	require.NoError(t, l.LogUnlock("alice", 0))
	require.NoError(t, l.Close())
	return cfg, key
}

func TestHandleAuditVerify_OK(t *testing.T) {
	t.Setenv(audit.KeyEnvVar, "")
	cfg, _ := writeAuditLog(t)

	var out bytes.Buffer
	require.NoError(t, HandleAuditVerify(&out, Args{}, cfg))
	assert.Contains(t, out.String(), "Entries:   2")
	assert.Contains(t, out.String(), "OK")
}

func TestHandleAuditVerify_Tampered(t *testing.T) {
	t.Setenv(audit.KeyEnvVar, "")
	cfg, _ := writeAuditLog(t)

	data, err := os.ReadFile(cfg.Audit.Path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), `"user":"alice"`, `"user":"mallory"`, 1)
	require.NoError(t, os.WriteFile(cfg.Audit.Path, []byte(tampered), 0600))

	var out bytes.Buffer
	err = HandleAuditVerify(&out, Args{}, cfg)
	assert.ErrorIs(t, err, ErrAuditTampered)
	assert.Contains(t, out.String(), "FAILED")
	assert.Contains(t, out.String(), "MAC mismatch")
}

func TestHandleAuditVerify_ArgsOverrideConfig(t *testing.T) {
	t.Setenv(audit.KeyEnvVar, "")
	cfg, _ := writeAuditLog(t)
	args := Args{AuditPath: cfg.Audit.Path, AuditKeyPath: cfg.Audit.KeyPath}

	other := config.Default()
	other.Audit.Path = filepath.Join(t.TempDir(), "missing.log")
	other.Audit.KeyPath = filepath.Join(t.TempDir(), "missing.key")

	var out bytes.Buffer
	require.NoError(t, HandleAuditVerify(&out, args, other))
}

func TestHandleAuditVerify_MissingKey(t *testing.T) {
	t.Setenv(audit.KeyEnvVar, "")
	cfg := config.Default()
	cfg.Audit.KeyPath = filepath.Join(t.TempDir(), "none")

	var out bytes.Buffer
	err := HandleAuditVerify(&out, Args{}, cfg)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "verify", cmdErr.Action)
}
