// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses ttylock's command line and runs its non-interactive
// subcommands.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdLock Command = iota
	CmdAuditVerify
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Service    string
	Backend    string
	NoAudit    bool

	// audit verify
	AuditPath    string
	AuditKeyPath string
}

const usageText = `ttylock - lock this terminal until your password is entered

Usage:
  ttylock [flags]                 Lock the terminal (default)
  ttylock lock [flags]            Same as above
  ttylock audit verify            Verify the audit trail's HMAC chain
    --path FILE                   Audit log (default: from config)
    --key FILE                    HMAC key file (default: from config)
  ttylock version                 Show version information
  ttylock help                    Show this help

Flags:
  -c, --config FILE    Config file (.toml, .json, .yaml)
      --service NAME   PAM service name (default: ttylock). Only the pam
                       backend reads it; su and shadow ignore it.
      --backend NAME   auto, pam, su or shadow (default: auto)
      --no-audit       Do not write the audit trail
  -h, --help           Show this help
  -v, --version        Show version information

Environment:
  TTYLOCK_SERVICE, TTYLOCK_AUTH_BACKEND, TTYLOCK_AUTH_TIMEOUT_SECS,
  TTYLOCK_LOG_LEVEL, TTYLOCK_LOG_PATH, TTYLOCK_AUDIT_PATH, TTYLOCK_THEME,
  TTYLOCK_AUDIT_HMAC_KEY (hex-encoded audit key)

The process exits 0 only after a successful unlock. Keyboard interrupts
are ignored while the terminal is locked.

Version: %s
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "ttylock version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args.
func Parse() (Command, Args, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name).
func ParseArgs(argv []string) (Command, Args, error) {
	remaining, args, cmd, err := parseGlobalFlags(argv)
	if err != nil || cmd != CmdLock {
		return cmd, args, err
	}

	if len(remaining) == 0 {
		return CmdLock, args, nil
	}

	name := strings.ToLower(remaining[0])
	remaining = remaining[1:]

	switch name {
	case "lock":
		if len(remaining) > 0 {
			return CmdLock, args, &UsageError{Arg: remaining[0], Reason: "unexpected argument"}
		}
		return CmdLock, args, nil

	case "audit":
		return parseAuditArgs(args, remaining)

	case "version":
		return CmdVersion, args, nil

	case "help":
		return CmdHelp, args, nil

	default:
		return CmdHelp, args, &UsageError{Arg: name, Reason: "unknown command"}
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
// -h and -v short-circuit to CmdHelp and CmdVersion.
func parseGlobalFlags(argv []string) ([]string, Args, Command, error) {
	var (
		remaining []string
		args      Args
	)

	value := func(i int, flag string) (string, error) {
		if i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "-") {
			return "", &UsageError{Arg: flag, Reason: "requires a value"}
		}
		return argv[i+1], nil
	}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]

		// --flag=value
		if name, v, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "--") {
			switch name {
			case "--config":
				args.ConfigPath = v
			case "--service":
				args.Service = v
			case "--backend":
				args.Backend = strings.ToLower(v)
			default:
				remaining = append(remaining, arg)
			}
			continue
		}

		switch arg {
		case "-h", "--help":
			return nil, args, CmdHelp, nil
		case "-v", "--version":
			return nil, args, CmdVersion, nil
		case "--no-audit":
			args.NoAudit = true
		case "-c", "--config", "--service", "--backend":
			v, err := value(i, arg)
			if err != nil {
				return nil, args, CmdHelp, err
			}
			i++
			switch arg {
			case "-c", "--config":
				args.ConfigPath = v
			case "--service":
				args.Service = v
			case "--backend":
				args.Backend = strings.ToLower(v)
			}
		default:
			remaining = append(remaining, arg)
		}
	}

	// Flags the lock does not know are an error, not silently ignored.
	if len(remaining) > 0 && strings.HasPrefix(remaining[0], "-") {
		return nil, args, CmdHelp, &UsageError{Arg: remaining[0], Reason: "unknown flag"}
	}
	return remaining, args, CmdLock, nil
}

// parseAuditArgs parses "audit <subcommand> [flags]".
func parseAuditArgs(args Args, remaining []string) (Command, Args, error) {
	p := NewArgParser(remaining)

	switch p.Subcommand() {
	case "verify":
	case "":
		return CmdHelp, args, &UsageError{Arg: "audit", Reason: "missing subcommand (verify)"}
	default:
		return CmdHelp, args, &UsageError{Arg: "audit " + p.Subcommand(), Reason: "unknown subcommand"}
	}

	if unknown := p.Unknown("path", "key"); len(unknown) > 0 {
		return CmdHelp, args, &UsageError{Arg: "--" + unknown[0], Reason: "unknown flag for audit verify"}
	}
	if extra := p.Positional(1); extra != "" {
		return CmdHelp, args, &UsageError{Arg: extra, Reason: "unexpected argument"}
	}

	args.AuditPath = p.Flag("path")
	args.AuditKeyPath = p.Flag("key")
	return CmdAuditVerify, args, nil
}
