// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and validation for ttylock.
//
// Supports TOML, JSON and YAML configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - LockConfig: Service name, mask character and failure message
//   - AuthConfig: Backend selection and timeout
//   - AuditConfig: Audit trail location and key
//   - LogConfig: Diagnostic log file
//   - UIConfig: Title, notice and theme
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (TTYLOCK_*)
//   - The file given with --config
//   - ~/.ttylock/config.toml
//   - ~/.ttylock/config.json
//   - ~/.ttylock/config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.Auth.Timeout()
package config
