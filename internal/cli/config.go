// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/jeranaias/ttylock/internal/config"
)

// LoadConfig reads the config file named by --config, or the default
// locations, and applies the command-line overrides on top.
func LoadConfig(args Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	ApplyOverrides(cfg, args)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyOverrides copies the flags that were given into cfg. Flags win over
// both the file and the environment.
func ApplyOverrides(cfg *config.Config, args Args) {
	if args.Service != "" {
		cfg.Lock.Service = args.Service
	}
	if args.Backend != "" {
		cfg.Auth.Backend = args.Backend
	}
	if args.NoAudit {
		cfg.Audit.Enabled = false
	}
}
