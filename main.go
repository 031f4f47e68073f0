// ttylock - a terminal screen lock.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ttylock/internal/audit"
	"github.com/jeranaias/ttylock/internal/auth"
	"github.com/jeranaias/ttylock/internal/cli"
	"github.com/jeranaias/ttylock/internal/config"
	"github.com/jeranaias/ttylock/internal/identity"
	"github.com/jeranaias/ttylock/internal/lock"
	"github.com/jeranaias/ttylock/internal/logger"
	"github.com/jeranaias/ttylock/internal/terminal"
	"github.com/jeranaias/ttylock/internal/ui/lockscreen"
	"github.com/jeranaias/ttylock/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		fmt.Fprintln(os.Stderr)
		cli.PrintUsage(os.Stderr)
		os.Exit(cli.ExitCode(err))
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		fatal(err)
	}

	switch cmd {
	case cli.CmdAuditVerify:
		if err := cli.HandleAuditVerify(os.Stdout, args, cfg); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			os.Exit(cli.ExitCode(err))
		}
	case cli.CmdLock:
		os.Exit(runLock(cfg))
	}
}

// runLock presents the lock screen until the user unlocks and returns the
// process exit code.
func runLock(cfg *config.Config) int {
	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		fatal(err)
	}
	defer closeLog()

	if err := terminal.RequireInteractive(os.Stdin, os.Stdout); err != nil {
		fatal(err)
	}

	user, err := identity.Current()
	if err != nil {
		fatal(err)
	}

	backend, err := auth.NewBackend(cfg.Auth.Backend, auth.BackendOptions{
		SuPath:     cfg.Auth.SuPath,
		ShadowPath: cfg.Auth.ShadowPath,
	})
	if err != nil {
		fatal(err)
	}
	guard := auth.NewGuard(backend,
		auth.WithTimeout(cfg.Auth.Timeout()),
		auth.WithLogger(log),
	)

	trail := openAuditTrail(cfg.Audit, log)
	if trail != nil {
		defer trail.Close()
		if err := trail.LogLockStart(user, cfg.Lock.Service, backend.Name()); err != nil {
			log.Warn("audit write failed", zap.Error(err))
		}
	}

	session, err := lock.NewSession(user, cfg.Lock.Service, guard,
		lock.WithMaskRune(cfg.Lock.MaskRune()),
		lock.WithFailureFormat(cfg.Lock.FailureFormat),
		lock.WithAttemptHook(func(a lock.Attempt) {
			if trail == nil {
				return
			}
			if err := trail.LogAttempt(user, a); err != nil {
				log.Warn("audit write failed", zap.Error(err))
			}
		}),
	)
	if err != nil {
		fatal(err)
	}

	log.Info("terminal locked",
		zap.String("user", user),
		zap.String("service", cfg.Lock.Service),
		zap.String("backend", backend.Name()))

	restore := terminal.IgnoreKeyboardSignals()
	defer restore()

	width, height := terminal.Size(os.Stdout)
	model := lockscreen.New(session,
		lockscreen.WithSize(width, height),
		lockscreen.WithTheme(styles.NewThemeWithMode(cfg.UI.Theme)),
		lockscreen.WithTitle(cfg.UI.Title),
		lockscreen.WithNotice(cfg.UI.Notice),
		lockscreen.WithLogger(log),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithoutSignalHandler())
	final, err := p.Run()
	if err != nil {
		log.Error("lock screen stopped", zap.Error(err))
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		return cli.ExitGeneralError
	}

	if m, ok := final.(lockscreen.Model); !ok || !m.Unlocked() {
		log.Error("lock screen exited without unlocking")
		return cli.ExitGeneralError
	}

	log.Info("terminal unlocked", zap.Uint("failed_attempts", session.FailedCount()))
	if trail != nil {
		if err := trail.LogUnlock(user, session.FailedCount()); err != nil {
			log.Warn("audit write failed", zap.Error(err))
		}
	}
	return cli.ExitSuccess
}

// openAuditTrail returns nil when auditing is disabled or cannot be set up.
// Audit problems are logged but never keep the terminal from locking.
func openAuditTrail(cfg config.AuditConfig, log *zap.Logger) *audit.Logger {
	if !cfg.Enabled {
		return nil
	}
	key, err := audit.LoadOrCreateKey(cfg.KeyPath)
	if err != nil {
		log.Warn("audit disabled: key unavailable", zap.Error(err))
		return nil
	}
	trail, err := audit.NewLogger(cfg.Path, key)
	if err != nil {
		log.Warn("audit disabled: log unavailable", zap.Error(err))
		return nil
	}
	return trail
}

func fatal(err error) {
	var verrs config.ValidateErrors
	if errors.As(err, &verrs) {
		fmt.Fprintln(os.Stderr, styles.RenderError("configuration is invalid:"))
		for _, v := range verrs {
			fmt.Fprintf(os.Stderr, "  - %s: %s\n", v.Field, v.Message)
		}
		os.Exit(cli.ExitGeneralError)
	}
	fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
	os.Exit(cli.ExitGeneralError)
}
