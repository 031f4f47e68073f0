// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// DefaultSuPath is looked up on PATH.
const DefaultSuPath = "su"

// suReadDeadline paces the prompt reader so it notices process exit.
const suReadDeadline = 500 * time.Millisecond

// SuBackend verifies a password by running su(1) on a pseudo-terminal and
// answering its password prompt. It goes through the host's own su policy,
// so it works for any hash scheme the host supports.
type SuBackend struct {
	path string
	// geteuid is swapped in tests.
	geteuid func() int
}

// NewSuBackend returns a su backend using the given binary.
func NewSuBackend(path string) *SuBackend {
	if path == "" {
		path = DefaultSuPath
	}
	return &SuBackend{path: path, geteuid: os.Geteuid}
}

// Name implements Backend.
func (b *SuBackend) Name() string { return BackendSu }

// Authenticate implements Backend. The service name is not used: su applies
// its own PAM service.
func (b *SuBackend) Authenticate(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.Username) == "" {
		return ErrRejected
	}
	// root is never prompted by su, so a clean exit would prove nothing.
	if b.geteuid() == 0 {
		return fmt.Errorf("%w: su cannot verify passwords when running as root", ErrBackendUnavailable)
	}

	cmd := exec.CommandContext(ctx, b.path, "-s", "/bin/sh", "-c", "true", req.Username)
	cmd.Env = []string{"LC_ALL=C", "PATH=/usr/bin:/bin:/usr/sbin:/sbin"}
	f, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("%w: start su: %v", ErrBackendUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	var (
		mu       sync.Mutex
		prompted bool
	)
	readerDone := make(chan struct{})

	go func() {
		defer close(readerDone)
		var out bytes.Buffer
		buf := make([]byte, 1024)
		for {
			_ = f.SetReadDeadline(time.Now().Add(suReadDeadline))
			n, rerr := f.Read(buf)
			if n > 0 {
				out.Write(buf[:n])
				mu.Lock()
				if !prompted && strings.Contains(strings.ToLower(out.String()), "password") {
					prompted = true
					_, _ = io.WriteString(f, req.Secret+"\n")
					out.Reset()
				}
				mu.Unlock()
			}
			if rerr != nil && !errors.Is(rerr, os.ErrDeadlineExceeded) {
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	waitErr := cmd.Wait()
	_ = f.Close()
	<-readerDone

	mu.Lock()
	sawPrompt := prompted
	mu.Unlock()

	if ctx.Err() != nil {
		return fmt.Errorf("%w: su timed out", ErrBackendUnavailable)
	}
	if !sawPrompt {
		return fmt.Errorf("%w: su never asked for a password", ErrBackendUnavailable)
	}
	if waitErr != nil {
		return ErrRejected
	}
	return nil
}
