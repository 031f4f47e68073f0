// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single backend round trip.
const DefaultTimeout = 10 * time.Second

// Guard is the fail-closed verifier boundary. It satisfies lock.Verifier.
//
// Every outcome other than a nil error from the backend is a rejection:
// explicit denial, unavailable backend, timeout, panic, or no backend at all.
// The secret is never logged and is not kept after Verify returns.
type Guard struct {
	backend Backend
	timeout time.Duration
	log     *zap.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithTimeout sets the per-call deadline passed to the backend.
func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGuard wraps backend. A nil backend is allowed and rejects everything.
func NewGuard(backend Backend, opts ...GuardOption) *Guard {
	g := &Guard{
		backend: backend,
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Verify reports whether the backend accepted secret for identity.
func (g *Guard) Verify(service, identity, secret string) (accepted bool) {
	start := time.Now()
	backendName := "none"
	if g.backend != nil {
		backendName = g.backend.Name()
	}

	defer func() {
		if r := recover(); r != nil {
			accepted = false
			g.log.Error("auth backend panicked",
				zap.String("backend", backendName),
				zap.String("user", identity),
				zap.String("panic", fmt.Sprint(r)))
		}
	}()

	if g.backend == nil {
		g.log.Error("no auth backend configured", zap.String("user", identity))
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	err := g.backend.Authenticate(ctx, Request{
		Service:  service,
		Username: identity,
		Secret:   secret,
	})

	fields := []zap.Field{
		zap.String("backend", backendName),
		zap.String("service", service),
		zap.String("user", identity),
		zap.Duration("elapsed", time.Since(start)),
	}

	switch {
	case err == nil:
		g.log.Info("credential accepted", fields...)
		return true
	case errors.Is(err, ErrRejected):
		g.log.Info("credential rejected", fields...)
	case ctx.Err() != nil:
		g.log.Warn("auth backend timed out", append(fields, zap.Error(err))...)
	default:
		g.log.Warn("auth backend failed", append(fields, zap.Error(err))...)
	}
	return false
}
