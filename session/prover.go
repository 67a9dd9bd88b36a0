// SPDX-License-Identifier: Apache-2.0
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"
)

// ProverKind selects how the proving backend parallelizes.
type ProverKind string

const (
	// ProverKindWorker is the preferred multi-threaded configuration.
	ProverKindWorker ProverKind = "worker"
	// ProverKindSingleThreaded trades performance for availability on
	// environments where worker threads cannot start.
	ProverKindSingleThreaded ProverKind = "single-threaded"
)

// ProverConfig is one startup configuration of the proving backend.
type ProverConfig struct {
	Kind        ProverKind
	Threads     int
	Path        string
	LogsEnabled bool
}

// ProverRetryPolicy is the declarative two-attempt startup policy: try the
// primary configuration, fall back once, fail fatally if both fail.
type ProverRetryPolicy struct {
	Primary  ProverConfig
	Fallback ProverConfig
}

// attempts returns the configurations to try in order, deduplicated.
func (p ProverRetryPolicy) attempts() []ProverConfig {
	if p.Fallback == p.Primary {
		return []ProverConfig{p.Primary}
	}
	return []ProverConfig{p.Primary, p.Fallback}
}

// ProverBackend starts the heavy proof-generating component. It is treated
// as opaque; only startup success matters to the session.
type ProverBackend interface {
	Start(ctx context.Context, cfg ProverConfig) error
}

// ProverState is the lifecycle of a ProverGuard.
type ProverState int

const (
	ProverUninitialized ProverState = iota
	ProverInitializing
	ProverReady
	ProverFailed
)

// ProverGuard makes proving backend initialization happen at most once per
// process. Concurrent initializers collapse into one in-flight attempt; late
// callers wait for its outcome. A failed guard stays failed.
type ProverGuard struct {
	mutex  sync.Mutex
	state  ProverState
	err    error
	done   chan struct{}
	active ProverConfig
}

var processGuard ProverGuard

// DefaultProverGuard returns the process-wide guard shared by all sessions.
func DefaultProverGuard() *ProverGuard {
	return &processGuard
}

// State returns the guard's current lifecycle state.
func (g *ProverGuard) State() ProverState {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.state
}

// ActiveConfig returns the configuration the backend started with. Only
// meaningful once the guard is ready.
func (g *ProverGuard) ActiveConfig() ProverConfig {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.active
}

// Init initializes the backend under the given policy. The first caller runs
// the attempts; every other caller waits and shares the outcome.
func (g *ProverGuard) Init(ctx context.Context, backend ProverBackend, policy ProverRetryPolicy) error {
	g.mutex.Lock()
	switch g.state {
	case ProverReady:
		g.mutex.Unlock()
		return nil
	case ProverFailed:
		err := g.err
		g.mutex.Unlock()
		return err
	case ProverInitializing:
		done := g.done
		g.mutex.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
		}
		g.mutex.Lock()
		err := g.err
		g.mutex.Unlock()
		return err
	}
	g.state = ProverInitializing
	g.done = make(chan struct{})
	done := g.done
	g.mutex.Unlock()

	cfg, err := g.run(ctx, backend, policy)

	g.mutex.Lock()
	if err != nil {
		g.state = ProverFailed
		g.err = err
	} else {
		g.state = ProverReady
		g.active = cfg
	}
	g.mutex.Unlock()
	close(done)
	return err
}

func (g *ProverGuard) run(ctx context.Context, backend ProverBackend, policy ProverRetryPolicy) (ProverConfig, error) {
	l := log.Default()

	var firstErr error
	for i, cfg := range policy.attempts() {
		err := backend.Start(ctx, cfg)
		if err == nil {
			return cfg, nil
		}
		if i == 0 {
			firstErr = err
			l.Warnf("prover startup with %s/%d threads failed, falling back: %v",
				cfg.Kind, cfg.Threads, err)
		} else {
			return ProverConfig{}, errors.WithMessagef(ErrProverInitFailed,
				"primary: %v; fallback: %v", firstErr, err)
		}
	}
	return ProverConfig{}, errors.WithMessagef(ErrProverInitFailed, "%v", firstErr)
}
