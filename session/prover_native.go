// SPDX-License-Identifier: Apache-2.0
package session

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"
)

// nativeStartupGrace is how long the backend process must survive after
// launch before the start is considered successful.
const nativeStartupGrace = 2 * time.Second

// NativeProver launches the proving backend as a local subprocess. With an
// empty ProverConfig.Path it is a no-op; proving then happens inside the PXE.
type NativeProver struct {
	log.Embedding

	mutex sync.Mutex
	cmd   *exec.Cmd
}

var _ ProverBackend = (*NativeProver)(nil)

// NewNativeProver returns an unstarted backend handle.
func NewNativeProver() *NativeProver {
	return &NativeProver{Embedding: log.MakeEmbedding(log.Default())}
}

// Start launches the backend with the requested configuration and waits the
// startup grace period to catch immediate exits.
func (p *NativeProver) Start(ctx context.Context, cfg ProverConfig) error {
	if cfg.Path == "" {
		return nil
	}

	path, err := exec.LookPath(cfg.Path)
	if err != nil {
		return errors.WithMessagef(err, "locating prover binary %q", cfg.Path)
	}

	args := []string{
		"start",
		"--mode", string(cfg.Kind),
		"--threads", strconv.Itoa(cfg.Threads),
	}
	cmd := exec.Command(path, args...)
	if cfg.LogsEnabled {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return errors.WithMessagef(err, "starting prover %s", path)
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case err := <-exited:
		if err == nil {
			return errors.Errorf("prover %s exited during startup", path)
		}
		return errors.WithMessagef(err, "prover %s exited during startup", path)
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		return ctx.Err()
	case <-time.After(nativeStartupGrace):
	}

	p.mutex.Lock()
	p.cmd = cmd
	p.mutex.Unlock()
	p.Log().Infof("prover running: %s %s/%d threads", path, cfg.Kind, cfg.Threads)
	return nil
}

// Stop kills a running backend process. Safe to call when never started.
func (p *NativeProver) Stop() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	err := p.cmd.Process.Kill()
	p.cmd = nil
	return err
}
