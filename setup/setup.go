// SPDX-License-Identifier: Apache-2.0

// Package setup starts and stops a local Aztec sandbox for integration
// tests. It drives the aztec CLI the same way a developer would and polls
// the PXE endpoint until it answers.
package setup

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"vizard.network/vizard-aztec-bridge/session/pxe"
)

// SandboxConfig locates the sandbox binary and the endpoint it serves.
type SandboxConfig struct {
	Bin      string // CLI binary name, looked up on PATH
	Host     string
	Port     int
	ExecPath string // working directory for the CLI, empty for cwd
}

// DefaultSandboxConfig matches a stock local sandbox installation.
var DefaultSandboxConfig = SandboxConfig{
	Bin:  "aztec",
	Host: "http://127.0.0.1",
	Port: 8080,
}

const (
	startupPollInterval = 2 * time.Second
	startupTimeout      = 90 * time.Second
)

// Sandbox is a running (or to-be-run) sandbox process.
type Sandbox struct {
	Config SandboxConfig
	Cmd    *exec.Cmd
}

// NewSandbox prepares a sandbox with the given config.
func NewSandbox(cfg SandboxConfig) *Sandbox {
	return &Sandbox{Config: cfg}
}

// URL returns the PXE endpoint the sandbox serves.
func (s *Sandbox) URL() string {
	return fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
}

// Start launches the sandbox and blocks until its PXE answers the liveness
// probe or the startup timeout elapses.
func (s *Sandbox) Start() error {
	if err := s.checkInstallation(); err != nil {
		return errors.WithMessagef(err,
			"aztec CLI not installed; check with '%s --version'", s.Config.Bin)
	}

	path, err := exec.LookPath(s.Config.Bin)
	if err != nil {
		return err
	}

	cmd := exec.Command(path, "start", "--sandbox",
		"--port", strconv.Itoa(s.Config.Port))
	cmd.Dir = s.Config.ExecPath
	if err := cmd.Start(); err != nil {
		return errors.WithMessage(err, "starting sandbox")
	}
	s.Cmd = cmd

	fmt.Println("Starting Aztec sandbox...")
	return s.awaitReady()
}

func (s *Sandbox) checkInstallation() error {
	_, err := exec.LookPath(s.Config.Bin)
	return err
}

func (s *Sandbox) awaitReady() error {
	deadline := time.Now().Add(startupTimeout)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), startupPollInterval)
		client, err := pxe.Connect(ctx, s.URL())
		cancel()
		if err == nil {
			client.Close()
			fmt.Println("Sandbox ready.")
			return nil
		}
		time.Sleep(startupPollInterval)
	}

	_ = s.Stop()
	return errors.Errorf("sandbox at %s not ready within %s", s.URL(), startupTimeout)
}

// Stop terminates the sandbox process.
func (s *Sandbox) Stop() error {
	if s.Cmd == nil || s.Cmd.Process == nil {
		return nil
	}

	if err := s.Cmd.Process.Kill(); err != nil {
		return err
	}
	s.Cmd = nil

	fmt.Println("Stopped sandbox.")
	return nil
}
