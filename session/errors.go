// SPDX-License-Identifier: Apache-2.0
package session

import (
	"github.com/pkg/errors"
)

var (
	// ErrProverInitFailed both the preferred and the fallback proving
	// configuration failed to start.
	ErrProverInitFailed = errors.New("proving backend initialization failed")
	// ErrDeploymentTimeout the account deployment did not confirm in time.
	ErrDeploymentTimeout = errors.New("account deployment confirmation timed out")
	// ErrSessionNotConnected an operation requiring an active account ran
	// before Connect completed.
	ErrSessionNotConnected = errors.New("session not connected")
)
