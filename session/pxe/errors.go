// SPDX-License-Identifier: Apache-2.0
package pxe

import (
	"github.com/pkg/errors"
)

var (
	// ErrNetworkUnreachable the PXE endpoint did not answer the startup probe.
	ErrNetworkUnreachable = errors.New("private network endpoint unreachable")
	// ErrConfirmationTimeout a submitted transaction did not confirm in time.
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
	// ErrContractNotFound no contract instance exists at the requested address.
	ErrContractNotFound = errors.New("no contract instance at address")
	// ErrTxDropped the network dropped the transaction before inclusion.
	ErrTxDropped = errors.New("transaction dropped by the network")
)
