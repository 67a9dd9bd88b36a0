// SPDX-License-Identifier: Apache-2.0
package session

import (
	"time"

	"vizard.network/vizard-aztec-bridge/session/pxe"
	"vizard.network/vizard-aztec-bridge/wallet"
)

const (
	// DefaultTxWaitTimeout bounds confirmation waits for session-issued
	// transactions, most importantly the account deployment.
	DefaultTxWaitTimeout = 3 * time.Minute
	// DefaultProverThreads is the preferred worker count of the proving
	// backend.
	DefaultProverThreads = 8
)

// DefaultFeeSponsorAddress is the well-known sponsored fee payment contract
// on public testnets. Override it in Config for other deployments.
var DefaultFeeSponsorAddress = mustAztecAddress(
	"0x0b27e30667202907fc700d50e9bc816be42f8141fae8b9f2281873dbdb9fc2e5")

// Config is the construction-time surface of a Session.
type Config struct {
	// PXEURL is the endpoint of the private execution environment.
	PXEURL string
	// FeeMode is the session's fee payment policy, sponsored or none.
	FeeMode pxe.FeeMode
	// AutoSync triggers a private state sync as part of connecting.
	AutoSync bool
	// FeeSponsorAddress overrides the well-known fee sponsor contract.
	FeeSponsorAddress wallet.AztecAddress
	// ProverPath locates the native proving backend binary. Empty means the
	// PXE hosts proving itself and no local backend is launched.
	ProverPath string
	// ProverThreads is the preferred worker count.
	ProverThreads int
	// ProverKind is the preferred backend kind; on startup failure the
	// session falls back to single-threaded regardless.
	ProverKind ProverKind
	// ProverLogs forwards prover output to the process streams.
	ProverLogs bool
	// TxWaitTimeout bounds confirmation waits.
	TxWaitTimeout time.Duration
}

// WithDefaults fills unset fields with their defaults.
func (c Config) WithDefaults() Config {
	if c.FeeMode == "" {
		c.FeeMode = pxe.FeeModeNone
	}
	if c.ProverThreads <= 0 {
		c.ProverThreads = DefaultProverThreads
	}
	if c.ProverKind == "" {
		c.ProverKind = ProverKindWorker
	}
	if c.TxWaitTimeout <= 0 {
		c.TxWaitTimeout = DefaultTxWaitTimeout
	}
	return c
}

func mustAztecAddress(s string) wallet.AztecAddress {
	a, err := wallet.AztecAddressFromHex(s)
	if err != nil {
		panic(err)
	}
	return a
}
