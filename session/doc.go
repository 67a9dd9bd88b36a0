// SPDX-License-Identifier: Apache-2.0

// Package session drives the connection lifecycle of the bridge: requesting
// the EVM signer's accounts, deriving the Aztec key set from one signature,
// connecting the PXE client, initializing the proving backend, and deploying
// or reusing the deterministic account. Every transition is broadcast to
// state subscribers; any failure terminates the attempt back to disconnected.
package session // import "vizard.network/vizard-aztec-bridge/session"
