// SPDX-License-Identifier: Apache-2.0

// Package wallet turns a single EVM personal-sign signature into the full key
// material of a Vizard-controlled Aztec account. It derives three
// domain-separated sub-keys from the signature, exposes the derived ed25519
// signing identity as a go-perun wallet backend, and computes the
// deterministic Aztec address the account will live at. Key material only
// ever exists in memory.
package wallet // import "vizard.network/vizard-aztec-bridge/wallet"
