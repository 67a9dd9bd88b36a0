// SPDX-License-Identifier: Apache-2.0

// Package test provides randomized fixtures for the wallet's derived key
// material, for use in tests across the bridge.
package test

import (
	"math/rand"

	"github.com/ethereum/go-ethereum/common"

	"vizard.network/vizard-aztec-bridge/wallet"
)

// SignatureLen is the length of an EIP-191 signature in bytes.
const SignatureLen = 65

// NewRandomSignature draws a random 65-byte signature-shaped blob. It is not
// a valid secp256k1 signature, but derivation only hashes it.
func NewRandomSignature(rng *rand.Rand) []byte {
	sig := make([]byte, SignatureLen)
	rng.Read(sig)
	sig[SignatureLen-1] = 27 + byte(rng.Intn(2))
	return sig
}

// NewRandomEVMAddress draws a random source address.
func NewRandomEVMAddress(rng *rand.Rand) common.Address {
	var addr common.Address
	rng.Read(addr[:])
	return addr
}

// NewRandomKeySet expands a random signature into a full key set.
func NewRandomKeySet(rng *rand.Rand) *wallet.DerivedKeySet {
	return wallet.KeysFromSignature(NewRandomEVMAddress(rng), NewRandomSignature(rng))
}

// NewRandomAccount returns a random derived signing account.
func NewRandomAccount(rng *rand.Rand) wallet.Account {
	return NewRandomKeySet(rng).SigningKey
}

// NewRandomAztecAddress returns the on-network address of a random key set.
func NewRandomAztecAddress(rng *rand.Rand) wallet.AztecAddress {
	return NewRandomKeySet(rng).ComputeAddress()
}
